package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
)

type auditLogRepository struct {
	store *Store
}

func newAuditLogRepository(store *Store) *auditLogRepository {
	return &auditLogRepository{store: store}
}

var _ portsrepo.AuditLogRepositoryFacade = (*auditLogRepository)(nil)

func (r *auditLogRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	return r.store.write(ctx, func(st *state) error {
		st.auditLogs = append(st.auditLogs, entry)
		return nil
	})
}

func (r *auditLogRepository) ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter, page int, limit int) ([]domain.AuditLog, int64, error) {
	var logs []domain.AuditLog
	r.store.read(func(st *state) {
		for _, l := range st.auditLogs {
			if filter.Matches(l) {
				logs = append(logs, l)
			}
		}
	})
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if page < 1 {
		page = 1
	}
	return offsetPage(logs, limit, (page-1)*limit), int64(len(logs)), nil
}
