package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/render"
	"github.com/SscSPs/billistry/internal/utils"
)

// PrintPathPrefix is where print tokens are redeemed.
const PrintPathPrefix = "/api/v1/print/"

type printService struct {
	BaseService
	ledger       portsrepo.LedgerRepositoryFacade
	businessRepo portsrepo.BusinessReader
	tokens       portssvc.PrintTokenStore
}

// NewPrintService creates a new print service backed by tokens.
func NewPrintService(ledger portsrepo.LedgerRepositoryFacade, businessRepo portsrepo.BusinessReader, tokens portssvc.PrintTokenStore, opts ...ServiceOption) portssvc.PrintSvcFacade {
	svc := &printService{ledger: ledger, businessRepo: businessRepo, tokens: tokens}
	svc.apply(opts)
	return svc
}

var _ portssvc.PrintSvcFacade = (*printService)(nil)

func checkPrintableKind(kind domain.DocumentKind) error {
	if !kind.IsInvoice() && !kind.IsReturn() {
		return apperrors.NewValidationError(fmt.Sprintf("documents of kind %q cannot be printed", kind))
	}
	return nil
}

// render loads the document of businessID and draws it.
func (s *printService) render(ctx context.Context, businessID string, kind domain.DocumentKind, documentID string, copies int) (*portssvc.PDFDocument, error) {
	business, err := s.businessRepo.FindBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	var (
		data   []byte
		number string
	)
	if kind.IsInvoice() {
		inv, err := s.ledger.FindInvoiceByID(ctx, businessID, kind, documentID)
		if err != nil {
			return nil, err
		}
		number = inv.InvoiceNumber
		data, err = render.Invoice(*business, *inv, copies)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to render invoice", err)
		}
	} else {
		ret, err := s.ledger.FindReturnByID(ctx, businessID, kind, documentID)
		if err != nil {
			return nil, err
		}
		number = ret.ReturnNumber
		data, err = render.Return(*business, *ret, copies)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to render return", err)
		}
	}
	return &portssvc.PDFDocument{FileName: number + ".pdf", Data: data}, nil
}

func (s *printService) RenderDocument(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, documentID string) (*portssvc.PDFDocument, error) {
	if err := checkPrintableKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	doc, err := s.render(ctx, actor.BusinessID, kind, documentID, 1)
	if err != nil {
		s.LogError(ctx, err, "Failed to render document", slog.String("kind", string(kind)), slog.String("document_id", documentID))
		return nil, err
	}
	return doc, nil
}

// IssuePrintToken stores a single-use print job for a document the actor can see.
func (s *printService) IssuePrintToken(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, documentID string, req dto.PrintTokenRequest) (*dto.PrintTokenResponse, error) {
	if err := checkPrintableKind(kind); err != nil {
		return nil, err
	}
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	if kind.IsInvoice() {
		if _, err := s.ledger.FindInvoiceByID(ctx, actor.BusinessID, kind, documentID); err != nil {
			return nil, err
		}
	} else if _, err := s.ledger.FindReturnByID(ctx, actor.BusinessID, kind, documentID); err != nil {
		return nil, err
	}

	token, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate print token", err)
	}
	copies := req.Copies
	if copies < 1 {
		copies = 1
	}
	s.tokens.Put(token, portssvc.PrintJob{
		BusinessID: actor.BusinessID,
		Kind:       kind,
		DocumentID: documentID,
		Copies:     copies,
	})
	return &dto.PrintTokenResponse{
		Token:     token,
		URL:       PrintPathPrefix + token,
		ExpiresAt: s.Now().Add(s.tokens.TTL()),
	}, nil
}

// RenderByToken redeems a print token. A token works once.
func (s *printService) RenderByToken(ctx context.Context, token string) (*portssvc.PDFDocument, error) {
	job, ok := s.tokens.Take(token)
	if !ok {
		return nil, apperrors.NewNotFoundError("print link has expired")
	}
	doc, err := s.render(ctx, job.BusinessID, job.Kind, job.DocumentID, job.Copies)
	if err != nil {
		s.LogError(ctx, err, "Failed to render print job", slog.String("document_id", job.DocumentID))
		return nil, err
	}
	return doc, nil
}
