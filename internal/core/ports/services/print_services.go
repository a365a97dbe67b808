package services

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
)

// PDFDocument is a rendered file ready to stream.
type PDFDocument struct {
	FileName string
	Data     []byte
}

// PrintSvcFacade renders documents and hands them off through print tokens.
type PrintSvcFacade interface {
	RenderDocument(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, documentID string) (*PDFDocument, error)
	IssuePrintToken(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, documentID string, req dto.PrintTokenRequest) (*dto.PrintTokenResponse, error)

	// RenderByToken resolves a print token once and renders its document.
	RenderByToken(ctx context.Context, token string) (*PDFDocument, error)
}

// PrintJob is what a print token resolves to.
type PrintJob struct {
	BusinessID string
	Kind       domain.DocumentKind
	DocumentID string
	Copies     int
}

// PrintTokenStore keeps print jobs for a bounded time. Take removes the job,
// so a token resolves at most once.
type PrintTokenStore interface {
	Put(token string, job PrintJob)
	Take(token string) (PrintJob, bool)
	TTL() time.Duration
}
