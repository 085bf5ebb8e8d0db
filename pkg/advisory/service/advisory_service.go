package service

import (
	"context"
	"errors"

	"cropcal/entities"
)

var ErrDomainNotAllowed = errors.New("domain not allowed")

type AdvisoryService interface {
	Ingest(ctx context.Context, title, tags, text, sourceURL string) (*entities.AdvisoryDocument, error)
	IngestURL(ctx context.Context, rawURL, title, tags string) (*entities.AdvisoryDocument, error)
	Search(ctx context.Context, query string, k int) ([]entities.AdvisoryDocument, error)
	// Refs is Search reduced to title and link.
	Refs(ctx context.Context, query string, k int) ([]entities.ArticleRef, error)
}
