package outbound

import (
	"context"

	"return_app/internal/core/domain"
)

// ReturnRepository is the local ledger of return requests.
type ReturnRepository interface {
	Upsert(ctx context.Context, rr domain.ReturnRequest) error
	GetByID(ctx context.Context, id string) (domain.ReturnRequest, error)
	AppendComment(ctx context.Context, id string, status domain.Status, c domain.Comment) error
	ListLatest(ctx context.Context, limit, offset int) ([]domain.ReturnRequest, error)
	CountRequests(ctx context.Context) (int, error)
}
