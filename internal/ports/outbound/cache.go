package outbound

import (
	"context"

	"return_app/internal/core/domain"
)

type ReturnCache interface {
	Get(ctx context.Context, id string) (domain.ReturnRequest, bool)
	Set(ctx context.Context, rr domain.ReturnRequest)
	Delete(ctx context.Context, id string)
	Len(ctx context.Context) int
}
