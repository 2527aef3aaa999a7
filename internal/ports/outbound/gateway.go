package outbound

import (
	"context"

	"return_app/internal/core/domain"
)

// ReturnGateway is the remote commerce GraphQL API.
type ReturnGateway interface {
	OrdersAvailableToReturn(ctx context.Context, page int) (domain.PageResult, error)
	OrderToReturnSummary(ctx context.Context, orderID string) (domain.OrderSummary, error)
	CreateReturnRequest(ctx context.Context, in domain.ReturnRequestInput) (string, error)
	ReturnRequest(ctx context.Context, id string) (domain.ReturnRequest, error)
	UpdateReturnRequestStatus(ctx context.Context, id string, status domain.Status, c domain.Comment) error
}
