package inbound

import (
	"context"

	"return_app/internal/core/domain"
	"return_app/internal/core/pagination"
	"return_app/internal/core/timeline"
)

// OrderBrowser drives the paginated "orders available to return" list.
type OrderBrowser interface {
	Mount(ctx context.Context) (browseID string, v pagination.View, err error)
	Navigate(ctx context.Context, browseID string, page int, dir pagination.Direction) (pagination.View, error)
	Unmount(browseID string)
}

type ReturnUseCase interface {
	OrderToReturn(ctx context.Context, orderID string) (domain.OrderSummary, error)
	Submit(ctx context.Context, draft domain.ReturnRequestInput) (string, error)
	GetByID(ctx context.Context, id string) (domain.ReturnRequest, error)
	CustomerRequest(ctx context.Context, id string) (domain.ReturnRequest, error)
	Timeline(ctx context.Context, id string, customerView bool) ([]timeline.Step, error)
	ListPage(ctx context.Context, page, pageSize int) (requests []domain.ReturnRequest, total int, err error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, c domain.Comment) error
}
