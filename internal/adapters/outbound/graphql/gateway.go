package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/pagination"
	"return_app/internal/ports/outbound"
)

// Gateway implements the return operations on top of Client.
type Gateway struct {
	c *Client
}

func NewGateway(c *Client) *Gateway {
	return &Gateway{c: c}
}

func (g *Gateway) OrdersAvailableToReturn(ctx context.Context, page int) (domain.PageResult, error) {
	var out struct {
		OrdersAvailableToReturn *domain.PageResult `json:"ordersAvailableToReturn"`
	}
	err := g.c.Do(ctx, "ordersAvailableToReturn", ordersAvailableToReturnQuery,
		map[string]any{"page": page}, &out)
	if err != nil {
		return domain.PageResult{}, err
	}
	if out.OrdersAvailableToReturn == nil {
		return domain.PageResult{}, fmt.Errorf("ordersAvailableToReturn page %d: %w", page, pagination.ErrNoResult)
	}
	return *out.OrdersAvailableToReturn, nil
}

func (g *Gateway) OrderToReturnSummary(ctx context.Context, orderID string) (domain.OrderSummary, error) {
	var out struct {
		OrderToReturnSummary *domain.OrderSummary `json:"orderToReturnSummary"`
	}
	err := g.c.Do(ctx, "orderToReturnSummary", orderToReturnSummaryQuery,
		map[string]any{"orderId": orderID}, &out)
	if err != nil {
		return domain.OrderSummary{}, err
	}
	if out.OrderToReturnSummary == nil {
		return domain.OrderSummary{}, domain.ErrNotFound
	}
	return *out.OrderToReturnSummary, nil
}

func (g *Gateway) CreateReturnRequest(ctx context.Context, in domain.ReturnRequestInput) (string, error) {
	var out struct {
		CreateReturnRequest struct {
			ReturnRequestID string `json:"returnRequestId"`
		} `json:"createReturnRequest"`
	}
	err := g.c.Do(ctx, "createReturnRequest", createReturnRequestMutation,
		map[string]any{"returnRequest": in}, &out)
	if err != nil {
		return "", err
	}
	if out.CreateReturnRequest.ReturnRequestID == "" {
		return "", errors.New("createReturnRequest: empty returnRequestId")
	}
	return out.CreateReturnRequest.ReturnRequestID, nil
}

type requestDetails struct {
	ID              string        `json:"id"`
	OrderID         string        `json:"orderId"`
	Status          domain.Status `json:"status"`
	DateSubmitted   time.Time     `json:"dateSubmitted"`
	CultureInfoData struct {
		CurrencyCode string `json:"currencyCode"`
	} `json:"cultureInfoData"`
	Customer    domain.ContactDetails `json:"customerProfileData"`
	Pickup      domain.PickupAddress  `json:"pickupReturnData"`
	Refund      domain.RefundPayment  `json:"refundPaymentData"`
	UserComment string                `json:"userComment"`
	Items       []domain.ReturnItem   `json:"items"`
	Comments    []domain.Comment      `json:"refundStatusData"`
}

func (d requestDetails) toDomain() domain.ReturnRequest {
	return domain.ReturnRequest{
		ID:            d.ID,
		OrderID:       d.OrderID,
		Status:        d.Status,
		DateSubmitted: d.DateSubmitted,
		CurrencyCode:  d.CultureInfoData.CurrencyCode,
		Customer:      d.Customer,
		Pickup:        d.Pickup,
		Refund:        d.Refund,
		UserComment:   d.UserComment,
		Items:         d.Items,
		Comments:      d.Comments,
	}
}

func (g *Gateway) ReturnRequest(ctx context.Context, id string) (domain.ReturnRequest, error) {
	var out struct {
		ReturnRequestDetails *requestDetails `json:"returnRequestDetails"`
	}
	err := g.c.Do(ctx, "returnRequestDetails", returnRequestQuery,
		map[string]any{"requestId": id}, &out)
	if err != nil {
		return domain.ReturnRequest{}, err
	}
	if out.ReturnRequestDetails == nil {
		return domain.ReturnRequest{}, domain.ErrNotFound
	}
	return out.ReturnRequestDetails.toDomain(), nil
}

func (g *Gateway) UpdateReturnRequestStatus(ctx context.Context, id string, status domain.Status, c domain.Comment) error {
	vars := map[string]any{
		"requestId": id,
		"status":    status.TranslationKey(),
	}
	if c.Text != "" {
		vars["comment"] = map[string]any{
			"value":              c.Text,
			"visibleForCustomer": c.VisibleForCustomer,
		}
	}
	return g.c.Do(ctx, "updateReturnRequestStatus", updateReturnRequestStatusMutation, vars, nil)
}

var _ outbound.ReturnGateway = (*Gateway)(nil)
