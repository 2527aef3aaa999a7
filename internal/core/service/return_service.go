package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/errcode"
	"return_app/internal/core/timeline"
	"return_app/internal/ports/inbound"
	"return_app/internal/ports/outbound"

	"go.uber.org/zap"
)

type ReturnService struct {
	gateway  outbound.ReturnGateway
	repo     outbound.ReturnRepository
	cache    outbound.ReturnCache
	notifier outbound.Notifier
	log      *zap.Logger
	now      func() time.Time

	// order ids with a submission in progress
	inflight sync.Map
}

func NewReturnService(
	gateway outbound.ReturnGateway,
	repo outbound.ReturnRepository,
	cache outbound.ReturnCache,
	notifier outbound.Notifier,
	log *zap.Logger,
) *ReturnService {
	return &ReturnService{
		gateway:  gateway,
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *ReturnService) OrderToReturn(ctx context.Context, orderID string) (domain.OrderSummary, error) {
	if orderID == "" {
		return domain.OrderSummary{}, domain.ErrNotFound
	}
	o, err := s.gateway.OrderToReturnSummary(ctx, orderID)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("order to return: %w", err)
	}
	return o, nil
}

// Submit validates the draft and creates the return request remotely. Nothing
// is recorded locally unless the remote call succeeds.
func (s *ReturnService) Submit(ctx context.Context, draft domain.ReturnRequestInput) (string, error) {
	in, err := draft.Validated()
	if err != nil {
		return "", err
	}

	if _, busy := s.inflight.LoadOrStore(in.OrderID, struct{}{}); busy {
		return "", domain.ErrSubmissionInFlight
	}
	defer s.inflight.Delete(in.OrderID)

	id, err := s.gateway.CreateReturnRequest(ctx, in)
	if err != nil {
		s.log.Error("create return request failed",
			zap.String("order_id", in.OrderID),
			zap.String("code", string(errcode.FromError(err))),
			zap.Error(err))
		return "", fmt.Errorf("create return request: %w", err)
	}

	rr, ok := s.createdRecord(ctx, id, in)
	if ok {
		s.remember(ctx, rr)
	}
	s.notify(ctx, domain.NewNotification(domain.NotificationCreated, rr, "", s.now()))

	return id, nil
}

// createdRecord loads the request just created. When the remote record is
// not readable yet it is rebuilt from the draft and the order summary; without
// the summary the record is not kept, since its totals would be wrong.
func (s *ReturnService) createdRecord(ctx context.Context, id string, in domain.ReturnRequestInput) (domain.ReturnRequest, bool) {
	remote, err := s.gateway.ReturnRequest(ctx, id)
	if err == nil {
		return remote, true
	}
	s.log.Warn("created return request not readable yet, recording draft",
		zap.String("request_id", id), zap.Error(err))

	order, oerr := s.gateway.OrderToReturnSummary(ctx, in.OrderID)
	rr := in.ToReturnRequest(id, order, s.now())
	if oerr != nil {
		s.log.Warn("order summary unavailable, return request not recorded locally",
			zap.String("request_id", id), zap.String("order_id", in.OrderID), zap.Error(oerr))
		return rr, false
	}
	return rr, true
}

// GetByID reads through cache, ledger and finally the remote API. It serves
// back-office callers; shoppers go through CustomerRequest.
func (s *ReturnService) GetByID(ctx context.Context, id string) (domain.ReturnRequest, error) {
	if id == "" {
		return domain.ReturnRequest{}, domain.ErrNotFound
	}

	if rr, ok := s.cache.Get(ctx, id); ok {
		return rr, nil
	}

	rr, err := s.repo.GetByID(ctx, id)
	if err == nil {
		if !rr.Complete() {
			if remote, rerr := s.gateway.ReturnRequest(ctx, id); rerr == nil {
				rr = remote
				s.remember(ctx, rr)
				return rr, nil
			}
		}
		s.cache.Set(ctx, rr)
		return rr, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.ReturnRequest{}, fmt.Errorf("db get: %w", err)
	}

	rr, err = s.gateway.ReturnRequest(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errcode.FromError(err) == errcode.OrderNotFound {
			return domain.ReturnRequest{}, domain.ErrNotFound
		}
		return domain.ReturnRequest{}, fmt.Errorf("gateway get: %w", err)
	}
	s.remember(ctx, rr)
	return rr, nil
}

// CustomerRequest reads a return request on behalf of the shopper in ctx.
// Local copies are never served here: the remote API checks ownership with
// the shopper's token.
func (s *ReturnService) CustomerRequest(ctx context.Context, id string) (domain.ReturnRequest, error) {
	if id == "" {
		return domain.ReturnRequest{}, domain.ErrNotFound
	}
	if domain.CustomerToken(ctx) == "" {
		return domain.ReturnRequest{}, domain.ErrUnauthorized
	}

	rr, err := s.gateway.ReturnRequest(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errcode.FromError(err) == errcode.OrderNotFound:
			return domain.ReturnRequest{}, domain.ErrNotFound
		case errcode.FromError(err) == errcode.Forbidden:
			s.log.Warn("return request read refused", zap.String("request_id", id))
			return domain.ReturnRequest{}, fmt.Errorf("%w: %w", domain.ErrForbidden, err)
		}
		return domain.ReturnRequest{}, fmt.Errorf("gateway get: %w", err)
	}
	s.remember(ctx, rr)
	return rr, nil
}

func (s *ReturnService) remember(ctx context.Context, rr domain.ReturnRequest) {
	if err := s.repo.Upsert(ctx, rr); err != nil {
		s.log.Error("ledger upsert failed", zap.String("request_id", rr.ID), zap.Error(err))
	}
	s.cache.Set(ctx, rr)
}

// Timeline builds the status timeline. The customer view is read with the
// shopper's token and only shows comments marked visible for them.
func (s *ReturnService) Timeline(ctx context.Context, id string, customerView bool) ([]timeline.Step, error) {
	if customerView {
		rr, err := s.CustomerRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		return timeline.Build(rr.Status, rr.CustomerComments(), rr.DateSubmitted), nil
	}

	rr, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return timeline.Build(rr.Status, rr.Comments, rr.DateSubmitted), nil
}

func (s *ReturnService) ListPage(ctx context.Context, page, pageSize int) ([]domain.ReturnRequest, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.repo.CountRequests(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("db count: %w", err)
	}
	if total == 0 {
		return []domain.ReturnRequest{}, 0, nil
	}

	list, err := s.repo.ListLatest(ctx, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db list: %w", err)
	}
	return list, total, nil
}

// UpdateStatus moves a request to status and records c. The remote API is
// updated first; the ledger follows.
func (s *ReturnService) UpdateStatus(ctx context.Context, id string, status domain.Status, c domain.Comment) error {
	if !status.Valid() {
		return domain.ErrUnknownStatus
	}
	rr, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	c.Status = status
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	if err := s.gateway.UpdateReturnRequestStatus(ctx, id, status, c); err != nil {
		s.log.Error("update return request status failed",
			zap.String("request_id", id),
			zap.Stringer("status", status),
			zap.String("code", string(errcode.FromError(err))),
			zap.Error(err))
		return fmt.Errorf("update status: %w", err)
	}

	if err := s.repo.AppendComment(ctx, id, status, c); err != nil {
		s.log.Error("ledger comment failed", zap.String("request_id", id), zap.Error(err))
	}
	s.cache.Delete(ctx, id)

	rr.Status = status
	text := ""
	if c.VisibleForCustomer {
		text = c.Text
	}
	s.notify(ctx, domain.NewNotification(domain.NotificationStatusChanged, rr, text, s.now()))
	return nil
}

func (s *ReturnService) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil || n.CustomerEmail == "" {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("notification not queued",
			zap.String("request_id", n.RequestID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
	}
}

var _ inbound.ReturnUseCase = (*ReturnService)(nil)
