package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"return_app/internal/core/pagination"
	"return_app/internal/ports/inbound"

	"go.uber.org/zap"
)

var ErrBrowseExpired = errors.New("browse session expired")

type BrowseService struct {
	reg *pagination.Registry
	log *zap.Logger
}

func NewBrowseService(f pagination.Fetcher, ttl time.Duration, log *zap.Logger) *BrowseService {
	return &BrowseService{reg: pagination.NewRegistry(f, ttl), log: log}
}

// Mount opens a fresh browse and loads page 1. The browse id is returned even
// when the first load fails so the shopper can retry on it.
func (s *BrowseService) Mount(ctx context.Context) (string, pagination.View, error) {
	id, sess := s.reg.Open()
	v, err := sess.Load(ctx)
	if err != nil {
		s.log.Warn("initial orders page failed", zap.String("browse_id", id), zap.Error(err))
		return id, v, fmt.Errorf("mount: %w", err)
	}
	return id, v, nil
}

func (s *BrowseService) Navigate(ctx context.Context, browseID string, page int, dir pagination.Direction) (pagination.View, error) {
	sess, ok := s.reg.Get(browseID)
	if !ok {
		return pagination.View{}, ErrBrowseExpired
	}
	v, err := sess.Navigate(ctx, page, dir)
	if err != nil {
		s.log.Warn("orders page navigation failed",
			zap.String("browse_id", browseID),
			zap.Int("page", page),
			zap.Stringer("direction", dir),
			zap.Error(err))
		return v, err
	}
	return v, nil
}

func (s *BrowseService) Unmount(browseID string) {
	s.reg.Close(browseID)
}

// Sweep drops idle browses and returns how many were removed.
func (s *BrowseService) Sweep() int {
	return s.reg.Sweep()
}

func (s *BrowseService) Len() int {
	return s.reg.Len()
}

var _ inbound.OrderBrowser = (*BrowseService)(nil)
