package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pages(total int) map[int]domain.PageResult {
	out := map[int]domain.PageResult{}
	for i := 1; i <= total; i++ {
		out[i] = domain.PageResult{
			Items:  []domain.OrderSummary{{OrderID: "o"}},
			Paging: domain.Paging{CurrentPage: i, TotalPages: total},
		}
	}
	return out
}

func TestBrowseMountAndNavigate(t *testing.T) {
	gw := newFakeGateway()
	gw.pages = pages(3)
	svc := NewBrowseService(gw, time.Minute, zap.NewNop())
	ctx := context.Background()

	id, v, err := svc.Mount(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, v.Current)

	v, err = svc.Navigate(ctx, id, 2, pagination.Forward)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Current)

	v, err = svc.Navigate(ctx, id, 1, pagination.Backward)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Current)
	assert.Equal(t, []int{1, 2}, gw.pageCalls)

	svc.Unmount(id)
	_, err = svc.Navigate(ctx, id, 2, pagination.Forward)
	assert.ErrorIs(t, err, ErrBrowseExpired)
}

func TestBrowseMountFailureKeepsSessionForRetry(t *testing.T) {
	gw := newFakeGateway()
	gw.pages = pages(2)
	gw.pageErr = errors.New("timeout")
	svc := NewBrowseService(gw, time.Minute, zap.NewNop())
	ctx := context.Background()

	id, v, err := svc.Mount(ctx)
	require.Error(t, err)
	assert.False(t, v.Loaded)
	assert.Equal(t, 1, svc.Len())

	gw.mu.Lock()
	gw.pageErr = nil
	gw.mu.Unlock()

	v, err = svc.Navigate(ctx, id, 1, pagination.Forward)
	require.NoError(t, err)
	assert.True(t, v.Loaded)
	assert.Equal(t, 1, v.Current)
}
