package httpin

import (
	"context"
	"sync"

	"return_app/internal/core/domain"
	"return_app/internal/core/pagination"
	"return_app/internal/core/service"
	"return_app/internal/core/timeline"
)

type navCall struct {
	id   string
	page int
	dir  pagination.Direction
}

type fakeBrowser struct {
	mu        sync.Mutex
	view      pagination.View
	mountErr  error
	navErr    error
	known     map[string]bool
	navs      []navCall
	unmounted []string
	nextID    string
}

func (b *fakeBrowser) Mount(context.Context) (string, pagination.View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.known == nil {
		b.known = map[string]bool{}
	}
	b.known[b.nextID] = true
	return b.nextID, b.view, b.mountErr
}

func (b *fakeBrowser) Navigate(_ context.Context, id string, page int, dir pagination.Direction) (pagination.View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.known[id] {
		return pagination.View{}, service.ErrBrowseExpired
	}
	b.navs = append(b.navs, navCall{id: id, page: page, dir: dir})
	return b.view, b.navErr
}

func (b *fakeBrowser) Unmount(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.known, id)
	b.unmounted = append(b.unmounted, id)
}

type statusCall struct {
	id      string
	status  domain.Status
	comment domain.Comment
}

type fakeReturns struct {
	mu sync.Mutex

	order     domain.OrderSummary
	orderErr  error
	submitID  string
	submitErr error
	submitted []domain.ReturnRequestInput
	tokens    []string
	requests  map[string]domain.ReturnRequest
	owners    map[string]string
	list      []domain.ReturnRequest
	total     int
	listErr   error
	updateErr error
	updates   []statusCall
	views     []bool
}

func (f *fakeReturns) OrderToReturn(ctx context.Context, orderID string) (domain.OrderSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, domain.CustomerToken(ctx))
	if f.orderErr != nil {
		return domain.OrderSummary{}, f.orderErr
	}
	o := f.order
	o.OrderID = orderID
	return o, nil
}

func (f *fakeReturns) Submit(_ context.Context, draft domain.ReturnRequestInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, draft)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitID, nil
}

func (f *fakeReturns) GetByID(_ context.Context, id string) (domain.ReturnRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rr, ok := f.requests[id]
	if !ok {
		return domain.ReturnRequest{}, domain.ErrNotFound
	}
	return rr, nil
}

// CustomerRequest mirrors the remote ownership check: a token is required
// and must belong to the owner when one is recorded.
func (f *fakeReturns) CustomerRequest(ctx context.Context, id string) (domain.ReturnRequest, error) {
	tok := domain.CustomerToken(ctx)
	if tok == "" {
		return domain.ReturnRequest{}, domain.ErrUnauthorized
	}
	f.mu.Lock()
	owner, owned := f.owners[id]
	f.mu.Unlock()
	if owned && owner != tok {
		return domain.ReturnRequest{}, domain.ErrForbidden
	}
	return f.GetByID(ctx, id)
}

func (f *fakeReturns) Timeline(ctx context.Context, id string, customerView bool) ([]timeline.Step, error) {
	read := f.GetByID
	if customerView {
		read = f.CustomerRequest
	}
	rr, err := read(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.views = append(f.views, customerView)
	f.mu.Unlock()
	comments := rr.Comments
	if customerView {
		comments = rr.CustomerComments()
	}
	return timeline.Build(rr.Status, comments, rr.DateSubmitted), nil
}

func (f *fakeReturns) ListPage(context.Context, int, int) ([]domain.ReturnRequest, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list, f.total, f.listErr
}

func (f *fakeReturns) UpdateStatus(_ context.Context, id string, status domain.Status, c domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, statusCall{id: id, status: status, comment: c})
	return f.updateErr
}
