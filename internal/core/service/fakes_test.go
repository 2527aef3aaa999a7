package service

import (
	"context"
	"sync"

	"return_app/internal/core/domain"
)

type fakeGateway struct {
	mu sync.Mutex

	pages      map[int]domain.PageResult
	pageCalls  []int
	orders     map[string]domain.OrderSummary
	requests   map[string]domain.ReturnRequest
	owners     map[string]string
	created    []domain.ReturnRequestInput
	createID   string
	createErr  error
	createHook func()
	updateErr  error
	updates    []domain.Comment
	pageErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:    map[int]domain.PageResult{},
		orders:   map[string]domain.OrderSummary{},
		requests: map[string]domain.ReturnRequest{},
		owners:   map[string]string{},
	}
}

func (g *fakeGateway) OrdersAvailableToReturn(_ context.Context, page int) (domain.PageResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pageCalls = append(g.pageCalls, page)
	if g.pageErr != nil {
		return domain.PageResult{}, g.pageErr
	}
	return g.pages[page], nil
}

func (g *fakeGateway) OrderToReturnSummary(_ context.Context, orderID string) (domain.OrderSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[orderID]
	if !ok {
		return domain.OrderSummary{}, gatewayErr("orderToReturnSummary", "E_HTTP_404")
	}
	return o, nil
}

func (g *fakeGateway) CreateReturnRequest(ctx context.Context, in domain.ReturnRequestInput) (string, error) {
	if g.createHook != nil {
		g.createHook()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return "", g.createErr
	}
	g.created = append(g.created, in)
	if tok := domain.CustomerToken(ctx); tok != "" {
		g.owners[g.createID] = tok
	}
	return g.createID, nil
}

// ReturnRequest answers FORBIDDEN to a shopper token other than the owner's,
// like the remote API does. Calls without a token are back-office calls.
func (g *fakeGateway) ReturnRequest(ctx context.Context, id string) (domain.ReturnRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if owner, ok := g.owners[id]; ok {
		if tok := domain.CustomerToken(ctx); tok != "" && tok != owner {
			return domain.ReturnRequest{}, gatewayErr("returnRequestDetails", "FORBIDDEN")
		}
	}
	rr, ok := g.requests[id]
	if !ok {
		return domain.ReturnRequest{}, domain.ErrNotFound
	}
	return rr, nil
}

func (g *fakeGateway) UpdateReturnRequestStatus(_ context.Context, id string, status domain.Status, c domain.Comment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		return g.updateErr
	}
	g.updates = append(g.updates, c)
	if rr, ok := g.requests[id]; ok {
		rr.Status = status
		rr.Comments = append(rr.Comments, c)
		g.requests[id] = rr
	}
	return nil
}

func gatewayErr(op, code string) error {
	return &domain.GatewayError{
		Op: op,
		Errors: []domain.GraphQLError{{
			Message:    code,
			Extensions: &domain.GraphQLErrorExtensions{Exception: &domain.GraphQLException{Code: code}},
		}},
	}
}

type fakeRepo struct {
	mu       sync.Mutex
	rows     map[string]domain.ReturnRequest
	order    []string
	upserts  int
	upsertFn func() error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]domain.ReturnRequest{}}
}

func (r *fakeRepo) Upsert(_ context.Context, rr domain.ReturnRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if r.upsertFn != nil {
		if err := r.upsertFn(); err != nil {
			return err
		}
	}
	if _, ok := r.rows[rr.ID]; !ok {
		r.order = append([]string{rr.ID}, r.order...)
	}
	r.rows[rr.ID] = rr
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (domain.ReturnRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rr, ok := r.rows[id]
	if !ok {
		return domain.ReturnRequest{}, domain.ErrNotFound
	}
	return rr, nil
}

func (r *fakeRepo) AppendComment(_ context.Context, id string, status domain.Status, c domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rr, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	rr.Status = status
	rr.Comments = append(rr.Comments, c)
	r.rows[id] = rr
	return nil
}

func (r *fakeRepo) ListLatest(_ context.Context, limit, offset int) ([]domain.ReturnRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ReturnRequest
	for i := offset; i < len(r.order) && len(out) < limit; i++ {
		out = append(out, r.rows[r.order[i]])
	}
	return out, nil
}

func (r *fakeRepo) CountRequests(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

type fakeCache struct {
	mu   sync.Mutex
	rows map[string]domain.ReturnRequest
}

func newFakeCache() *fakeCache { return &fakeCache{rows: map[string]domain.ReturnRequest{}} }

func (c *fakeCache) Get(_ context.Context, id string) (domain.ReturnRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rr, ok := c.rows[id]
	return rr, ok
}

func (c *fakeCache) Set(_ context.Context, rr domain.ReturnRequest) {
	c.mu.Lock()
	c.rows[rr.ID] = rr
	c.mu.Unlock()
}

func (c *fakeCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	delete(c.rows, id)
	c.mu.Unlock()
}

func (c *fakeCache) Len(context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}
