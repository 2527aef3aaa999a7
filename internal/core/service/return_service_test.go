package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/errcode"
	"return_app/internal/core/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	gw    *fakeGateway
	repo  *fakeRepo
	cache *fakeCache
	note  *fakeNotifier
	logs  *observer.ObservedLogs
	svc   *ReturnService
}

var fixedNow = time.Date(2024, time.May, 5, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		gw:    newFakeGateway(),
		repo:  newFakeRepo(),
		cache: newFakeCache(),
		note:  &fakeNotifier{},
		logs:  logs,
	}
	f.gw.orders["1100-01"] = domain.OrderSummary{
		OrderID:      "1100-01",
		CurrencyCode: "BRL",
		InvoicedItems: []domain.InvoicedItem{
			{OrderItemIndex: 0, Name: "Shoe", Quantity: 2, SellingPrice: 1000, Tax: 100},
			{OrderItemIndex: 1, Name: "Sock", Quantity: 1, SellingPrice: 300},
		},
	}
	f.svc = NewReturnService(f.gw, f.repo, f.cache, f.note, zap.New(core))
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func draft() domain.ReturnRequestInput {
	return domain.ReturnRequestInput{
		OrderID: "1100-01",
		Items: []domain.ItemInput{
			{OrderItemIndex: 0, Quantity: 1, Condition: "unopened", Reason: domain.ReturnReason{Reason: "damaged"}},
			{OrderItemIndex: 1, Quantity: 0},
		},
		Customer:      domain.ContactDetails{Name: "Ana", Email: "ana@example.com", Phone: "123"},
		Pickup:        domain.PickupAddress{Address: "Rua A 1", City: "SP", Zip: "01000", Country: "BRA"},
		Refund:        domain.RefundPayment{Method: domain.RefundCard},
		TermsAccepted: true,
	}
}

func TestSubmitSendsOnlySelectedItems(t *testing.T) {
	f := newFixture()
	f.gw.createID = "rr-1"

	id, err := f.svc.Submit(context.Background(), draft())
	require.NoError(t, err)
	assert.Equal(t, "rr-1", id)

	require.Len(t, f.gw.created, 1)
	assert.Len(t, f.gw.created[0].Items, 1)

	stored, err := f.repo.GetByID(context.Background(), "rr-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.Equal(t, fixedNow, stored.DateSubmitted)
	assert.Equal(t, "BRL", stored.CurrencyCode)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Shoe", stored.Items[0].Name)
	assert.Equal(t, 1100, stored.Items[0].LineTotal(), "unreadable remote record is rebuilt from the order summary")

	_, cached := f.cache.Get(context.Background(), "rr-1")
	assert.True(t, cached)

	require.Len(t, f.note.sent, 1)
	assert.Equal(t, domain.NotificationCreated, f.note.sent[0].Kind)
	assert.Equal(t, "ana@example.com", f.note.sent[0].CustomerEmail)
}

func TestSubmitPrefersRemoteRecord(t *testing.T) {
	f := newFixture()
	f.gw.createID = "rr-2"
	f.gw.requests["rr-2"] = domain.ReturnRequest{ID: "rr-2", OrderID: "1100-01", CurrencyCode: "BRL",
		Customer: domain.ContactDetails{Email: "ana@example.com"}}

	_, err := f.svc.Submit(context.Background(), draft())
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), "rr-2")
	require.NoError(t, err)
	assert.Equal(t, "BRL", stored.CurrencyCode)
}

func TestSubmitWithoutOrderSummaryRecordsNothingLocally(t *testing.T) {
	f := newFixture()
	f.gw.createID = "rr-8"
	delete(f.gw.orders, "1100-01")

	id, err := f.svc.Submit(context.Background(), draft())
	require.NoError(t, err)
	assert.Equal(t, "rr-8", id)

	assert.Equal(t, 0, f.repo.upserts)
	assert.Equal(t, 0, f.cache.Len(context.Background()))
	assert.Equal(t, 1, f.logs.FilterMessage("order summary unavailable, return request not recorded locally").Len())
	require.Len(t, f.note.sent, 1, "the shopper is still told about the request")
}

func TestGetByIDRefreshesIncompleteLedgerRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.rows["rr-10"] = domain.ReturnRequest{ID: "rr-10", Items: []domain.ReturnItem{{OrderItemIndex: 0, Quantity: 1}}}

	rr, err := f.svc.GetByID(ctx, "rr-10")
	require.NoError(t, err)
	assert.Equal(t, 0, rr.Total(), "remote unavailable: ledger row is served as is")

	f.cache.Delete(ctx, "rr-10")
	f.gw.requests["rr-10"] = domain.ReturnRequest{ID: "rr-10", CurrencyCode: "BRL",
		Items: []domain.ReturnItem{{OrderItemIndex: 0, Name: "Shoe", Quantity: 1, SellingPrice: 1000, Tax: 100}}}

	rr, err = f.svc.GetByID(ctx, "rr-10")
	require.NoError(t, err)
	assert.Equal(t, 1100, rr.Total())
	stored, _ := f.repo.GetByID(ctx, "rr-10")
	assert.True(t, stored.Complete())
}

func TestCustomerRequestChecksOwnership(t *testing.T) {
	f := newFixture()
	f.gw.createID = "rr-1"
	ana := domain.WithCustomerToken(context.Background(), "token-ana")

	_, err := f.svc.Submit(ana, draft())
	require.NoError(t, err)
	f.gw.requests["rr-1"] = domain.ReturnRequest{ID: "rr-1", Customer: domain.ContactDetails{Email: "ana@example.com"}}
	_, cached := f.cache.Get(context.Background(), "rr-1")
	require.True(t, cached)

	rr, err := f.svc.CustomerRequest(ana, "rr-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", rr.Customer.Email)

	mallory := domain.WithCustomerToken(context.Background(), "token-mallory")
	rr, err = f.svc.CustomerRequest(mallory, "rr-1")
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, rr.Customer.Email)
	assert.Equal(t, errcode.Forbidden, errcode.FromError(err))

	_, err = f.svc.Timeline(mallory, "rr-1", true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	rr, err = f.svc.CustomerRequest(context.Background(), "rr-1")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, rr.Customer.Email)

	_, err = f.svc.CustomerRequest(ana, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitFailureCommitsNothing(t *testing.T) {
	f := newFixture()
	f.gw.createErr = &domain.GatewayError{
		Op: "createReturnRequest",
		Errors: []domain.GraphQLError{{
			Message:    "too late",
			Extensions: &domain.GraphQLErrorExtensions{Exception: &domain.GraphQLException{Code: "OUT_OF_MAX_DAYS"}},
		}},
	}

	id, err := f.svc.Submit(context.Background(), draft())
	require.Error(t, err)
	assert.Empty(t, id)

	var ge *domain.GatewayError
	assert.True(t, errors.As(err, &ge))

	assert.Equal(t, 0, f.repo.upserts)
	assert.Equal(t, 0, f.cache.Len(context.Background()))
	assert.Empty(t, f.note.sent)

	entries := f.logs.FilterMessage("create return request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "OUT_OF_MAX_DAYS", entries[0].ContextMap()["code"])
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	f := newFixture()
	d := draft()
	d.TermsAccepted = false

	_, err := f.svc.Submit(context.Background(), d)
	require.ErrorIs(t, err, domain.ErrInvalidDraft)
	assert.Empty(t, f.gw.created)
}

func TestSubmitRejectsConcurrentDoubleSubmit(t *testing.T) {
	f := newFixture()
	f.gw.createID = "rr-3"

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.gw.createHook = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	errc := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background(), draft())
		errc <- err
	}()
	<-entered

	_, err := f.svc.Submit(context.Background(), draft())
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-errc)

	_, err = f.svc.Submit(context.Background(), draft())
	assert.NoError(t, err, "a finished submission frees the order")
}

func TestSubmitSurvivesLedgerAndNotifierFailures(t *testing.T) {
	f := newFixture()
	f.gw.createID = "rr-4"
	f.repo.upsertFn = func() error { return errors.New("db down") }
	f.note.err = errors.New("broker down")

	id, err := f.svc.Submit(context.Background(), draft())
	require.NoError(t, err)
	assert.Equal(t, "rr-4", id)
	assert.Equal(t, 1, f.logs.FilterMessage("ledger upsert failed").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("notification not queued").Len())
}

func TestGetByIDReadsThrough(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.gw.requests["rr-9"] = domain.ReturnRequest{ID: "rr-9", Status: domain.StatusApproved}

	rr, err := f.svc.GetByID(ctx, "rr-9")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, rr.Status)
	assert.Equal(t, 1, f.repo.upserts, "remote hit is backfilled into the ledger")

	_, ok := f.cache.Get(ctx, "rr-9")
	assert.True(t, ok)

	_, err = f.svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.GetByID(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTimelineFiltersHiddenCommentsForCustomers(t *testing.T) {
	f := newFixture()
	ctx := domain.WithCustomerToken(context.Background(), "token-ana")
	f.gw.requests["rr-5"] = domain.ReturnRequest{
		ID:     "rr-5",
		Status: domain.StatusPendingVerification,
		Comments: []domain.Comment{
			{Status: domain.StatusPendingVerification, Text: "visible", VisibleForCustomer: true},
			{Status: domain.StatusPendingVerification, Text: "internal"},
		},
	}

	steps, err := f.svc.Timeline(ctx, "rr-5", true)
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, timeline.KindPicked, steps[1].Kind)
	require.Len(t, steps[1].Comments, 1)
	assert.Equal(t, "visible", steps[1].Comments[0].Text)

	steps, err = f.svc.Timeline(ctx, "rr-5", false)
	require.NoError(t, err)
	assert.Len(t, steps[1].Comments, 2)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rr := domain.ReturnRequest{ID: "rr-6", Customer: domain.ContactDetails{Email: "ana@example.com"}}
	f.repo.rows["rr-6"] = rr
	f.cache.Set(ctx, rr)

	err := f.svc.UpdateStatus(ctx, "rr-6", domain.StatusApproved,
		domain.Comment{Text: "all good", VisibleForCustomer: true, SubmittedBy: "admin"})
	require.NoError(t, err)

	require.Len(t, f.gw.updates, 1)
	assert.Equal(t, domain.StatusApproved, f.gw.updates[0].Status)
	assert.Equal(t, fixedNow, f.gw.updates[0].CreatedAt)

	_, cached := f.cache.Get(ctx, "rr-6")
	assert.False(t, cached, "cache entry is invalidated")

	stored, _ := f.repo.GetByID(ctx, "rr-6")
	assert.Equal(t, domain.StatusApproved, stored.Status)
	require.Len(t, stored.Comments, 1)

	require.Len(t, f.note.sent, 1)
	assert.Equal(t, domain.NotificationStatusChanged, f.note.sent[0].Kind)
	assert.Equal(t, "all good", f.note.sent[0].Comment)
}

func TestUpdateStatusRemoteFailureKeepsLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.rows["rr-7"] = domain.ReturnRequest{ID: "rr-7"}
	f.gw.updateErr = errors.New("forbidden")

	err := f.svc.UpdateStatus(ctx, "rr-7", domain.StatusDenied, domain.Comment{Text: "no"})
	require.Error(t, err)
	stored, _ := f.repo.GetByID(ctx, "rr-7")
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.Empty(t, stored.Comments)

	assert.ErrorIs(t, f.svc.UpdateStatus(ctx, "rr-7", domain.Status(77), domain.Comment{}), domain.ErrUnknownStatus)
}

func TestListPage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, f.repo.Upsert(ctx, domain.ReturnRequest{ID: id}))
	}

	list, total, err := f.svc.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	list, _, err = f.svc.ListPage(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestOrderToReturnKeepsGatewayError(t *testing.T) {
	f := newFixture()
	_, err := f.svc.OrderToReturn(context.Background(), "nope")
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "E_HTTP_404", ge.Errors[0].ExceptionCode())
}
