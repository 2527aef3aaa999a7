package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"return_app/internal/core/domain"
)

// Fetcher loads one page of orders available to return.
type Fetcher interface {
	OrdersAvailableToReturn(ctx context.Context, page int) (domain.PageResult, error)
}

// View is what a page renderer needs from a session.
type View struct {
	Page       domain.PageResult
	Current    int
	TotalPages int
	Stored     int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Loaded     bool
}

// Session is one shopper's browse of the order list. Transitions are
// serialized; fetches run outside the lock so a slow page does not block
// other navigations.
type Session struct {
	mu       sync.Mutex
	state    State
	fetcher  Fetcher
	lastSeen time.Time
}

func NewSession(f Fetcher) *Session {
	return &Session{fetcher: f}
}

// Load issues the initial page-1 fetch.
func (s *Session) Load(ctx context.Context) (View, error) {
	s.mu.Lock()
	next, f := Initial(s.state)
	s.state = next
	s.mu.Unlock()

	return s.run(ctx, f)
}

// Navigate moves to page, fetching it when it is not stored yet. On a fetch
// error the state is left as it was and the error is returned with the
// current view.
func (s *Session) Navigate(ctx context.Context, page int, dir Direction) (View, error) {
	s.mu.Lock()
	next, d, err := Navigate(s.state, page, dir)
	if err != nil {
		v := s.state.view()
		s.mu.Unlock()
		return v, err
	}
	s.state = next
	if d.Fetch == nil {
		v := s.state.view()
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	return s.run(ctx, *d.Fetch)
}

// View returns the current view without any network access.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.view()
}

// State returns a copy of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) run(ctx context.Context, f Fetch) (View, error) {
	res, err := s.fetcher.OrdersAvailableToReturn(ctx, f.Page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.state.view(), fmt.Errorf("fetch page %d: %w", f.Page, err)
	}
	next, out := Apply(s.state, f, res)
	if out == OutcomeRejected {
		return s.state.view(), fmt.Errorf("fetch page %d: %w", f.Page, ErrNoResult)
	}
	s.state = next
	return s.state.view(), nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s State) view() View {
	v := View{Current: s.Current, Stored: len(s.Pages), Loaded: s.Loaded()}
	page, ok := s.Page()
	if !ok {
		return v
	}
	v.Page = page
	v.TotalPages = page.Paging.TotalPages
	v.HasPrev = s.Current > 1
	v.HasNext = s.Current < page.Paging.TotalPages
	v.PrevPage = s.Current - 1
	v.NextPage = s.Current + 1
	return v
}
