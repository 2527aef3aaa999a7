// Package pagination keeps the pages of "orders available to return" a
// shopper has already browsed and decides, for every navigation, whether the
// page must be fetched or can be shown from memory.
//
// The controller functions are pure: they take a State and return the next
// State plus a decision. Session owns a State and performs the fetches.
package pagination

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"return_app/internal/core/domain"
)

var (
	ErrInvalidPage = errors.New("page must be >= 1")
	// ErrNoResult is returned when a fetch answered without a usable page.
	ErrNoResult = errors.New("fetch returned no page")
)

// Direction is the way a navigation moves through the list.
type Direction uint8

const (
	// Mount is the initial page-1 load.
	Mount Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Mount:
		return "mount"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts "+", "next", "forward" and "-", "prev", "backward".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "next", "forward":
		return Forward, nil
	case "-", "prev", "previous", "backward":
		return Backward, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Fetch asks the caller to load one page. RequestID orders fetches issued on
// the same State.
type Fetch struct {
	RequestID uint64
	Page      int
	Direction Direction
}

// Decision is the controller's answer to a navigation. Fetch is nil when the
// page was already stored and the pointer moved.
type Decision struct {
	Fetch *Fetch
}

// Outcome reports what Apply did with a response.
type Outcome uint8

const (
	OutcomeAppended Outcome = iota
	// OutcomeDuplicate: the page was already stored; only the pointer moved.
	OutcomeDuplicate
	// OutcomeStale: a newer fetch in the same direction was issued; the
	// response was dropped.
	OutcomeStale
	// OutcomeRejected: the response carried no page number; nothing changed.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeStale:
		return "stale"
	case OutcomeRejected:
		return "rejected"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// State is the page store plus the current page pointer. The zero value is
// the freshly mounted, empty state.
type State struct {
	// Pages holds results in arrival order. Never shrinks.
	Pages []domain.PageResult
	// Current is the page number being displayed, 0 while nothing is loaded.
	Current int

	seq    uint64
	latest [3]uint64
}

// Initial issues the page-1 request of a freshly mounted list.
func Initial(s State) (State, Fetch) {
	return s.issue(1, Mount)
}

// Navigate decides how to reach page.
//
// If a stored result reports page as its current page the pointer moves by
// one in dir and no fetch is needed. Otherwise a Fetch is returned and the
// state is only changed by recording the issued request id.
func Navigate(s State, page int, dir Direction) (State, Decision, error) {
	if page < 1 {
		return s, Decision{}, ErrInvalidPage
	}
	if dir != Forward && dir != Backward {
		return s, Decision{}, fmt.Errorf("navigate: %s is not a navigation direction", dir)
	}

	if s.has(page) {
		next := s.Current + 1
		if dir == Backward {
			next = s.Current - 1
		}
		// A one-step move only lands on page when it is adjacent; otherwise
		// go straight to it so the pointer keeps addressing a stored page.
		if !s.has(next) {
			next = page
		}
		s.Current = next
		return s, Decision{}, nil
	}

	s, f := s.issue(page, dir)
	return s, Decision{Fetch: &f}, nil
}

// Apply merges a successful response for f.
//
// The pointer is set to the page the server reports, which may differ from
// f.Page. Responses overtaken by a newer fetch in the same direction are
// dropped, and a page already in the store is not stored twice. A response
// without a page number (an empty result) leaves the state untouched.
func Apply(s State, f Fetch, res domain.PageResult) (State, Outcome) {
	if int(f.Direction) >= len(s.latest) || s.latest[f.Direction] != f.RequestID {
		return s, OutcomeStale
	}

	page := res.Paging.CurrentPage
	if page < 1 {
		return s, OutcomeRejected
	}
	if s.has(page) {
		s.Current = page
		return s, OutcomeDuplicate
	}

	s.Pages = append(slices.Clip(s.Pages), res)
	s.Current = page
	return s, OutcomeAppended
}

// Page returns the stored result the pointer addresses.
func (s State) Page() (domain.PageResult, bool) {
	for _, p := range s.Pages {
		if p.Paging.CurrentPage == s.Current {
			return p, true
		}
	}
	return domain.PageResult{}, false
}

// Loaded reports whether at least one page has been stored.
func (s State) Loaded() bool { return len(s.Pages) > 0 }

func (s State) has(page int) bool {
	for _, p := range s.Pages {
		if p.Paging.CurrentPage == page {
			return true
		}
	}
	return false
}

func (s State) issue(page int, dir Direction) (State, Fetch) {
	s.seq++
	s.latest[dir] = s.seq
	return s, Fetch{RequestID: s.seq, Page: page, Direction: dir}
}
