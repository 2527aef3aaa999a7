// Package timeline turns a return request's status and comments into the
// four-step progress display shown to shoppers and admins.
package timeline

import (
	"fmt"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/core/format"
)

// Kind identifies one of the fixed timeline steps.
type Kind uint8

const (
	KindNew Kind = iota
	KindPicked
	KindVerified
	KindRefunded
)

var kinds = [...]Kind{KindNew, KindPicked, KindVerified, KindRefunded}

func (k Kind) String() string {
	switch k {
	case KindNew:
		return "new"
	case KindPicked:
		return "picked"
	case KindVerified:
		return "verified"
	case KindRefunded:
		return "refunded"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MessageID is the i18n key suffix of the step caption.
func (k Kind) MessageID() string {
	switch k {
	case KindNew:
		return "timelineNew"
	case KindPicked:
		return "timelinePicked"
	case KindVerified:
		return "timelineVerified"
	case KindRefunded:
		return "timelineRefunded"
	}
	return ""
}

func (k Kind) caption() string {
	switch k {
	case KindNew:
		return "Return request submitted on"
	case KindPicked:
		return "Picked up from client"
	case KindVerified:
		return "Package verified"
	case KindRefunded:
		return "Amount refunded"
	}
	return ""
}

// Step is one entry of the timeline. Active is 1 once the request reached the
// step and 0 otherwise.
type Step struct {
	Kind      Kind
	Message   string
	MessageID string
	Position  int
	Comments  []domain.Comment
	Active    int
}

// Build maps status and comments onto the four steps. A comment belongs to
// the step its own status stage falls on. It never mutates its inputs.
func Build(status domain.Status, comments []domain.Comment, submitted time.Time) []Step {
	reached := status.Stage()

	steps := make([]Step, 0, len(kinds))
	for i, k := range kinds {
		st := Step{
			Kind:      k,
			Message:   k.caption(),
			MessageID: k.MessageID(),
			Position:  i + 1,
			Comments:  []domain.Comment{},
		}
		if k == KindNew && !submitted.IsZero() {
			st.Message += " " + format.ReturnFormDate(submitted)
		}
		for _, c := range comments {
			if c.Status.Stage() == i {
				st.Comments = append(st.Comments, c)
			}
		}
		if i <= reached {
			st.Active = 1
		}
		steps = append(steps, st)
	}
	return steps
}
