package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a return request or of one of its items.
type Status uint8

const (
	StatusNew Status = iota
	StatusPendingVerification
	StatusPartiallyApproved
	StatusApproved
	StatusDenied
	StatusRefunded
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusNew,
	StatusPendingVerification,
	StatusPartiallyApproved,
	StatusApproved,
	StatusDenied,
	StatusRefunded,
}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusPendingVerification:
		return "Pending verification"
	case StatusPartiallyApproved:
		return "Partially approved"
	case StatusApproved:
		return "Approved"
	case StatusDenied:
		return "Denied"
	case StatusRefunded:
		return "Refunded"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Stage places the status on the total order
// New < Pending verification < {Partially approved, Approved, Denied} < Refunded.
func (s Status) Stage() int {
	switch s {
	case StatusNew:
		return 0
	case StatusPendingVerification:
		return 1
	case StatusPartiallyApproved, StatusApproved, StatusDenied:
		return 2
	case StatusRefunded:
		return 3
	}
	panic(fmt.Sprintf("domain: stage of %s", s))
}

func (s Status) Valid() bool { return s <= StatusRefunded }

// TranslationKey is the message key suffix, e.g. "PendingVerification".
func (s Status) TranslationKey() string {
	words := strings.Fields(s.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "")
}

// ParseStatus accepts the display form ("Pending verification") or the
// translation key form ("PendingVerification"), case-insensitively.
func ParseStatus(v string) (Status, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
	for _, s := range Statuses {
		if strings.ToLower(s.TranslationKey()) == norm {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, v)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
