package domain

import (
	"errors"
	"time"
)

type NotificationKind string

const (
	NotificationCreated       NotificationKind = "created"
	NotificationStatusChanged NotificationKind = "status_changed"
)

// Notification is queued for the customer mail whenever a return request is
// created or changes status.
type Notification struct {
	Kind          NotificationKind `json:"kind"`
	RequestID     string           `json:"requestId"`
	OrderID       string           `json:"orderId"`
	Status        Status           `json:"status"`
	CustomerName  string           `json:"name"`
	CustomerEmail string           `json:"email"`
	Comment       string           `json:"comment,omitempty"`
	At            time.Time        `json:"at"`
}

func (n Notification) Validate() error {
	switch n.Kind {
	case NotificationCreated, NotificationStatusChanged:
	default:
		return errors.New("kind is invalid")
	}
	if n.RequestID == "" {
		return errors.New("requestId is required")
	}
	if n.CustomerEmail == "" {
		return errors.New("email is required")
	}
	return nil
}

// NewNotification derives the mail payload from a request's current state.
func NewNotification(kind NotificationKind, rr ReturnRequest, comment string, at time.Time) Notification {
	return Notification{
		Kind:          kind,
		RequestID:     rr.ID,
		OrderID:       rr.OrderID,
		Status:        rr.Status,
		CustomerName:  rr.Customer.Name,
		CustomerEmail: rr.Customer.Email,
		Comment:       comment,
		At:            at,
	}
}
