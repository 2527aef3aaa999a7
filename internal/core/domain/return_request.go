package domain

import "time"

type ReturnReason struct {
	Reason      string `json:"reason"`
	OtherReason string `json:"otherReason,omitempty"`
}

// Text is the reason shown to people: the free text when given, otherwise the
// reason key.
func (r ReturnReason) Text() string {
	if r.OtherReason != "" {
		return r.OtherReason
	}
	return r.Reason
}

type ContactDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phoneNumber"`
}

type PickupAddress struct {
	AddressID string `json:"addressId,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zipCode"`
	Country   string `json:"country"`
}

type RefundMethod string

const (
	RefundBank           RefundMethod = "bank"
	RefundCard           RefundMethod = "card"
	RefundGiftCard       RefundMethod = "giftCard"
	RefundSameAsPurchase RefundMethod = "sameAsPurchase"
)

func (m RefundMethod) Valid() bool {
	switch m {
	case RefundBank, RefundCard, RefundGiftCard, RefundSameAsPurchase:
		return true
	}
	return false
}

type RefundPayment struct {
	Method        RefundMethod `json:"refundPaymentMethod"`
	IBAN          string       `json:"iban,omitempty"`
	AccountHolder string       `json:"accountHolderName,omitempty"`
}

// ReturnItem is one line of a submitted return request.
type ReturnItem struct {
	OrderItemIndex int          `json:"orderItemIndex"`
	Name           string       `json:"name"`
	ImageURL       string       `json:"imageUrl"`
	RefID          string       `json:"refId,omitempty"`
	SellerName     string       `json:"sellerName,omitempty"`
	Quantity       int          `json:"quantity"`
	SellingPrice   int          `json:"sellingPrice"`
	Tax            int          `json:"tax"`
	Condition      string       `json:"condition"`
	Reason         ReturnReason `json:"returnReason"`
	Status         Status       `json:"status"`
}

// LineTotal is (sellingPrice + tax) * quantity, in cents.
func (i ReturnItem) LineTotal() int {
	return (i.SellingPrice + i.Tax) * i.Quantity
}

// Comment is a status-change note attached to a return request.
type Comment struct {
	Status             Status    `json:"status"`
	Text               string    `json:"comment"`
	VisibleForCustomer bool      `json:"visibleForCustomer"`
	SubmittedBy        string    `json:"submittedBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ReturnRequest struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"orderId"`
	Status        Status         `json:"status"`
	DateSubmitted time.Time      `json:"dateSubmitted"`
	CurrencyCode  string         `json:"currencyCode"`
	Customer      ContactDetails `json:"customerProfileData"`
	Pickup        PickupAddress  `json:"pickupReturnData"`
	Refund        RefundPayment  `json:"refundPaymentData"`
	UserComment   string         `json:"userComment,omitempty"`
	Items         []ReturnItem   `json:"items"`
	Comments      []Comment      `json:"comments"`
}

// Total sums every line total, in cents.
func (r ReturnRequest) Total() int {
	n := 0
	for _, it := range r.Items {
		n += it.LineTotal()
	}
	return n
}

// Complete reports whether every item carries the catalog data needed for
// totals. Rows recorded without the order summary are not.
func (r ReturnRequest) Complete() bool {
	for _, it := range r.Items {
		if it.Name == "" {
			return false
		}
	}
	return true
}

// CustomerComments keeps only comments the customer is allowed to see.
func (r ReturnRequest) CustomerComments() []Comment {
	out := make([]Comment, 0, len(r.Comments))
	for _, c := range r.Comments {
		if c.VisibleForCustomer {
			out = append(out, c)
		}
	}
	return out
}
