package domain

import (
	"fmt"
	"strings"
	"time"
)

const OtherReasonKey = "otherReason"

type ItemInput struct {
	OrderItemIndex int          `json:"orderItemIndex"`
	Quantity       int          `json:"quantity"`
	Condition      string       `json:"condition,omitempty"`
	Reason         ReturnReason `json:"returnReason"`
}

// ReturnRequestInput is the draft a customer builds before submitting.
type ReturnRequestInput struct {
	OrderID       string         `json:"orderId" binding:"required"`
	Items         []ItemInput    `json:"items"`
	Customer      ContactDetails `json:"customerProfileData"`
	Pickup        PickupAddress  `json:"pickupReturnData"`
	Refund        RefundPayment  `json:"refundPaymentData"`
	UserComment   string         `json:"userComment,omitempty"`
	TermsAccepted bool           `json:"termsAccepted"`
}

// Selected keeps the items with a positive quantity.
func (in ReturnRequestInput) Selected() []ItemInput {
	out := make([]ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

// Validate checks every field a submission needs and returns a
// *ValidationError naming the offending ones.
func (in ReturnRequestInput) Validate() error {
	var bad []string
	add := func(f string) { bad = append(bad, f) }

	if strings.TrimSpace(in.OrderID) == "" {
		add("orderId")
	}

	selected := in.Selected()
	if len(selected) == 0 {
		add("items")
	}
	for _, it := range selected {
		prefix := fmt.Sprintf("items[%d]", it.OrderItemIndex)
		if it.OrderItemIndex < 0 {
			add(prefix + ".orderItemIndex")
		}
		if strings.TrimSpace(it.Condition) == "" {
			add(prefix + ".condition")
		}
		switch {
		case strings.TrimSpace(it.Reason.Reason) == "":
			add(prefix + ".returnReason")
		case it.Reason.Reason == OtherReasonKey && strings.TrimSpace(it.Reason.OtherReason) == "":
			add(prefix + ".returnReason.otherReason")
		}
	}

	if strings.TrimSpace(in.Customer.Name) == "" {
		add("customerProfileData.name")
	}
	if !strings.Contains(in.Customer.Email, "@") {
		add("customerProfileData.email")
	}
	if strings.TrimSpace(in.Customer.Phone) == "" {
		add("customerProfileData.phoneNumber")
	}

	p := in.Pickup
	if strings.TrimSpace(p.Address) == "" {
		add("pickupReturnData.address")
	}
	if strings.TrimSpace(p.City) == "" {
		add("pickupReturnData.city")
	}
	if strings.TrimSpace(p.Zip) == "" {
		add("pickupReturnData.zipCode")
	}
	if strings.TrimSpace(p.Country) == "" {
		add("pickupReturnData.country")
	}

	if !in.Refund.Method.Valid() {
		add("refundPaymentData.refundPaymentMethod")
	} else if in.Refund.Method == RefundBank {
		if strings.TrimSpace(in.Refund.IBAN) == "" {
			add("refundPaymentData.iban")
		}
		if strings.TrimSpace(in.Refund.AccountHolder) == "" {
			add("refundPaymentData.accountHolderName")
		}
	}

	if !in.TermsAccepted {
		add("termsAccepted")
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// Validated returns the draft trimmed to the selected items, ready to be sent.
func (in ReturnRequestInput) Validated() (ReturnRequestInput, error) {
	if err := in.Validate(); err != nil {
		return ReturnRequestInput{}, err
	}
	out := in
	out.Items = in.Selected()
	return out, nil
}

// ToReturnRequest builds the local record of a request the remote API accepted.
// Item details are resolved from order; unknown indexes keep only the draft data.
func (in ReturnRequestInput) ToReturnRequest(id string, order OrderSummary, at time.Time) ReturnRequest {
	rr := ReturnRequest{
		ID:            id,
		OrderID:       in.OrderID,
		Status:        StatusNew,
		DateSubmitted: at,
		CurrencyCode:  order.CurrencyCode,
		Customer:      in.Customer,
		Pickup:        in.Pickup,
		Refund:        in.Refund,
		UserComment:   in.UserComment,
	}
	for _, it := range in.Selected() {
		ri := ReturnItem{
			OrderItemIndex: it.OrderItemIndex,
			Quantity:       it.Quantity,
			Condition:      it.Condition,
			Reason:         it.Reason,
			Status:         StatusNew,
		}
		if src, ok := order.Item(it.OrderItemIndex); ok {
			ri.Name = src.Name
			ri.ImageURL = src.ImageURL
			ri.RefID = src.RefID
			ri.SellerName = src.SellerName
			ri.SellingPrice = src.SellingPrice
			ri.Tax = src.Tax
		}
		rr.Items = append(rr.Items, ri)
	}
	return rr
}
