package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() ReturnRequestInput {
	return ReturnRequestInput{
		OrderID: "1100-01",
		Items: []ItemInput{
			{OrderItemIndex: 0, Quantity: 1, Condition: "unopened", Reason: ReturnReason{Reason: "damaged"}},
			{OrderItemIndex: 1, Quantity: 0},
		},
		Customer:      ContactDetails{Name: "Ana Lima", Email: "ana@example.com", Phone: "+55 11 5555"},
		Pickup:        PickupAddress{Address: "Rua A 1", City: "Sao Paulo", State: "SP", Zip: "01000", Country: "BRA"},
		Refund:        RefundPayment{Method: RefundCard},
		TermsAccepted: true,
	}
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	require.NoError(t, validDraft().Validate())
}

func TestValidateReportsEveryBadField(t *testing.T) {
	d := validDraft()
	d.Items[0].Condition = ""
	d.Items[0].Reason = ReturnReason{Reason: OtherReasonKey}
	d.Customer.Email = "nope"
	d.Refund = RefundPayment{Method: RefundBank}
	d.TermsAccepted = false

	err := d.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDraft))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	for _, f := range []string{
		"items[0].condition",
		"items[0].returnReason.otherReason",
		"customerProfileData.email",
		"refundPaymentData.iban",
		"refundPaymentData.accountHolderName",
		"termsAccepted",
	} {
		assert.True(t, ve.Has(f), f)
	}
	assert.False(t, ve.Has("pickupReturnData.city"))
}

func TestValidateRequiresAnItem(t *testing.T) {
	d := validDraft()
	d.Items[0].Quantity = 0

	var ve *ValidationError
	require.ErrorAs(t, d.Validate(), &ve)
	assert.Equal(t, []string{"items"}, ve.Fields)
}

func TestValidatedDropsUnselectedItems(t *testing.T) {
	out, err := validDraft().Validated()
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 0, out.Items[0].OrderItemIndex)
}

func TestToReturnRequestResolvesItems(t *testing.T) {
	order := OrderSummary{
		OrderID:      "1100-01",
		CurrencyCode: "BRL",
		InvoicedItems: []InvoicedItem{
			{OrderItemIndex: 0, Name: "Shoe", ImageURL: "shoe.png", Quantity: 2, SellingPrice: 1000, Tax: 100},
		},
	}
	at := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

	rr := validDraft().ToReturnRequest("rr-1", order, at)
	assert.Equal(t, "rr-1", rr.ID)
	assert.Equal(t, StatusNew, rr.Status)
	assert.Equal(t, "BRL", rr.CurrencyCode)
	require.Len(t, rr.Items, 1)
	assert.Equal(t, "Shoe", rr.Items[0].Name)
	assert.Equal(t, 1100, rr.Items[0].LineTotal())
	assert.Equal(t, 1100, rr.Total())
}

func TestAvailableQuantity(t *testing.T) {
	o := OrderSummary{
		InvoicedItems:  []InvoicedItem{{OrderItemIndex: 0, Quantity: 3}},
		ProcessedItems: []ProcessedItem{{ItemIndex: 0, Quantity: 1}, {ItemIndex: 0, Quantity: 5}},
	}
	assert.Equal(t, 0, o.AvailableQuantity(0))
	o.ProcessedItems = o.ProcessedItems[:1]
	assert.Equal(t, 2, o.AvailableQuantity(0))
	assert.Equal(t, 0, o.AvailableQuantity(7))
}

func TestReturnRequestComplete(t *testing.T) {
	rr := ReturnRequest{Items: []ReturnItem{{Name: "Mug", Quantity: 1, SellingPrice: 1000}}}
	assert.True(t, rr.Complete())

	rr.Items = append(rr.Items, ReturnItem{OrderItemIndex: 3, Quantity: 1})
	assert.False(t, rr.Complete())
}
