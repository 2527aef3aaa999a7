package domain

import "time"

// InvoicedItem is an order line that was invoiced and can be returned.
type InvoicedItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ImageURL       string `json:"imageUrl"`
	RefID          string `json:"refId,omitempty"`
	SellerName     string `json:"sellerName,omitempty"`
	OrderItemIndex int    `json:"orderItemIndex"`
	Quantity       int    `json:"quantity"`
	SellingPrice   int    `json:"sellingPrice"`
	Tax            int    `json:"tax"`
}

// ProcessedItem counts units of an order line already claimed by earlier
// return requests.
type ProcessedItem struct {
	ItemIndex int `json:"itemIndex"`
	Quantity  int `json:"quantity"`
}

// OrderSummary is one order eligible for return.
type OrderSummary struct {
	OrderID        string          `json:"orderId"`
	CreationDate   time.Time       `json:"creationDate"`
	CurrencyCode   string          `json:"currencyCode,omitempty"`
	InvoicedItems  []InvoicedItem  `json:"invoicedItems"`
	ProcessedItems []ProcessedItem `json:"processedItems"`
}

// AvailableQuantity is how many units of the line at orderItemIndex can still
// be returned.
func (o OrderSummary) AvailableQuantity(orderItemIndex int) int {
	total := 0
	for _, it := range o.InvoicedItems {
		if it.OrderItemIndex == orderItemIndex {
			total += it.Quantity
		}
	}
	for _, p := range o.ProcessedItems {
		if p.ItemIndex == orderItemIndex {
			total -= p.Quantity
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// Item returns the invoiced line at orderItemIndex.
func (o OrderSummary) Item(orderItemIndex int) (InvoicedItem, bool) {
	for _, it := range o.InvoicedItems {
		if it.OrderItemIndex == orderItemIndex {
			return it, true
		}
	}
	return InvoicedItem{}, false
}

// Paging is the page metadata echoed by ordersAvailableToReturn.
type Paging struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"pages"`
	PerPage     int `json:"perPage"`
	Total       int `json:"total"`
}

// PageResult is one server page of orders available to return.
type PageResult struct {
	Items  []OrderSummary `json:"list"`
	Paging Paging         `json:"paging"`
}
