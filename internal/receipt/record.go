// Package receipt defines the canonical structured output of the
// extraction pipeline and its validation rules.
package receipt

// DefaultCurrency is assumed when the model omits a currency code.
const DefaultCurrency = "USD"

// Record is the canonical validated receipt.
// All scalar fields are optional; Items is always non-nil and keeps
// extraction order.
type Record struct {
	VendorName    string     `json:"vendorName,omitempty"`
	VendorAddress string     `json:"vendorAddress,omitempty"`
	VendorPhone   string     `json:"vendorPhone,omitempty"`
	Date          string     `json:"date,omitempty"`
	Subtotal      *float64   `json:"subtotal,omitempty"`
	Tax           *float64   `json:"tax,omitempty"`
	Tip           *float64   `json:"tip,omitempty"`
	Total         *float64   `json:"total,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	InvoiceNumber string     `json:"invoiceNumber,omitempty"`
	Items         []LineItem `json:"items"`
	Notes         string     `json:"notes,omitempty"`
	OCRText       string     `json:"ocrText,omitempty"`
}

// LineItem is one itemized entry on a receipt.
// Category is a free-text label from the model; mapping onto the fixed
// expense categories is best-effort (see InferCategory).
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	Total       *float64 `json:"total,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Category    string   `json:"category,omitempty"`
}
