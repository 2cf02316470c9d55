package extraction

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Result is the structured data extracted from one invoice image.
type Result struct {
	ShopInfo       ShopInfo       `json:"shop_info"`
	InvoiceDetails InvoiceDetails `json:"invoice_details"`
	LineItems      []LineItem     `json:"line_items"`
}

// ShopInfo identifies the business that issued the invoice.
type ShopInfo struct {
	ShopName           *string  `json:"shop_name"`
	ShopAddress        *string  `json:"shop_address"`
	ShopContactNumbers []string `json:"shop_contact_numbers"`
	ShopEmail          *string  `json:"shop_email"`
}

// InvoiceDetails holds the invoice-level identifiers and totals.
type InvoiceDetails struct {
	ReceiptNumber        *string `json:"receipt_number"`
	InvoiceNumber        *string `json:"invoice_number"`
	InvoiceDate          *string `json:"invoice_date"`
	InvoiceSubtotal      Amount  `json:"invoice_subtotal"`
	InvoiceTotal         Amount  `json:"invoice_total"`
	InvoiceTotalDiscount Amount  `json:"invoice_total_discount"`
	ItemCount            Count   `json:"item_count"`
}

// LineItem is one row of the invoice, in the order it appears on the page.
type LineItem struct {
	ItemCode        *string `json:"item_code"`
	ItemName        *string `json:"item_name"`
	Quantity        Amount  `json:"quantity"`
	UnitPrice       Amount  `json:"unit_price"`
	Discount        Amount  `json:"discount"`
	Tax             Amount  `json:"tax"`
	ItemTotalAmount Amount  `json:"item_total_amount"`
}

// Amount is a monetary or quantity value from the model. The prompt asks for
// plain numbers, but models still emit strings ("$42.50"), nulls, or worse.
// Decoding is lenient: anything that cannot be read as a number becomes 0
// rather than failing the whole document.
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings (with optional currency
// noise), and null. Unreadable values decode to 0.
func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = 0

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(strings.TrimLeft(s, "$€£ "))
		s = strings.ReplaceAll(s, ",", "")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*a = Amount(f)
		}
	}

	return nil
}

// MarshalJSON writes the value back out as a plain JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}

// Count is an integer field with the same lenient decoding as Amount.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(b); err != nil {
		return err
	}
	*c = Count(a)
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(c))
}

// TotalTax sums the tax across all line items. It is a display value only
// and is never written back into a stored result.
func (r *Result) TotalTax() float64 {
	var total float64
	for _, item := range r.LineItems {
		total += float64(item.Tax)
	}
	return total
}
