package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
)

// DraftItem is one line of an AI-proposed bill. Numbers are strings so the model
// cannot introduce float rounding.
type DraftItem struct {
	Description string `json:"description" jsonschema_description:"What was sold, as it should appear on the bill"`
	Quantity    string `json:"quantity" jsonschema_description:"Quantity sold as a positive decimal string, e.g. '2'"`
	Unit        string `json:"unit" jsonschema_description:"Unit of measure such as 'pcs', 'kg' or 'hrs'; empty if unknown"`
	Rate        string `json:"rate" jsonschema_description:"Price per unit before VAT as a decimal string, e.g. '4000.00'"`
}

// BillDraft is the structured output requested from the model. It is never saved
// directly; the user reviews it and submits it as a normal bill.
type BillDraft struct {
	IsClarificationRequest bool        `json:"is_clarification_request" jsonschema_description:"True ONLY if the text lacks the client or any priced item"`
	ClarificationMessage   string      `json:"clarification_message" jsonschema_description:"Question for the user when is_clarification_request is true; empty otherwise"`
	ClientName             string      `json:"client_name" jsonschema_description:"Name of the customer being billed"`
	ClientAddress          string      `json:"client_address" jsonschema_description:"Customer address; empty if not mentioned"`
	ClientPhone            string      `json:"client_phone" jsonschema_description:"Customer phone; empty if not mentioned"`
	ClientPAN              string      `json:"client_pan" jsonschema_description:"Customer PAN number; empty if not mentioned"`
	BillDate               string      `json:"bill_date" jsonschema_description:"Bill date in YYYY-MM-DD format; use today's date if unspecified"`
	DueDate                string      `json:"due_date" jsonschema_description:"Payment due date in YYYY-MM-DD format; empty if not mentioned"`
	DiscountType           string      `json:"discount_type" jsonschema:"enum=amount,enum=percent" jsonschema_description:"'percent' if the discount is given as a percentage, otherwise 'amount'"`
	DiscountValue          string      `json:"discount_value" jsonschema_description:"Discount as a decimal string; '0' if none"`
	Remarks                string      `json:"remarks" jsonschema_description:"Any note for the bill; empty if none"`
	Items                  []DraftItem `json:"items" jsonschema_description:"Items sold. VAT is added by the system and must not be included as an item."`
	Confidence             float64     `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning              string      `json:"reasoning" jsonschema_description:"Short explanation of how the text was interpreted"`
}

// Normalize cleans up common formatting issues in model output.
func (d *BillDraft) Normalize(today time.Time) {
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.BillDate = strings.TrimSpace(d.BillDate)
	d.DueDate = strings.TrimSpace(d.DueDate)
	if d.BillDate == "" {
		d.BillDate = today.Format(dateLayout)
	}
	if isBlank(d.DueDate) {
		d.DueDate = ""
	}
	d.DiscountType = strings.ToLower(strings.TrimSpace(d.DiscountType))
	if d.DiscountType == "" {
		d.DiscountType = string(core.DiscountAmount)
	}
	if isBlank(d.DiscountValue) {
		d.DiscountValue = "0"
	}
	for i := range d.Items {
		it := &d.Items[i]
		it.Description = strings.TrimSpace(it.Description)
		it.Quantity = stripNumber(it.Quantity)
		it.Rate = stripNumber(it.Rate)
		if isBlank(it.Quantity) {
			it.Quantity = "1"
		}
	}
	d.DiscountValue = stripNumber(d.DiscountValue)
}

const dateLayout = "2006-01-02"

func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

// stripNumber removes thousands separators and a leading currency marker.
func stripNumber(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"Rs.", "Rs", "NPR", "रु"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	return strings.ReplaceAll(s, ",", "")
}

// ToBillInput converts a normalized draft into a bill request. Drafts asking for
// clarification cannot be converted.
func (d *BillDraft) ToBillInput() (core.BillInput, error) {
	var in core.BillInput
	if d.IsClarificationRequest {
		return in, errors.New("draft is a clarification request")
	}
	if d.ClientName == "" {
		return in, errors.New("draft has no client name")
	}
	if len(d.Items) == 0 {
		return in, errors.New("draft has no items")
	}

	billDate, err := time.Parse(dateLayout, d.BillDate)
	if err != nil {
		return in, fmt.Errorf("invalid bill date %q: %w", d.BillDate, err)
	}
	in.BillDate = billDate
	if d.DueDate != "" {
		due, err := time.Parse(dateLayout, d.DueDate)
		if err != nil {
			return in, fmt.Errorf("invalid due date %q: %w", d.DueDate, err)
		}
		in.DueDate = &due
	}

	in.Client = core.Client{Name: d.ClientName, Address: d.ClientAddress, Phone: d.ClientPhone, PAN: d.ClientPAN}
	in.DiscountType = core.DiscountType(d.DiscountType)
	if in.DiscountValue, err = decimal.NewFromString(d.DiscountValue); err != nil {
		return in, fmt.Errorf("invalid discount %q: %w", d.DiscountValue, err)
	}
	in.DiscountValue = in.DiscountValue.Round(core.MoneyPlaces)
	in.Remarks = d.Remarks

	for i, it := range d.Items {
		qty, err := decimal.NewFromString(it.Quantity)
		qty = qty.Round(core.QuantityPlaces)
		if err != nil || !qty.IsPositive() {
			return in, fmt.Errorf("item %d: invalid quantity %q", i+1, it.Quantity)
		}
		rate, err := decimal.NewFromString(it.Rate)
		if err != nil || rate.IsNegative() {
			return in, fmt.Errorf("item %d: invalid rate %q", i+1, it.Rate)
		}
		rate = rate.Round(core.MoneyPlaces)
		in.Items = append(in.Items, core.LineItemInput{
			Description: it.Description,
			Quantity:    qty,
			Unit:        it.Unit,
			Rate:        rate,
		})
	}
	return in, nil
}
