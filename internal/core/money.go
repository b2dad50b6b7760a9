package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// VATRate is the fixed value-added tax applied to the post-discount subtotal.
var VATRate = decimal.RequireFromString("0.13")

var hundred = decimal.NewFromInt(100)

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountAmount  DiscountType = "amount"
	DiscountPercent DiscountType = "percent"
)

// LineItem is one priced entry of a bill, quotation or purchase.
type LineItem struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount returns quantity × rate.
func (l LineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate)
}

// LineItemInput holds the fields required to create a line item.
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	Rate        decimal.Decimal
}

// Totals is derived from items and the stored discount; it is never persisted.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Taxable  decimal.Decimal `json:"taxable"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals sums the items and applies discount and VAT.
func ComputeTotals(items []LineItem, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount())
	}
	return TotalsFrom(subtotal, discount)
}

// TotalsFrom applies discount and VAT to an already summed subtotal.
func TotalsFrom(subtotal, discount decimal.Decimal) Totals {
	taxable := subtotal.Sub(discount)
	vat := taxable.Mul(VATRate)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Taxable:  taxable,
		VAT:      vat,
		Total:    taxable.Add(vat),
	}
}

// Column scales of stored quantities and money. Values finer than these would be
// rounded by Postgres and no longer match the totals checked at write time.
const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 3
)

// FitsScale reports whether d has at most places decimal digits.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// ResolveDiscount turns a discount selection into the amount stored on the document.
// For percentage discounts the percentage is returned as well so it can be shown again.
func ResolveDiscount(kind DiscountType, value, subtotal decimal.Decimal) (decimal.Decimal, *decimal.Decimal, error) {
	if value.IsNegative() {
		return decimal.Zero, nil, fmt.Errorf("%w: discount cannot be negative", ErrInvalidInput)
	}

	var amount decimal.Decimal
	var pct *decimal.Decimal
	switch kind {
	case "", DiscountAmount:
		if !FitsScale(value, MoneyPlaces) {
			return decimal.Zero, nil, fmt.Errorf("%w: discount %s has more than %d decimal places", ErrInvalidInput, value, MoneyPlaces)
		}
		amount = value
	case DiscountPercent:
		if value.GreaterThan(hundred) {
			return decimal.Zero, nil, fmt.Errorf("%w: discount percent %s exceeds 100", ErrInvalidInput, value)
		}
		if !FitsScale(value, MoneyPlaces) {
			return decimal.Zero, nil, fmt.Errorf("%w: discount percent %s has more than %d decimal places", ErrInvalidInput, value, MoneyPlaces)
		}
		// truncated so a 100% discount never exceeds a sub-cent subtotal
		amount = subtotal.Mul(value).Div(hundred).Truncate(MoneyPlaces)
		p := value
		pct = &p
	default:
		return decimal.Zero, nil, fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, kind)
	}

	if amount.GreaterThan(subtotal) {
		return decimal.Zero, nil, fmt.Errorf("%w: discount %s exceeds subtotal %s", ErrInvalidInput, amount.StringFixed(2), subtotal.StringFixed(2))
	}
	return amount, pct, nil
}

// CoerceMoney converts a monetary value read from storage into a decimal.
// Null, empty and unparsable values become zero so that they cannot poison totals.
func CoerceMoney(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case decimal.NullDecimal:
		if !x.Valid {
			return decimal.Zero
		}
		return x.Decimal
	case string:
		return parseMoney(x)
	case *string:
		if x == nil {
			return decimal.Zero
		}
		return parseMoney(*x)
	case []byte:
		return parseMoney(string(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return CoerceMoney(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	default:
		return parseMoney(fmt.Sprint(x))
	}
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
