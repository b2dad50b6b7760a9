package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DocType identifies a numbered document family.
type DocType string

const (
	DocTypeBill      DocType = "BILL"
	DocTypeQuotation DocType = "QUOTATION"
)

// NumberScheme describes how numbers of one document family are rendered.
// Width is a formatting minimum, not a cap: numbers that outgrow it keep all digits.
type NumberScheme struct {
	Prefix string
	Width  int
	Seed   string
}

var (
	BillScheme      = NumberScheme{Prefix: "HG", Width: 4, Seed: "HG0100"}
	QuotationScheme = NumberScheme{Prefix: "QN-", Width: 4, Seed: "QN-0001"}
)

// SchemeFor returns the numbering scheme of a document family.
func SchemeFor(t DocType) (NumberScheme, error) {
	switch t {
	case DocTypeBill:
		return BillScheme, nil
	case DocTypeQuotation:
		return QuotationScheme, nil
	default:
		return NumberScheme{}, fmt.Errorf("unknown document type %q", t)
	}
}

// NextNumber derives the number that follows last.
//
// An empty last, or one that does not start with the scheme prefix, yields the seed.
// A prefixed value whose remainder is not a base-10 integer is an error: issuing the
// seed there could collide with numbers already in use.
func NextNumber(last string, scheme NumberScheme) (string, error) {
	last = strings.TrimSpace(last)
	if last == "" || !strings.HasPrefix(last, scheme.Prefix) {
		return scheme.Seed, nil
	}

	digits := strings.TrimPrefix(last, scheme.Prefix)
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n == math.MaxUint64 {
		return "", fmt.Errorf("%w: %q", ErrMalformedNumber, last)
	}
	return fmt.Sprintf("%s%0*d", scheme.Prefix, scheme.Width, n+1), nil
}
