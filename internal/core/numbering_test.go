package core_test

import (
	"errors"
	"testing"

	"arthavidhi/internal/core"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name   string
		last   string
		scheme core.NumberScheme
		want   string
	}{
		{"first bill", "", core.BillScheme, "HG0100"},
		{"first quotation", "", core.QuotationScheme, "QN-0001"},
		{"sequential bill", "HG0100", core.BillScheme, "HG0101"},
		{"sequential quotation", "QN-0041", core.QuotationScheme, "QN-0042"},
		{"width grows past 9999", "HG9999", core.BillScheme, "HG10000"},
		{"wide number keeps digits", "QN-12345", core.QuotationScheme, "QN-12346"},
		{"foreign prefix yields seed", "INV-0007", core.BillScheme, "HG0100"},
		{"surrounding whitespace", "  HG0205 ", core.BillScheme, "HG0206"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.NextNumber(tt.last, tt.scheme)
			if err != nil {
				t.Fatalf("NextNumber(%q): %v", tt.last, err)
			}
			if got != tt.want {
				t.Errorf("NextNumber(%q) = %q, want %q", tt.last, got, tt.want)
			}
		})
	}
}

func TestNextNumber_Malformed(t *testing.T) {
	for _, last := range []string{"HGabc", "HG", "QN-12a", "QN--5"} {
		scheme := core.BillScheme
		if last[0] == 'Q' {
			scheme = core.QuotationScheme
		}
		_, err := core.NextNumber(last, scheme)
		if !errors.Is(err, core.ErrMalformedNumber) {
			t.Errorf("NextNumber(%q): expected ErrMalformedNumber, got %v", last, err)
		}
	}
}

func TestSchemeFor(t *testing.T) {
	s, err := core.SchemeFor(core.DocTypeQuotation)
	if err != nil || s.Prefix != "QN-" {
		t.Errorf("SchemeFor(QUOTATION) = %+v, %v", s, err)
	}
	if _, err := core.SchemeFor("RECEIPT"); err == nil {
		t.Error("expected error for unknown document type")
	}
}
