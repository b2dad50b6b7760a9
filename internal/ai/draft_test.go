package ai

import (
	"strings"
	"testing"
	"time"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
)

var today = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestNormalizeAndConvert(t *testing.T) {
	d := &BillDraft{
		ClientName:    "  Ram Traders ",
		DueDate:       "null",
		DiscountValue: "Rs. 500",
		Items: []DraftItem{
			{Description: "Chair", Quantity: "2", Rate: "4,000.00"},
			{Description: "Table", Quantity: "", Rate: "1500"},
		},
	}
	d.Normalize(today)

	if d.BillDate != "2024-05-01" {
		t.Errorf("BillDate = %q, want today", d.BillDate)
	}
	if d.DiscountType != "amount" {
		t.Errorf("DiscountType = %q", d.DiscountType)
	}

	in, err := d.ToBillInput()
	if err != nil {
		t.Fatalf("ToBillInput: %v", err)
	}
	if in.Client.Name != "Ram Traders" || in.DueDate != nil {
		t.Errorf("unexpected header: %+v", in)
	}
	if !in.DiscountValue.Equal(decimal.NewFromInt(500)) {
		t.Errorf("discount = %s", in.DiscountValue)
	}
	if !in.Items[0].Rate.Equal(decimal.NewFromInt(4000)) || !in.Items[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("unexpected items: %+v", in.Items)
	}
}

func TestToBillInput_Rejects(t *testing.T) {
	base := func() *BillDraft {
		return &BillDraft{
			ClientName: "X", BillDate: "2024-05-01", DiscountType: "amount", DiscountValue: "0",
			Items: []DraftItem{{Description: "A", Quantity: "1", Rate: "10"}},
		}
	}
	tests := []struct {
		name   string
		mutate func(*BillDraft)
	}{
		{"clarification", func(d *BillDraft) { d.IsClarificationRequest = true }},
		{"no client", func(d *BillDraft) { d.ClientName = "" }},
		{"no items", func(d *BillDraft) { d.Items = nil }},
		{"bad date", func(d *BillDraft) { d.BillDate = "01/05/2024" }},
		{"zero quantity", func(d *BillDraft) { d.Items[0].Quantity = "0" }},
		{"negative rate", func(d *BillDraft) { d.Items[0].Rate = "-1" }},
		{"bad discount", func(d *BillDraft) { d.DiscountValue = "lots" }},
		{"quantity rounds to zero", func(d *BillDraft) { d.Items[0].Quantity = "0.0001" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			if _, err := d.ToBillInput(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestToBillInput_RoundsToColumnScale(t *testing.T) {
	d := &BillDraft{
		ClientName: "X", BillDate: "2024-05-01", DiscountType: "amount", DiscountValue: "1.005",
		Items: []DraftItem{{Description: "A", Quantity: "1.23456", Rate: "33.334"}},
	}
	in, err := d.ToBillInput()
	if err != nil {
		t.Fatalf("ToBillInput: %v", err)
	}
	it := in.Items[0]
	if !it.Quantity.Equal(decimal.RequireFromString("1.235")) || !it.Rate.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("item not rounded: qty %s rate %s", it.Quantity, it.Rate)
	}
	if !in.DiscountValue.Equal(decimal.RequireFromString("1.01")) {
		t.Errorf("discount = %s, want 1.01", in.DiscountValue)
	}
}

func TestDraftSchema_StrictShape(t *testing.T) {
	schema, err := draftSchema()
	if err != nil {
		t.Fatal(err)
	}
	if schema["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", schema["additionalProperties"])
	}
	required, _ := schema["required"].([]any)
	props, _ := schema["properties"].(map[string]any)
	if len(required) != len(props) {
		t.Errorf("strict mode needs every property required: %d required, %d properties", len(required), len(props))
	}
	if _, ok := props["items"]; !ok {
		t.Error("items property missing")
	}
}

func TestBuildPrompt_IncludesCatalogue(t *testing.T) {
	p := buildPrompt("2 chairs for Ram", today, []core.Product{
		{Name: "Chair", Unit: "pcs", SellingPrice: decimal.NewFromInt(4000)},
	})
	for _, want := range []string{"Chair (unit: pcs, price: 4000.00)", "Today is 2024-05-01", "2 chairs for Ram", "13% VAT"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
