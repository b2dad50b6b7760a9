package app

import (
	"errors"
	"fmt"
	"testing"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation error", invalid("client.name", "is required"), KindValidation},
		{"core invalid input", fmt.Errorf("%w: discount cannot be negative", core.ErrInvalidInput), KindValidation},
		{"insufficient stock", fmt.Errorf("%w: product 3", core.ErrInsufficientStock), KindValidation},
		{"duplicate", fmt.Errorf("email %q: %w", "a@b.c", core.ErrDuplicate), KindValidation},
		{"not found", fmt.Errorf("bill 7: %w", core.ErrNotFound), KindNotFound},
		{"credentials", ErrInvalidCredentials, KindUnauthorized},
		{"unavailable", errNoUploads, KindUnavailable},
		{"malformed number", fmt.Errorf("%w: %q", core.ErrMalformedNumber, "HGxx"), KindDatabase},
		{"anything else", errors.New("connection reset"), KindDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(fmt.Errorf("bill 7: %w", core.ErrNotFound)); got != "bill not found" {
		t.Errorf("not found message = %q", got)
	}
	if got := PublicMessage(errors.New("pq: relation \"bills\" does not exist")); got != core.ErrDatabase.Error() {
		t.Errorf("database failures must not leak driver detail, got %q", got)
	}
	err := fmt.Errorf("%w: discount 600.00 exceeds subtotal 500.00", core.ErrInvalidInput)
	if got := PublicMessage(err); got != "discount 600.00 exceeds subtotal 500.00" {
		t.Errorf("validation message = %q", got)
	}
}

func validBill() BillRequest {
	return BillRequest{
		Client:        ClientRequest{Name: "Sharma Traders"},
		BillDate:      "2024-04-01",
		DiscountType:  "amount",
		DiscountValue: decimal.NewFromInt(500),
		Items: []LineItemRequest{
			{Description: "Chair", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(4000)},
			{Description: "Table", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1500)},
		},
	}
}

func TestValidateRequest_FieldPaths(t *testing.T) {
	req := validBill()
	req.Client.Name = ""
	req.Items[0].Quantity = decimal.Zero
	req.Items[1].Rate = decimal.NewFromInt(-1)
	req.BillDate = "01/04/2024"

	err := validateRequest(req)
	fields := FieldErrors(err)
	if fields == nil {
		t.Fatalf("expected a validation error, got %v", err)
	}
	for _, path := range []string{"client.name", "items[0].quantity", "items[1].rate", "bill_date"} {
		if _, ok := fields[path]; !ok {
			t.Errorf("expected a problem for %q, got %v", path, fields)
		}
	}
}

func TestValidateRequest_NoItems(t *testing.T) {
	req := validBill()
	req.Items = nil
	fields := FieldErrors(validateRequest(req))
	if fields["items"] == "" {
		t.Errorf("expected items to be required, got %v", fields)
	}
}

func TestToBillInput(t *testing.T) {
	in, err := toBillInput(validBill())
	if err != nil {
		t.Fatalf("toBillInput: %v", err)
	}
	if in.Client.Name != "Sharma Traders" || len(in.Items) != 2 {
		t.Fatalf("unexpected input: %+v", in)
	}

	lines := make([]core.LineItem, len(in.Items))
	for i, it := range in.Items {
		lines[i] = core.LineItem{Quantity: it.Quantity, Rate: it.Rate}
	}
	totals := core.ComputeTotals(lines, in.DiscountValue)
	if !totals.Total.Equal(decimal.NewFromInt(10170)) {
		t.Errorf("total = %s, want 10170", totals.Total)
	}
}

func TestToBillInput_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*BillRequest)
		field string
	}{
		{"due before bill date", func(r *BillRequest) { r.DueDate = "2024-03-01" }, "due_date"},
		{"discount above subtotal", func(r *BillRequest) { r.DiscountValue = decimal.NewFromInt(9501) }, "discount_value"},
		{"percent above 100", func(r *BillRequest) {
			r.DiscountType = "percent"
			r.DiscountValue = decimal.NewFromInt(101)
		}, "discount_value"},
		{"unknown status", func(r *BillRequest) { r.Status = "Cancelled" }, "status"},
		{"rate finer than cents", func(r *BillRequest) {
			r.Items = []LineItemRequest{{Description: "Service", Quantity: decimal.NewFromInt(3), Rate: decimal.RequireFromString("33.334")}}
			r.DiscountType = "percent"
			r.DiscountValue = decimal.NewFromInt(100)
		}, "items[0].rate"},
		{"quantity finer than three places", func(r *BillRequest) { r.Items[1].Quantity = decimal.RequireFromString("1.0005") }, "items[1].quantity"},
		{"discount finer than cents", func(r *BillRequest) { r.DiscountValue = decimal.RequireFromString("500.001") }, "discount_value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBill()
			tt.edit(&req)
			_, err := toBillInput(req)
			if Classify(err) != KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := FieldErrors(err)[tt.field]; !ok {
				t.Errorf("expected problem on %q, got %v", tt.field, FieldErrors(err))
			}
		})
	}
}

func TestToPurchaseInput(t *testing.T) {
	req := PurchaseRequest{
		SupplierName: "  Himal Hardware ",
		PurchaseDate: "2024-04-02",
		Items: []PurchaseItemRequest{
			{ProductID: 4, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(120)},
		},
	}
	in, err := toPurchaseInput(req)
	if err != nil {
		t.Fatalf("toPurchaseInput: %v", err)
	}
	if in.Supplier.Name != "Himal Hardware" {
		t.Errorf("supplier name not trimmed: %q", in.Supplier.Name)
	}

	req.Items[0].ProductID = 0
	if _, err := toPurchaseInput(req); Classify(err) != KindValidation {
		t.Errorf("expected validation error for missing product, got %v", err)
	}
	req.Items[0].ProductID = 4

	req.Items[0].Rate = decimal.RequireFromString("120.005")
	if _, err := toPurchaseInput(req); FieldErrors(err)["items[0].rate"] == "" {
		t.Errorf("expected items[0].rate problem, got %v", err)
	}
	req.Items[0].Rate = decimal.NewFromInt(120)

	req.Discount = decimal.RequireFromString("10.001")
	if _, err := toPurchaseInput(req); FieldErrors(err)["discount"] == "" {
		t.Errorf("expected discount problem, got %v", err)
	}
}
