package core_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"arthavidhi/internal/core"
	"arthavidhi/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// setupTestDB migrates TEST_DATABASE_URL, empties every table and seeds two owners
// with ids 1 and 2.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database; the tables are truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	if _, err := db.Migrate(dbURL); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE attendance, employees, expenses, purchase_items, purchases, products,
		               quotation_items, quotations, bill_items, bills, document_sequences,
		               company_profiles, users RESTART IDENTITY CASCADE;

		INSERT INTO users (id, name, email, password_hash) VALUES
		(1, 'Owner One', 'one@example.com', 'x'),
		(2, 'Owner Two', 'two@example.com', 'x');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return pool
}

type services struct {
	numbers    core.NumberIssuer
	profiles   core.ProfileService
	bills      core.BillService
	quotations core.QuotationService
	products   core.ProductService
	purchases  core.PurchaseService
}

func newServices(pool *pgxpool.Pool) services {
	numbers := core.NewNumberIssuer(pool)
	profiles := core.NewProfileService(pool, nil)
	return services{
		numbers:    numbers,
		profiles:   profiles,
		bills:      core.NewBillService(pool, numbers, profiles),
		quotations: core.NewQuotationService(pool, numbers, profiles),
		products:   core.NewProductService(pool),
		purchases:  core.NewPurchaseService(pool, profiles),
	}
}

func sampleBill() core.BillInput {
	return core.BillInput{
		Client:        core.Client{Name: "Sharma Traders", Address: "Kathmandu"},
		BillDate:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		DiscountType:  core.DiscountAmount,
		DiscountValue: decimal.NewFromInt(500),
		Items: []core.LineItemInput{
			{Description: "Chair", Quantity: decimal.NewFromInt(2), Unit: "pcs", Rate: decimal.NewFromInt(4000)},
			{Description: "Table", Quantity: decimal.NewFromInt(1), Unit: "pcs", Rate: decimal.NewFromInt(1500)},
		},
	}
}

func mustCreateBill(t *testing.T, svc core.BillService, userID int) *core.AssembledBill {
	t.Helper()
	ctx := context.Background()
	id, err := svc.CreateBill(ctx, userID, sampleBill())
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	bill, err := svc.GetBill(ctx, userID, id)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	return bill
}

func TestBill_SequentialNumbering(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)

	first := mustCreateBill(t, s.bills, 1)
	second := mustCreateBill(t, s.bills, 1)
	if first.Bill.Number != "HG0100" {
		t.Errorf("first bill number = %s, want HG0100", first.Bill.Number)
	}
	if second.Bill.Number != "HG0101" {
		t.Errorf("second bill number = %s, want HG0101", second.Bill.Number)
	}

	// Numbering is per owner.
	other := mustCreateBill(t, s.bills, 2)
	if other.Bill.Number != "HG0100" {
		t.Errorf("other owner's first bill = %s, want HG0100", other.Bill.Number)
	}

	next, err := s.bills.NextBillNumber(context.Background(), 1)
	if err != nil {
		t.Fatalf("NextBillNumber: %v", err)
	}
	if next != "HG0102" {
		t.Errorf("NextBillNumber = %s, want HG0102", next)
	}
}

func TestBill_AssembledTotals(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)

	bill := mustCreateBill(t, s.bills, 1)
	if len(bill.Bill.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(bill.Bill.Items))
	}
	if !bill.Totals.Subtotal.Equal(decimal.NewFromInt(9500)) {
		t.Errorf("subtotal = %s, want 9500", bill.Totals.Subtotal)
	}
	if !bill.Totals.VAT.Equal(decimal.NewFromInt(1170)) {
		t.Errorf("vat = %s, want 1170", bill.Totals.VAT)
	}
	if !bill.Totals.Total.Equal(decimal.NewFromInt(10170)) {
		t.Errorf("total = %s, want 10170", bill.Totals.Total)
	}
	if bill.Bill.Status != core.BillPending {
		t.Errorf("status = %s, want Pending", bill.Bill.Status)
	}
	// No profile saved yet: an empty company block, not an error.
	if bill.Company == nil || bill.Company.Name != "" {
		t.Errorf("expected empty company profile, got %+v", bill.Company)
	}
}

func TestBill_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)

	const n = 8
	ctx := context.Background()
	ids := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = s.bills.CreateBill(ctx, 1, sampleBill())
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("CreateBill #%d: %v", i, errs[i])
		}
		bill, err := s.bills.GetBill(ctx, 1, ids[i])
		if err != nil {
			t.Fatalf("GetBill: %v", err)
		}
		if seen[bill.Bill.Number] {
			t.Errorf("number %s issued twice", bill.Bill.Number)
		}
		seen[bill.Bill.Number] = true
	}
	for _, want := range []string{"HG0100", "HG0107"} {
		if !seen[want] {
			t.Errorf("expected %s among issued numbers, got %v", want, seen)
		}
	}
}

func TestBill_RollbackOnItemFailure(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	bad := sampleBill()
	bad.Items = append(bad.Items, core.LineItemInput{Description: "Broken", Quantity: decimal.Zero, Rate: decimal.NewFromInt(10)})
	if _, err := s.bills.CreateBill(ctx, 1, bad); !errors.Is(err, core.ErrDatabase) {
		t.Fatalf("expected database error from item insert, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM bills WHERE user_id = 1").Scan(&count); err != nil {
		t.Fatalf("count bills: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no bill after rollback, found %d", count)
	}

	// The failed attempt must not consume a number.
	bill := mustCreateBill(t, s.bills, 1)
	if bill.Bill.Number != "HG0100" {
		t.Errorf("number after rollback = %s, want HG0100", bill.Bill.Number)
	}
}

func TestBill_RejectsValuesFinerThanColumns(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	// 3 × 33.334 would be stored as 3 × 33.33, leaving a full discount above the subtotal
	fine := sampleBill()
	fine.DiscountType = core.DiscountPercent
	fine.DiscountValue = decimal.NewFromInt(100)
	fine.Items = []core.LineItemInput{{Description: "Service", Quantity: decimal.NewFromInt(3), Rate: decimal.RequireFromString("33.334")}}
	if _, err := s.bills.CreateBill(ctx, 1, fine); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	fine.Items[0].Rate = decimal.RequireFromString("33.33")
	id, err := s.bills.CreateBill(ctx, 1, fine)
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	bill, err := s.bills.GetBill(ctx, 1, id)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if !bill.Totals.Taxable.IsZero() || bill.Totals.Total.IsNegative() {
		t.Errorf("full discount totals = %+v, want zero taxable", bill.Totals)
	}
}

func TestBill_DeleteAndNotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	bill := mustCreateBill(t, s.bills, 1)

	t.Run("OtherOwnerCannotSee", func(t *testing.T) {
		if _, err := s.bills.GetBill(ctx, 2, bill.Bill.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound for other owner, got %v", err)
		}
		if err := s.bills.DeleteBill(ctx, 2, bill.Bill.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting other owner's bill, got %v", err)
		}
	})

	t.Run("DeletedBillIsNotFound", func(t *testing.T) {
		if err := s.bills.DeleteBill(ctx, 1, bill.Bill.ID); err != nil {
			t.Fatalf("DeleteBill: %v", err)
		}
		if _, err := s.bills.GetBill(ctx, 1, bill.Bill.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("NumberNotReused", func(t *testing.T) {
		next := mustCreateBill(t, s.bills, 1)
		if next.Bill.Number != "HG0101" {
			t.Errorf("number after delete = %s, want HG0101", next.Bill.Number)
		}
	})
}

func TestBill_UpdateStatusAndOverdue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	in := sampleBill()
	due := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	in.DueDate = &due
	id, err := s.bills.CreateBill(ctx, 1, in)
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	paidID, err := s.bills.CreateBill(ctx, 1, in)
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if err := s.bills.UpdateBillStatus(ctx, 1, paidID, core.BillPaid); err != nil {
		t.Fatalf("UpdateBillStatus: %v", err)
	}

	n, err := s.bills.MarkOverdueBills(ctx, 1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MarkOverdueBills: %v", err)
	}
	if n != 1 {
		t.Errorf("marked %d bills overdue, want 1", n)
	}
	bill, err := s.bills.GetBill(ctx, 1, id)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if bill.Bill.Status != core.BillOverdue {
		t.Errorf("status = %s, want Overdue", bill.Bill.Status)
	}
}

func TestQuotation_FirstNumberAndUpdate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	in := core.QuotationInput{
		Client:        core.Client{Name: "Everest Hotel"},
		QuotationDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		DiscountType:  core.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		Items: []core.LineItemInput{
			{Description: "Bed", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(20000)},
		},
	}
	id, err := s.quotations.CreateQuotation(ctx, 1, in)
	if err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}
	q, err := s.quotations.GetQuotation(ctx, 1, id)
	if err != nil {
		t.Fatalf("GetQuotation: %v", err)
	}
	if q.Quotation.Number != "QN-0001" {
		t.Errorf("first quotation number = %s, want QN-0001", q.Quotation.Number)
	}
	if !q.Totals.Discount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("discount = %s, want 2000", q.Totals.Discount)
	}

	// Bills and quotations are numbered independently.
	if bill := mustCreateBill(t, s.bills, 1); bill.Bill.Number != "HG0100" {
		t.Errorf("bill number = %s, want HG0100", bill.Bill.Number)
	}

	in.Items = append(in.Items, core.LineItemInput{Description: "Mattress", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(5000)})
	if err := s.quotations.UpdateQuotation(ctx, 1, id, in); err != nil {
		t.Fatalf("UpdateQuotation: %v", err)
	}
	q, err = s.quotations.GetQuotation(ctx, 1, id)
	if err != nil {
		t.Fatalf("GetQuotation: %v", err)
	}
	if len(q.Quotation.Items) != 2 || q.Quotation.Number != "QN-0001" {
		t.Errorf("after update: %d items, number %s", len(q.Quotation.Items), q.Quotation.Number)
	}
}

func TestBill_ListLimitReturnsNewest(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreateBill(t, s.bills, 1)
	}
	list, err := s.bills.ListBills(ctx, 1, core.BillFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if len(list) != 2 || list[0].Number != "HG0102" || list[1].Number != "HG0101" {
		t.Errorf("limited listing = %+v, want HG0102, HG0101", list)
	}
}
