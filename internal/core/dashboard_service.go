package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Dashboard is the owner's at-a-glance business summary.
type Dashboard struct {
	Sales         Totals          `json:"sales"`
	BillCount     int             `json:"bill_count"`
	PaidCount     int             `json:"paid_count"`
	PendingCount  int             `json:"pending_count"`
	OverdueCount  int             `json:"overdue_count"`
	Purchases     Totals          `json:"purchases"`
	Expenses      decimal.Decimal `json:"expenses"`
	LowStockCount int             `json:"low_stock_count"`
	RecentBills   []BillSummary   `json:"recent_bills"`
}

// DashboardRange limits the sales, purchase and expense figures. Zero values are unbounded.
type DashboardRange struct {
	From *time.Time
	To   *time.Time
}

// DashboardService provides read-only summary queries.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID int, r DashboardRange) (*Dashboard, error)
}

type dashboardService struct {
	pool  *pgxpool.Pool
	bills BillService
}

// NewDashboardService constructs a DashboardService. Recent bills are read through bills.
func NewDashboardService(pool *pgxpool.Pool, bills BillService) DashboardService {
	return &dashboardService{pool: pool, bills: bills}
}

const recentBillLimit = 5

func (s *dashboardService) GetDashboard(ctx context.Context, userID int, r DashboardRange) (*Dashboard, error) {
	d := &Dashboard{}

	// VAT is linear, so totals over summed subtotals and discounts equal the sum of
	// per-bill totals.
	var billSubtotal, billDiscount *string
	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE b.status = 'Paid'),
		       COUNT(*) FILTER (WHERE b.status = 'Pending'),
		       COUNT(*) FILTER (WHERE b.status = 'Overdue'),
		       COALESCE(SUM(t.subtotal), 0)::text,
		       COALESCE(SUM(b.discount), 0)::text
		FROM bills b
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(quantity * rate), 0) AS subtotal
			FROM bill_items
			WHERE bill_id = b.id
		) t ON true
		WHERE b.user_id = $1
		  AND ($2::date IS NULL OR b.bill_date >= $2)
		  AND ($3::date IS NULL OR b.bill_date <= $3)`,
		userID, r.From, r.To,
	).Scan(&d.BillCount, &d.PaidCount, &d.PendingCount, &d.OverdueCount, &billSubtotal, &billDiscount); err != nil {
		return nil, dbError("summarize bills", err)
	}
	d.Sales = TotalsFrom(CoerceMoney(billSubtotal), CoerceMoney(billDiscount))

	var purchaseSubtotal, purchaseDiscount *string
	if err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(t.subtotal), 0)::text,
		       COALESCE(SUM(p.discount), 0)::text
		FROM purchases p
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(quantity * rate), 0) AS subtotal
			FROM purchase_items
			WHERE purchase_id = p.id
		) t ON true
		WHERE p.user_id = $1
		  AND ($2::date IS NULL OR p.purchase_date >= $2)
		  AND ($3::date IS NULL OR p.purchase_date <= $3)`,
		userID, r.From, r.To,
	).Scan(&purchaseSubtotal, &purchaseDiscount); err != nil {
		return nil, dbError("summarize purchases", err)
	}
	d.Purchases = TotalsFrom(CoerceMoney(purchaseSubtotal), CoerceMoney(purchaseDiscount))

	var expenses *string
	if err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM expenses
		WHERE user_id = $1
		  AND ($2::date IS NULL OR expense_date >= $2)
		  AND ($3::date IS NULL OR expense_date <= $3)`,
		userID, r.From, r.To,
	).Scan(&expenses); err != nil {
		return nil, dbError("summarize expenses", err)
	}
	d.Expenses = CoerceMoney(expenses)

	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE user_id = $1 AND is_active AND quantity <= reorder_level`,
		userID,
	).Scan(&d.LowStockCount); err != nil {
		return nil, dbError("count low stock", err)
	}

	bills, err := s.bills.ListBills(ctx, userID, BillFilter{Limit: recentBillLimit})
	if err != nil {
		return nil, err
	}
	d.RecentBills = bills
	return d, nil
}
