package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillPending BillStatus = "Pending"
	BillPaid    BillStatus = "Paid"
	BillOverdue BillStatus = "Overdue"
)

// Valid reports whether s is one of the known statuses.
func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillPaid, BillOverdue:
		return true
	}
	return false
}

// Client identifies the customer a document is addressed to.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	PAN     string `json:"pan"`
}

// Bill is a sales invoice header together with its items.
type Bill struct {
	ID              int              `json:"id"`
	Number          string           `json:"bill_number"`
	Client          Client           `json:"client"`
	BillDate        time.Time        `json:"bill_date"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	Discount        decimal.Decimal  `json:"discount"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	Status          BillStatus       `json:"status"`
	Remarks         string           `json:"remarks"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Items           []LineItem       `json:"items"`
}

// BillInput holds the fields required to create or replace a bill.
type BillInput struct {
	Client        Client
	BillDate      time.Time
	DueDate       *time.Time
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	Status        BillStatus // empty means Pending
	Remarks       string
	Items         []LineItemInput
}

// BillFilter narrows ListBills. Zero values disable a criterion.
type BillFilter struct {
	Status BillStatus
	Search string // matches bill number or client name, case-insensitive
	From   *time.Time
	To     *time.Time
	Limit  int // newest first; zero means no limit
}

// BillSummary is one row of a bill listing.
type BillSummary struct {
	ID         int        `json:"id"`
	Number     string     `json:"bill_number"`
	ClientName string     `json:"client_name"`
	BillDate   time.Time  `json:"bill_date"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Status     BillStatus `json:"status"`
	Totals     Totals     `json:"totals"`
}

// AssembledBill is the canonical view of a persisted bill used for display and export.
type AssembledBill struct {
	Bill    *Bill           `json:"bill"`
	Company *CompanyProfile `json:"company"`
	Totals  Totals          `json:"totals"`
}

// BillService provides the bill lifecycle.
type BillService interface {
	// CreateBill numbers and persists a bill with its items in one transaction and
	// returns the new row id.
	CreateBill(ctx context.Context, userID int, in BillInput) (int, error)

	// GetBill assembles a bill with its items, the owner's profile and computed totals.
	GetBill(ctx context.Context, userID, billID int) (*AssembledBill, error)

	// ListBills returns bill summaries, newest first.
	ListBills(ctx context.Context, userID int, f BillFilter) ([]BillSummary, error)

	// UpdateBill patches header fields and replaces all items. The number never changes.
	UpdateBill(ctx context.Context, userID, billID int, in BillInput) error

	// UpdateBillStatus sets the payment status.
	UpdateBillStatus(ctx context.Context, userID, billID int, status BillStatus) error

	// DeleteBill removes the items and then the bill.
	DeleteBill(ctx context.Context, userID, billID int) error

	// MarkOverdueBills moves Pending bills whose due date is before today to Overdue
	// and returns how many changed.
	MarkOverdueBills(ctx context.Context, userID int, today time.Time) (int, error)

	// NextBillNumber previews the number the next bill will receive.
	NextBillNumber(ctx context.Context, userID int) (string, error)
}
