package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a business cost that is not a stock purchase.
type Expense struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	Remarks     string          `json:"remarks"`
	ReceiptPath string          `json:"receipt_path,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ExpenseInput struct {
	Title       string
	Category    string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Remarks     string
}

// ExpenseFilter narrows ListExpenses. Zero values disable a criterion.
type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

// ExpenseService records operating expenses.
type ExpenseService interface {
	CreateExpense(ctx context.Context, userID int, in ExpenseInput) (*Expense, error)
	ListExpenses(ctx context.Context, userID int, f ExpenseFilter) ([]Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID int) error
	// AttachReceipt stores the path of an uploaded receipt image and returns the path
	// it replaced, if any, so the caller can remove the old file.
	AttachReceipt(ctx context.Context, userID, expenseID int, path string) (string, error)
}
