package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type expenseService struct {
	pool *pgxpool.Pool
}

// NewExpenseService constructs an ExpenseService backed by PostgreSQL.
func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

const expenseColumns = `id, title, category, amount::text, expense_date, remarks,
	COALESCE(receipt_path, ''), created_at, updated_at`

func scanExpense(row pgx.Row) (*Expense, error) {
	e := &Expense{}
	var amount *string
	if err := row.Scan(&e.ID, &e.Title, &e.Category, &amount, &e.ExpenseDate, &e.Remarks,
		&e.ReceiptPath, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Amount = CoerceMoney(amount)
	return e, nil
}

func (s *expenseService) CreateExpense(ctx context.Context, userID int, in ExpenseInput) (*Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", ErrInvalidInput)
	}
	e, err := scanExpense(s.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, title, category, amount, expense_date, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+expenseColumns,
		userID, in.Title, in.Category, in.Amount, in.ExpenseDate, in.Remarks,
	))
	if err != nil {
		return nil, dbError("create expense", err)
	}
	return e, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID int, f ExpenseFilter) ([]Expense, error) {
	var b strings.Builder
	b.WriteString("SELECT " + expenseColumns + " FROM expenses WHERE user_id = $1")
	args := []any{userID}
	if f.Category != "" {
		args = append(args, f.Category)
		fmt.Fprintf(&b, " AND category = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		fmt.Fprintf(&b, " AND expense_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		fmt.Fprintf(&b, " AND expense_date <= $%d", len(args))
	}
	b.WriteString(" ORDER BY expense_date DESC, id DESC")

	rows, err := s.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, dbError("list expenses", err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, dbError("scan expense", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate expenses", err)
	}
	return out, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1 AND user_id = $2", expenseID, userID)
	if err != nil {
		return dbError("delete expense", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %d: %w", expenseID, ErrNotFound)
	}
	return nil
}

func (s *expenseService) AttachReceipt(ctx context.Context, userID, expenseID int, path string) (string, error) {
	var previous string
	err := s.pool.QueryRow(ctx, `
		UPDATE expenses e
		SET receipt_path = $3, updated_at = NOW()
		FROM (SELECT id, COALESCE(receipt_path, '') AS old_path FROM expenses WHERE id = $1 AND user_id = $2 FOR UPDATE) old
		WHERE e.id = old.id
		RETURNING old.old_path`,
		expenseID, userID, path,
	).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("expense %d: %w", expenseID, ErrNotFound)
		}
		return "", dbError("attach receipt", err)
	}
	return previous, nil
}
