package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type billService struct {
	pool     *pgxpool.Pool
	numbers  NumberIssuer
	profiles ProfileService
}

// NewBillService constructs a BillService backed by PostgreSQL.
func NewBillService(pool *pgxpool.Pool, numbers NumberIssuer, profiles ProfileService) BillService {
	return &billService{pool: pool, numbers: numbers, profiles: profiles}
}

func (s *billService) CreateBill(ctx context.Context, userID int, in BillInput) (int, error) {
	if len(in.Items) == 0 {
		return 0, fmt.Errorf("%w: bill must have at least one item", ErrInvalidInput)
	}
	discount, pct, err := discountFor(in.DiscountType, in.DiscountValue, in.Items)
	if err != nil {
		return 0, err
	}
	status := in.Status
	if status == "" {
		status = BillPending
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	number, err := s.numbers.IssueNumberTx(ctx, tx, userID, DocTypeBill)
	if err != nil {
		return 0, err
	}

	var billID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO bills (user_id, bill_number, client_name, client_address, client_phone, client_pan,
		                   bill_date, due_date, discount, discount_percent, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		userID, number, in.Client.Name, in.Client.Address, in.Client.Phone, in.Client.PAN,
		in.BillDate, in.DueDate, discount, pct, string(status), in.Remarks,
	).Scan(&billID); err != nil {
		return 0, dbError("insert bill", err)
	}

	if err := insertItemsTx(ctx, tx, billItems, billID, in.Items); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, dbError("commit bill", err)
	}
	return billID, nil
}

func (s *billService) GetBill(ctx context.Context, userID, billID int) (*AssembledBill, error) {
	b := &Bill{}
	var discount, pct *string
	err := s.pool.QueryRow(ctx, `
		SELECT id, bill_number, client_name, client_address, client_phone, client_pan,
		       bill_date, due_date, discount::text, discount_percent::text, status, remarks,
		       created_at, updated_at
		FROM bills
		WHERE id = $1 AND user_id = $2`,
		billID, userID,
	).Scan(
		&b.ID, &b.Number, &b.Client.Name, &b.Client.Address, &b.Client.Phone, &b.Client.PAN,
		&b.BillDate, &b.DueDate, &discount, &pct, &b.Status, &b.Remarks,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %d: %w", billID, ErrNotFound)
		}
		return nil, dbError("get bill", err)
	}
	b.Discount = CoerceMoney(discount)
	if pct != nil {
		p := CoerceMoney(pct)
		b.DiscountPercent = &p
	}

	items, err := fetchItems(ctx, s.pool, billItems, billID)
	if err != nil {
		return nil, err
	}
	b.Items = items

	company, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AssembledBill{
		Bill:    b,
		Company: company,
		Totals:  ComputeTotals(items, b.Discount),
	}, nil
}

func (s *billService) ListBills(ctx context.Context, userID int, f BillFilter) ([]BillSummary, error) {
	query := `
		SELECT b.id, b.bill_number, b.client_name, b.bill_date, b.due_date, b.status,
		       t.subtotal::text, b.discount::text
		FROM bills b
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(quantity * rate), 0) AS subtotal
			FROM bill_items
			WHERE bill_id = b.id
		) t ON true
		WHERE b.user_id = $1`
	args := []any{userID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+term+"%")
		query += fmt.Sprintf(" AND (b.bill_number ILIKE $%d OR b.client_name ILIKE $%d)", len(args), len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND b.bill_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND b.bill_date <= $%d", len(args))
	}
	query += " ORDER BY b.id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list bills", err)
	}
	defer rows.Close()

	var bills []BillSummary
	for rows.Next() {
		var bs BillSummary
		var subtotal, discount *string
		if err := rows.Scan(&bs.ID, &bs.Number, &bs.ClientName, &bs.BillDate, &bs.DueDate, &bs.Status,
			&subtotal, &discount); err != nil {
			return nil, dbError("scan bill", err)
		}
		bs.Totals = TotalsFrom(CoerceMoney(subtotal), CoerceMoney(discount))
		bills = append(bills, bs)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate bills", err)
	}
	return bills, nil
}

func (s *billService) UpdateBill(ctx context.Context, userID, billID int, in BillInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: bill must have at least one item", ErrInvalidInput)
	}
	discount, pct, err := discountFor(in.DiscountType, in.DiscountValue, in.Items)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var status string
	if err := tx.QueryRow(ctx,
		"SELECT status FROM bills WHERE id = $1 AND user_id = $2 FOR UPDATE",
		billID, userID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("bill %d: %w", billID, ErrNotFound)
		}
		return dbError("lock bill", err)
	}
	if in.Status != "" {
		status = string(in.Status)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE bills
		SET client_name = $3, client_address = $4, client_phone = $5, client_pan = $6,
		    bill_date = $7, due_date = $8, discount = $9, discount_percent = $10,
		    status = $11, remarks = $12, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`,
		billID, userID, in.Client.Name, in.Client.Address, in.Client.Phone, in.Client.PAN,
		in.BillDate, in.DueDate, discount, pct, status, in.Remarks,
	); err != nil {
		return dbError("update bill", err)
	}

	if err := deleteItemsTx(ctx, tx, billItems, billID); err != nil {
		return err
	}
	if err := insertItemsTx(ctx, tx, billItems, billID, in.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("commit bill update", err)
	}
	return nil
}

func (s *billService) UpdateBillStatus(ctx context.Context, userID, billID int, status BillStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown bill status %q", ErrInvalidInput, status)
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE bills SET status = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2",
		billID, userID, string(status),
	)
	if err != nil {
		return dbError("update bill status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bill %d: %w", billID, ErrNotFound)
	}
	return nil
}

func (s *billService) DeleteBill(ctx context.Context, userID, billID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM bills WHERE id = $1 AND user_id = $2)",
		billID, userID,
	).Scan(&exists); err != nil {
		return dbError("check bill", err)
	}
	if !exists {
		return fmt.Errorf("bill %d: %w", billID, ErrNotFound)
	}

	if err := deleteItemsTx(ctx, tx, billItems, billID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM bills WHERE id = $1 AND user_id = $2", billID, userID); err != nil {
		return dbError("delete bill", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("commit bill delete", err)
	}
	return nil
}

func (s *billService) MarkOverdueBills(ctx context.Context, userID int, today time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bills
		SET status = $2, updated_at = NOW()
		WHERE user_id = $1 AND status = $3 AND due_date IS NOT NULL AND due_date < $4`,
		userID, string(BillOverdue), string(BillPending), today,
	)
	if err != nil {
		return 0, dbError("mark overdue bills", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *billService) NextBillNumber(ctx context.Context, userID int) (string, error) {
	return s.numbers.PeekNextNumber(ctx, userID, DocTypeBill)
}
