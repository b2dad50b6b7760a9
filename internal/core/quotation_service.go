package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type quotationService struct {
	pool     *pgxpool.Pool
	numbers  NumberIssuer
	profiles ProfileService
}

// NewQuotationService constructs a QuotationService backed by PostgreSQL.
func NewQuotationService(pool *pgxpool.Pool, numbers NumberIssuer, profiles ProfileService) QuotationService {
	return &quotationService{pool: pool, numbers: numbers, profiles: profiles}
}

func (s *quotationService) CreateQuotation(ctx context.Context, userID int, in QuotationInput) (int, error) {
	if len(in.Items) == 0 {
		return 0, fmt.Errorf("%w: quotation must have at least one item", ErrInvalidInput)
	}
	discount, pct, err := discountFor(in.DiscountType, in.DiscountValue, in.Items)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	number, err := s.numbers.IssueNumberTx(ctx, tx, userID, DocTypeQuotation)
	if err != nil {
		return 0, err
	}

	var quotationID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO quotations (user_id, quotation_number, client_name, client_address, client_phone,
		                        client_pan, quotation_date, discount, discount_percent, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		userID, number, in.Client.Name, in.Client.Address, in.Client.Phone,
		in.Client.PAN, in.QuotationDate, discount, pct, in.Remarks,
	).Scan(&quotationID); err != nil {
		return 0, dbError("insert quotation", err)
	}

	if err := insertItemsTx(ctx, tx, quotationItems, quotationID, in.Items); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, dbError("commit quotation", err)
	}
	return quotationID, nil
}

func (s *quotationService) GetQuotation(ctx context.Context, userID, quotationID int) (*AssembledQuotation, error) {
	q := &Quotation{}
	var discount, pct *string
	err := s.pool.QueryRow(ctx, `
		SELECT id, quotation_number, client_name, client_address, client_phone, client_pan,
		       quotation_date, discount::text, discount_percent::text, remarks, created_at, updated_at
		FROM quotations
		WHERE id = $1 AND user_id = $2`,
		quotationID, userID,
	).Scan(
		&q.ID, &q.Number, &q.Client.Name, &q.Client.Address, &q.Client.Phone, &q.Client.PAN,
		&q.QuotationDate, &discount, &pct, &q.Remarks, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotation %d: %w", quotationID, ErrNotFound)
		}
		return nil, dbError("get quotation", err)
	}
	q.Discount = CoerceMoney(discount)
	if pct != nil {
		p := CoerceMoney(pct)
		q.DiscountPercent = &p
	}

	items, err := fetchItems(ctx, s.pool, quotationItems, quotationID)
	if err != nil {
		return nil, err
	}
	q.Items = items

	company, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AssembledQuotation{
		Quotation: q,
		Company:   company,
		Totals:    ComputeTotals(items, q.Discount),
	}, nil
}

func (s *quotationService) ListQuotations(ctx context.Context, userID int, search string) ([]QuotationSummary, error) {
	query := `
		SELECT q.id, q.quotation_number, q.client_name, q.quotation_date,
		       t.subtotal::text, q.discount::text
		FROM quotations q
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(quantity * rate), 0) AS subtotal
			FROM quotation_items
			WHERE quotation_id = q.id
		) t ON true
		WHERE q.user_id = $1`
	args := []any{userID}
	if term := strings.TrimSpace(search); term != "" {
		args = append(args, "%"+term+"%")
		query += " AND (q.quotation_number ILIKE $2 OR q.client_name ILIKE $2)"
	}
	query += " ORDER BY q.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list quotations", err)
	}
	defer rows.Close()

	var out []QuotationSummary
	for rows.Next() {
		var qs QuotationSummary
		var subtotal, discount *string
		if err := rows.Scan(&qs.ID, &qs.Number, &qs.ClientName, &qs.QuotationDate, &subtotal, &discount); err != nil {
			return nil, dbError("scan quotation", err)
		}
		qs.Totals = TotalsFrom(CoerceMoney(subtotal), CoerceMoney(discount))
		out = append(out, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate quotations", err)
	}
	return out, nil
}

func (s *quotationService) UpdateQuotation(ctx context.Context, userID, quotationID int, in QuotationInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: quotation must have at least one item", ErrInvalidInput)
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

	tag, err := tx.Exec(ctx, `
		UPDATE quotations
		SET client_name = $3, client_address = $4, client_phone = $5, client_pan = $6,
		    quotation_date = $7, discount = $8, discount_percent = $9, remarks = $10,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2`,
		quotationID, userID, in.Client.Name, in.Client.Address, in.Client.Phone, in.Client.PAN,
		in.QuotationDate, discount, pct, in.Remarks,
	)
	if err != nil {
		return dbError("update quotation", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", quotationID, ErrNotFound)
	}

	if err := deleteItemsTx(ctx, tx, quotationItems, quotationID); err != nil {
		return err
	}
	if err := insertItemsTx(ctx, tx, quotationItems, quotationID, in.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("commit quotation update", err)
	}
	return nil
}

func (s *quotationService) DeleteQuotation(ctx context.Context, userID, quotationID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM quotations WHERE id = $1 AND user_id = $2)",
		quotationID, userID,
	).Scan(&exists); err != nil {
		return dbError("check quotation", err)
	}
	if !exists {
		return fmt.Errorf("quotation %d: %w", quotationID, ErrNotFound)
	}

	if err := deleteItemsTx(ctx, tx, quotationItems, quotationID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM quotations WHERE id = $1 AND user_id = $2", quotationID, userID); err != nil {
		return dbError("delete quotation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("commit quotation delete", err)
	}
	return nil
}

func (s *quotationService) NextQuotationNumber(ctx context.Context, userID int) (string, error) {
	return s.numbers.PeekNextNumber(ctx, userID, DocTypeQuotation)
}
