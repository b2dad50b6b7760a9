package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// NumberIssuer hands out document numbers.
type NumberIssuer interface {
	// IssueNumberTx assigns the next number for docType inside the caller's transaction.
	// The per-owner sequence row stays locked until the transaction ends, so concurrent
	// creators are serialized and a rolled-back attempt leaves the sequence untouched.
	IssueNumberTx(ctx context.Context, tx pgx.Tx, userID int, docType DocType) (string, error)

	// PeekNextNumber returns the number the next successful creation would receive.
	// It takes no lock; the value is informational only.
	PeekNextNumber(ctx context.Context, userID int, docType DocType) (string, error)
}

type numberIssuer struct {
	pool *pgxpool.Pool
}

// NewNumberIssuer constructs a NumberIssuer backed by the document_sequences table.
func NewNumberIssuer(pool *pgxpool.Pool) NumberIssuer {
	return &numberIssuer{pool: pool}
}

func (n *numberIssuer) IssueNumberTx(ctx context.Context, tx pgx.Tx, userID int, docType DocType) (string, error) {
	scheme, err := SchemeFor(docType)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO document_sequences (user_id, doc_type)
		VALUES ($1, $2)
		ON CONFLICT (user_id, doc_type) DO NOTHING`,
		userID, string(docType),
	); err != nil {
		return "", dbError("ensure document sequence", err)
	}

	var last *string
	if err := tx.QueryRow(ctx, `
		SELECT last_number
		FROM document_sequences
		WHERE user_id = $1 AND doc_type = $2
		FOR UPDATE`,
		userID, string(docType),
	).Scan(&last); err != nil {
		return "", dbError("lock document sequence", err)
	}

	// Sequences created after documents already existed start from the newest row.
	if last == nil {
		latest, err := latestDocumentNumber(ctx, tx, userID, docType)
		if err != nil {
			return "", err
		}
		last = &latest
	}

	next, err := NextNumber(*last, scheme)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE document_sequences
		SET last_number = $3, updated_at = NOW()
		WHERE user_id = $1 AND doc_type = $2`,
		userID, string(docType), next,
	); err != nil {
		return "", dbError("advance document sequence", err)
	}
	return next, nil
}

func (n *numberIssuer) PeekNextNumber(ctx context.Context, userID int, docType DocType) (string, error) {
	scheme, err := SchemeFor(docType)
	if err != nil {
		return "", err
	}

	var last *string
	err = n.pool.QueryRow(ctx,
		"SELECT last_number FROM document_sequences WHERE user_id = $1 AND doc_type = $2",
		userID, string(docType),
	).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", dbError("read document sequence", err)
	}
	if last == nil {
		latest, err := latestDocumentNumber(ctx, n.pool, userID, docType)
		if err != nil {
			return "", err
		}
		last = &latest
	}
	return NextNumber(*last, scheme)
}

// latestDocumentNumber returns the number of the most recently inserted document of
// the given type, or "" when the owner has none.
func latestDocumentNumber(ctx context.Context, q pgxQuerier, userID int, docType DocType) (string, error) {
	var query string
	switch docType {
	case DocTypeBill:
		query = "SELECT bill_number FROM bills WHERE user_id = $1 ORDER BY id DESC LIMIT 1"
	case DocTypeQuotation:
		query = "SELECT quotation_number FROM quotations WHERE user_id = $1 ORDER BY id DESC LIMIT 1"
	default:
		return "", fmt.Errorf("unknown document type %q", docType)
	}

	var number string
	if err := q.QueryRow(ctx, query, userID).Scan(&number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", dbError("read latest document number", err)
	}
	return number, nil
}

// itemTable names the child table of a document family. Values are constants, never
// user input, so they are safe to interpolate into SQL.
type itemTable struct {
	table    string
	parentFK string
}

var (
	billItems      = itemTable{table: "bill_items", parentFK: "bill_id"}
	quotationItems = itemTable{table: "quotation_items", parentFK: "quotation_id"}
)

// insertItemsTx batch-inserts all items for a parent row.
func insertItemsTx(ctx context.Context, tx pgx.Tx, t itemTable, parentID int, items []LineItemInput) error {
	batch := &pgx.Batch{}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, description, quantity, unit, rate)
		VALUES ($1, $2, $3, $4, $5)`, t.table, t.parentFK)
	for _, it := range items {
		batch.Queue(query, parentID, it.Description, it.Quantity, it.Unit, it.Rate)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return dbError(fmt.Sprintf("insert %s row %d", t.table, i+1), err)
		}
	}
	if err := br.Close(); err != nil {
		return dbError("close item batch", err)
	}
	return nil
}

// deleteItemsTx removes every item of a parent row.
func deleteItemsTx(ctx context.Context, tx pgx.Tx, t itemTable, parentID int) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.table, t.parentFK)
	if _, err := tx.Exec(ctx, query, parentID); err != nil {
		return dbError("delete "+t.table, err)
	}
	return nil
}

// fetchItems returns the items of a parent row in insertion order.
func fetchItems(ctx context.Context, q pgxQuerier, t itemTable, parentID int) ([]LineItem, error) {
	query := fmt.Sprintf(`
		SELECT id, description, quantity::text, unit, rate::text
		FROM %s
		WHERE %s = $1
		ORDER BY id`, t.table, t.parentFK)
	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, dbError("fetch "+t.table, err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		var qty, rate *string
		if err := rows.Scan(&it.ID, &it.Description, &qty, &it.Unit, &rate); err != nil {
			return nil, dbError("scan "+t.table, err)
		}
		it.Quantity = CoerceMoney(qty)
		it.Rate = CoerceMoney(rate)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate "+t.table, err)
	}
	return items, nil
}

// checkItemScale rejects a quantity or rate that the item columns would round.
func checkItemScale(line int, qty, rate decimal.Decimal) error {
	if !FitsScale(qty, QuantityPlaces) {
		return fmt.Errorf("%w: item %d quantity %s has more than %d decimal places", ErrInvalidInput, line, qty, QuantityPlaces)
	}
	if !FitsScale(rate, MoneyPlaces) {
		return fmt.Errorf("%w: item %d rate %s has more than %d decimal places", ErrInvalidInput, line, rate, MoneyPlaces)
	}
	return nil
}

// discountFor resolves the stored discount against the subtotal of unsaved items.
func discountFor(kind DiscountType, value decimal.Decimal, items []LineItemInput) (decimal.Decimal, *decimal.Decimal, error) {
	subtotal := decimal.Zero
	for i, it := range items {
		if err := checkItemScale(i+1, it.Quantity, it.Rate); err != nil {
			return decimal.Zero, nil, err
		}
		subtotal = subtotal.Add(it.Quantity.Mul(it.Rate))
	}
	return ResolveDiscount(kind, value, subtotal)
}
