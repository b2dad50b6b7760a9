package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type purchaseService struct {
	pool     *pgxpool.Pool
	profiles ProfileService
}

// NewPurchaseService constructs a PurchaseService backed by PostgreSQL.
func NewPurchaseService(pool *pgxpool.Pool, profiles ProfileService) PurchaseService {
	return &purchaseService{pool: pool, profiles: profiles}
}

func (s *purchaseService) CreatePurchase(ctx context.Context, userID int, in PurchaseInput) (int, error) {
	if len(in.Items) == 0 {
		return 0, fmt.Errorf("%w: purchase must have at least one item", ErrInvalidInput)
	}
	subtotal := decimal.Zero
	for i, it := range in.Items {
		if err := checkItemScale(i+1, it.Quantity, it.Rate); err != nil {
			return 0, err
		}
		subtotal = subtotal.Add(it.Quantity.Mul(it.Rate))
	}
	if !FitsScale(in.Discount, MoneyPlaces) {
		return 0, fmt.Errorf("%w: discount %s has more than %d decimal places", ErrInvalidInput, in.Discount, MoneyPlaces)
	}
	if in.Discount.IsNegative() || in.Discount.GreaterThan(subtotal) {
		return 0, fmt.Errorf("%w: discount %s outside 0..%s", ErrInvalidInput, in.Discount.StringFixed(2), subtotal.StringFixed(2))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var purchaseID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchases (user_id, supplier_name, supplier_phone, supplier_bill_number,
		                       purchase_date, discount, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		userID, in.Supplier.Name, in.Supplier.Phone, in.SupplierBillNumber,
		in.PurchaseDate, in.Discount, in.Remarks,
	).Scan(&purchaseID); err != nil {
		return 0, dbError("insert purchase", err)
	}

	// Stock moves before the items are written so an unknown or foreign product is
	// reported as bad input rather than a foreign key failure. One product may appear
	// on several lines; each line adds on top of the last write.
	for i, it := range in.Items {
		if err := adjustStockTx(ctx, tx, userID, it.ProductID, it.Quantity); err != nil {
			return 0, fmt.Errorf("purchase item %d: %w", i+1, err)
		}
	}

	batch := &pgx.Batch{}
	for _, it := range in.Items {
		batch.Queue(`
			INSERT INTO purchase_items (purchase_id, product_id, description, quantity, unit, rate)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			purchaseID, it.ProductID, it.Description, it.Quantity, it.Unit, it.Rate,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range in.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return 0, dbError(fmt.Sprintf("insert purchase item %d", i+1), err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, dbError("close purchase item batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, dbError("commit purchase", err)
	}
	return purchaseID, nil
}

// adjustStockTx locks the product row and adds delta to its quantity.
func adjustStockTx(ctx context.Context, tx pgx.Tx, userID, productID int, delta decimal.Decimal) error {
	var current *string
	var active bool
	if err := tx.QueryRow(ctx,
		"SELECT quantity::text, is_active FROM products WHERE id = $1 AND user_id = $2 FOR UPDATE",
		productID, userID,
	).Scan(&current, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: product %d not found", ErrInvalidInput, productID)
		}
		return dbError("lock product", err)
	}
	if !active && delta.IsPositive() {
		return fmt.Errorf("%w: product %d is inactive", ErrInvalidInput, productID)
	}

	next := CoerceMoney(current).Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: product %d would drop to %s", ErrInsufficientStock, productID, next.String())
	}

	if _, err := tx.Exec(ctx,
		"UPDATE products SET quantity = $2, updated_at = NOW() WHERE id = $1",
		productID, next,
	); err != nil {
		return dbError("update product stock", err)
	}
	return nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, userID, purchaseID int) (*AssembledPurchase, error) {
	p := &Purchase{}
	var discount *string
	err := s.pool.QueryRow(ctx, `
		SELECT id, supplier_name, supplier_phone, supplier_bill_number, purchase_date,
		       discount::text, remarks, created_at
		FROM purchases
		WHERE id = $1 AND user_id = $2`,
		purchaseID, userID,
	).Scan(&p.ID, &p.Supplier.Name, &p.Supplier.Phone, &p.SupplierBillNumber, &p.PurchaseDate,
		&discount, &p.Remarks, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d: %w", purchaseID, ErrNotFound)
		}
		return nil, dbError("get purchase", err)
	}
	p.Discount = CoerceMoney(discount)

	items, err := fetchPurchaseItems(ctx, s.pool, purchaseID)
	if err != nil {
		return nil, err
	}
	p.Items = items

	company, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]LineItem, len(items))
	for i, it := range items {
		lines[i] = it.LineItem
	}
	return &AssembledPurchase{
		Purchase: p,
		Company:  company,
		Totals:   ComputeTotals(lines, p.Discount),
	}, nil
}

func fetchPurchaseItems(ctx context.Context, q pgxQuerier, purchaseID int) ([]PurchaseItem, error) {
	rows, err := q.Query(ctx, `
		SELECT pi.id, pi.product_id, p.name, pi.description, pi.quantity::text, pi.unit, pi.rate::text
		FROM purchase_items pi
		JOIN products p ON p.id = pi.product_id
		WHERE pi.purchase_id = $1
		ORDER BY pi.id`,
		purchaseID,
	)
	if err != nil {
		return nil, dbError("fetch purchase items", err)
	}
	defer rows.Close()

	var items []PurchaseItem
	for rows.Next() {
		var it PurchaseItem
		var qty, rate *string
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Description, &qty, &it.Unit, &rate); err != nil {
			return nil, dbError("scan purchase item", err)
		}
		it.Quantity = CoerceMoney(qty)
		it.Rate = CoerceMoney(rate)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate purchase items", err)
	}
	return items, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, userID int) ([]PurchaseSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.supplier_name, p.supplier_bill_number, p.purchase_date,
		       t.subtotal::text, p.discount::text
		FROM purchases p
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(quantity * rate), 0) AS subtotal
			FROM purchase_items
			WHERE purchase_id = p.id
		) t ON true
		WHERE p.user_id = $1
		ORDER BY p.purchase_date DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, dbError("list purchases", err)
	}
	defer rows.Close()

	var out []PurchaseSummary
	for rows.Next() {
		var ps PurchaseSummary
		var subtotal, discount *string
		if err := rows.Scan(&ps.ID, &ps.SupplierName, &ps.SupplierBillNumber, &ps.PurchaseDate, &subtotal, &discount); err != nil {
			return nil, dbError("scan purchase", err)
		}
		ps.Totals = TotalsFrom(CoerceMoney(subtotal), CoerceMoney(discount))
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate purchases", err)
	}
	return out, nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, userID, purchaseID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return dbError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM purchases WHERE id = $1 AND user_id = $2)",
		purchaseID, userID,
	).Scan(&exists); err != nil {
		return dbError("check purchase", err)
	}
	if !exists {
		return fmt.Errorf("purchase %d: %w", purchaseID, ErrNotFound)
	}

	items, err := fetchPurchaseItems(ctx, tx, purchaseID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := adjustStockTx(ctx, tx, userID, it.ProductID, it.Quantity.Neg()); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM purchase_items WHERE purchase_id = $1", purchaseID); err != nil {
		return dbError("delete purchase items", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM purchases WHERE id = $1 AND user_id = $2", purchaseID, userID); err != nil {
		return dbError("delete purchase", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("commit purchase delete", err)
	}
	return nil
}
