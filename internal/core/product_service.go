package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = `id, name, category, unit, cost_price::text, selling_price::text,
	quantity::text, reorder_level::text, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	var cost, price, qty, reorder *string
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &cost, &price,
		&qty, &reorder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CostPrice = CoerceMoney(cost)
	p.SellingPrice = CoerceMoney(price)
	p.Quantity = CoerceMoney(qty)
	p.ReorderLevel = CoerceMoney(reorder)
	p.LowStock = p.Quantity.LessThanOrEqual(p.ReorderLevel)
	return p, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID int, in ProductInput) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (user_id, name, category, unit, cost_price, selling_price, quantity, reorder_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		userID, in.Name, in.Category, in.Unit, in.CostPrice, in.SellingPrice, in.Quantity, in.ReorderLevel,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("product %q: %w", in.Name, ErrDuplicate)
		}
		return nil, dbError("create product", err)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, userID int, includeInactive bool) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE user_id = $1"
	if !includeInactive {
		query += " AND is_active = true"
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dbError("list products", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, dbError("scan product", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate products", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, userID, productID int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 AND user_id = $2",
		productID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, dbError("get product", err)
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID, productID int, in ProductInput) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $3, category = $4, unit = $5, cost_price = $6, selling_price = $7,
		    quantity = $8, reorder_level = $9, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+productColumns,
		productID, userID, in.Name, in.Category, in.Unit, in.CostPrice, in.SellingPrice,
		in.Quantity, in.ReorderLevel,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("product %q: %w", in.Name, ErrDuplicate)
		}
		return nil, dbError("update product", err)
	}
	return p, nil
}

func (s *productService) DeactivateProduct(ctx context.Context, userID, productID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1 AND user_id = $2",
		productID, userID,
	)
	if err != nil {
		return dbError("deactivate product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return nil
}
