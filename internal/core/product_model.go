package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked item. Quantity rises with purchases.
type Product struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductInput holds the editable product fields. Quantity is only honoured on create
// and on explicit stock corrections through UpdateProduct.
type ProductInput struct {
	Name         string
	Category     string
	Unit         string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Quantity     decimal.Decimal
	ReorderLevel decimal.Decimal
}

// ProductService provides product master data operations.
type ProductService interface {
	CreateProduct(ctx context.Context, userID int, in ProductInput) (*Product, error)
	// ListProducts returns products ordered by name; inactive ones only when asked.
	ListProducts(ctx context.Context, userID int, includeInactive bool) ([]Product, error)
	GetProduct(ctx context.Context, userID, productID int) (*Product, error)
	UpdateProduct(ctx context.Context, userID, productID int, in ProductInput) (*Product, error)
	// DeactivateProduct hides a product from listings and purchases. Past purchases keep
	// referencing it.
	DeactivateProduct(ctx context.Context, userID, productID int) error
}
