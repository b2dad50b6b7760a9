package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Supplier identifies who a purchase was made from.
type Supplier struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Purchase records goods bought from a supplier. Creating one raises product stock.
type Purchase struct {
	ID                 int             `json:"id"`
	Supplier           Supplier        `json:"supplier"`
	SupplierBillNumber string          `json:"supplier_bill_number"`
	PurchaseDate       time.Time       `json:"purchase_date"`
	Discount           decimal.Decimal `json:"discount"`
	Remarks            string          `json:"remarks"`
	CreatedAt          time.Time       `json:"created_at"`
	Items              []PurchaseItem  `json:"items"`
}

// PurchaseItem is a line item tied to the product whose stock it raised.
type PurchaseItem struct {
	LineItem
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
}

// PurchaseItemInput holds the fields required to record one purchased product.
type PurchaseItemInput struct {
	ProductID   int
	Description string
	Quantity    decimal.Decimal
	Unit        string
	Rate        decimal.Decimal
}

// PurchaseInput holds the fields required to record a purchase.
type PurchaseInput struct {
	Supplier           Supplier
	SupplierBillNumber string
	PurchaseDate       time.Time
	Discount           decimal.Decimal
	Remarks            string
	Items              []PurchaseItemInput
}

// PurchaseSummary is one row of a purchase listing.
type PurchaseSummary struct {
	ID                 int       `json:"id"`
	SupplierName       string    `json:"supplier_name"`
	SupplierBillNumber string    `json:"supplier_bill_number"`
	PurchaseDate       time.Time `json:"purchase_date"`
	Totals             Totals    `json:"totals"`
}

// AssembledPurchase is the canonical view of a persisted purchase.
type AssembledPurchase struct {
	Purchase *Purchase       `json:"purchase"`
	Company  *CompanyProfile `json:"company"`
	Totals   Totals          `json:"totals"`
}

// PurchaseService records purchases and keeps product stock in step with them.
type PurchaseService interface {
	// CreatePurchase persists the purchase and its items and adds every item quantity
	// to its product's stock, all in one transaction.
	CreatePurchase(ctx context.Context, userID int, in PurchaseInput) (int, error)
	GetPurchase(ctx context.Context, userID, purchaseID int) (*AssembledPurchase, error)
	ListPurchases(ctx context.Context, userID int) ([]PurchaseSummary, error)
	// DeletePurchase removes the purchase and takes its quantities back out of stock.
	// It fails with ErrInsufficientStock if that would leave a product negative.
	DeletePurchase(ctx context.Context, userID, purchaseID int) error
}
