package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
)

func TestPurchase_StockLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	chair, err := s.products.CreateProduct(ctx, 1, core.ProductInput{
		Name:         "Chair",
		Unit:         "pcs",
		CostPrice:    decimal.NewFromInt(2500),
		SellingPrice: decimal.NewFromInt(4000),
		Quantity:     decimal.NewFromInt(3),
		ReorderLevel: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if !chair.LowStock {
		t.Error("expected chair to start below its reorder level")
	}
	table, err := s.products.CreateProduct(ctx, 1, core.ProductInput{Name: "Table", Unit: "pcs"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	t.Run("DuplicateProductName_Fails", func(t *testing.T) {
		_, err := s.products.CreateProduct(ctx, 1, core.ProductInput{Name: "Chair"})
		if !errors.Is(err, core.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	var purchaseID int
	t.Run("CreatePurchase_RaisesStock", func(t *testing.T) {
		purchaseID, err = s.purchases.CreatePurchase(ctx, 1, core.PurchaseInput{
			Supplier:     core.Supplier{Name: "Himal Furniture"},
			PurchaseDate: time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC),
			Discount:     decimal.NewFromInt(100),
			Items: []core.PurchaseItemInput{
				{ProductID: chair.ID, Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromInt(2500)},
				{ProductID: table.ID, Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(6000)},
				// same product twice accumulates
				{ProductID: chair.ID, Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(2500)},
			},
		})
		if err != nil {
			t.Fatalf("CreatePurchase: %v", err)
		}

		got, err := s.products.GetProduct(ctx, 1, chair.ID)
		if err != nil {
			t.Fatalf("GetProduct: %v", err)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(8)) {
			t.Errorf("chair stock = %s, want 8", got.Quantity)
		}
		if got.LowStock {
			t.Error("chair should no longer be low on stock")
		}

		p, err := s.purchases.GetPurchase(ctx, 1, purchaseID)
		if err != nil {
			t.Fatalf("GetPurchase: %v", err)
		}
		if len(p.Purchase.Items) != 3 || p.Purchase.Items[0].ProductName != "Chair" {
			t.Errorf("unexpected items: %+v", p.Purchase.Items)
		}
		// 12500 + 12000 - 100 = 24400, plus 13% VAT
		if !p.Totals.Total.Equal(decimal.RequireFromString("27572")) {
			t.Errorf("purchase total = %s, want 27572", p.Totals.Total)
		}
	})

	t.Run("UnknownProduct_RollsBack", func(t *testing.T) {
		_, err := s.purchases.CreatePurchase(ctx, 1, core.PurchaseInput{
			Supplier:     core.Supplier{Name: "Himal Furniture"},
			PurchaseDate: time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
			Items: []core.PurchaseItemInput{
				{ProductID: table.ID, Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(6000)},
				{ProductID: 99999, Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1)},
			},
		})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for unknown product, got %v", err)
		}
		got, err := s.products.GetProduct(ctx, 1, table.ID)
		if err != nil {
			t.Fatalf("GetProduct: %v", err)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(2)) {
			t.Errorf("table stock = %s after failed purchase, want 2", got.Quantity)
		}
	})

	t.Run("OtherOwnersProduct_Rejected", func(t *testing.T) {
		_, err := s.purchases.CreatePurchase(ctx, 2, core.PurchaseInput{
			Supplier:     core.Supplier{Name: "Someone"},
			PurchaseDate: time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
			Items: []core.PurchaseItemInput{
				{ProductID: chair.ID, Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1)},
			},
		})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ListPurchases", func(t *testing.T) {
		list, err := s.purchases.ListPurchases(ctx, 1)
		if err != nil {
			t.Fatalf("ListPurchases: %v", err)
		}
		if len(list) != 1 || list[0].SupplierName != "Himal Furniture" {
			t.Errorf("unexpected purchases: %+v", list)
		}
	})

	t.Run("DeletePurchase_RestoresStock", func(t *testing.T) {
		if err := s.purchases.DeletePurchase(ctx, 1, purchaseID); err != nil {
			t.Fatalf("DeletePurchase: %v", err)
		}
		got, err := s.products.GetProduct(ctx, 1, chair.ID)
		if err != nil {
			t.Fatalf("GetProduct: %v", err)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(3)) {
			t.Errorf("chair stock = %s after delete, want 3", got.Quantity)
		}
		if _, err := s.purchases.GetPurchase(ctx, 1, purchaseID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestProfile_UpsertFeedsDocuments(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	if _, err := s.profiles.UpsertProfile(ctx, 1, core.CompanyProfileInput{Name: "Arun Furniture", VATNumber: "301234567"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	bill := mustCreateBill(t, s.bills, 1)
	if bill.Company.Name != "Arun Furniture" || bill.Company.VATNumber != "301234567" {
		t.Errorf("company block = %+v", bill.Company)
	}
	if err := s.profiles.SetLogo(ctx, 1, "logos/1/a.png"); err != nil {
		t.Fatalf("SetLogo: %v", err)
	}
	p, err := s.profiles.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.LogoPath != "logos/1/a.png" {
		t.Errorf("logo path = %q", p.LogoPath)
	}
}
