// seed creates a demo account with a company profile and a few products.
// It is safe to run more than once; an existing account is left untouched.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"

	"arthavidhi/internal/app"
	"arthavidhi/internal/config"
	"arthavidhi/internal/db"
	"arthavidhi/internal/logging"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()

	svc := app.NewAppService(app.NewServices(pool, nil), nil, nil, logger)

	email := getEnv("SEED_EMAIL", "demo@arthavidhi.local")
	password := getEnv("SEED_PASSWORD", "demo-password")

	if _, err := svc.LookupUser(ctx, email); err == nil {
		log.Printf("[SKIP] %s already exists", email)
		return
	}

	session, err := svc.Register(ctx, app.RegisterRequest{Name: "Demo Owner", Email: email, Password: password})
	if err != nil {
		log.Fatalf("[USER] %s", app.PublicMessage(err))
	}
	log.Printf("[USER] created %s (id %d)", session.Email, session.UserID)

	_, err = svc.UpdateProfile(ctx, session.UserID, app.ProfileRequest{
		Name:      "Demo Traders",
		Address:   "New Road, Kathmandu",
		Phone:     "01-4200000",
		Email:     email,
		PANNumber: "600000001",
		VATNumber: "600000001",
	})
	if err != nil {
		log.Fatalf("[PROFILE] %s", app.PublicMessage(err))
	}

	products := []app.ProductRequest{
		{Name: "Printer Paper A4", Category: "Stationery", Unit: "ream", CostPrice: decimal.NewFromInt(450), SellingPrice: decimal.NewFromInt(550), Quantity: decimal.NewFromInt(40), ReorderLevel: decimal.NewFromInt(10)},
		{Name: "Toner Cartridge", Category: "Supplies", Unit: "pcs", CostPrice: decimal.NewFromInt(3200), SellingPrice: decimal.NewFromInt(4000), Quantity: decimal.NewFromInt(8), ReorderLevel: decimal.NewFromInt(2)},
		{Name: "Installation Service", Category: "Services", Unit: "hour", SellingPrice: decimal.NewFromInt(1500)},
	}
	for _, p := range products {
		if _, err := svc.CreateProduct(ctx, session.UserID, p); err != nil {
			log.Fatalf("[PRODUCT] %s: %s", p.Name, app.PublicMessage(err))
		}
	}
	log.Printf("[DONE] seeded %d products", len(products))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
