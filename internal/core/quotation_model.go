package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quotation is a priced offer to a client. It carries no payment status.
type Quotation struct {
	ID              int              `json:"id"`
	Number          string           `json:"quotation_number"`
	Client          Client           `json:"client"`
	QuotationDate   time.Time        `json:"quotation_date"`
	Discount        decimal.Decimal  `json:"discount"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	Remarks         string           `json:"remarks"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Items           []LineItem       `json:"items"`
}

// QuotationInput holds the fields required to create or replace a quotation.
type QuotationInput struct {
	Client        Client
	QuotationDate time.Time
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	Remarks       string
	Items         []LineItemInput
}

// QuotationSummary is one row of a quotation listing.
type QuotationSummary struct {
	ID            int       `json:"id"`
	Number        string    `json:"quotation_number"`
	ClientName    string    `json:"client_name"`
	QuotationDate time.Time `json:"quotation_date"`
	Totals        Totals    `json:"totals"`
}

// AssembledQuotation is the canonical view of a persisted quotation.
type AssembledQuotation struct {
	Quotation *Quotation      `json:"quotation"`
	Company   *CompanyProfile `json:"company"`
	Totals    Totals          `json:"totals"`
}

// QuotationService provides the quotation lifecycle.
type QuotationService interface {
	CreateQuotation(ctx context.Context, userID int, in QuotationInput) (int, error)
	GetQuotation(ctx context.Context, userID, quotationID int) (*AssembledQuotation, error)
	// ListQuotations returns summaries, newest first; search matches number or client name.
	ListQuotations(ctx context.Context, userID int, search string) ([]QuotationSummary, error)
	UpdateQuotation(ctx context.Context, userID, quotationID int, in QuotationInput) error
	DeleteQuotation(ctx context.Context, userID, quotationID int) error
	NextQuotationNumber(ctx context.Context, userID int) (string, error)
}
