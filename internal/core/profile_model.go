package core

import (
	"context"
	"time"
)

// CompanyProfile is the letterhead printed on the owner's documents.
type CompanyProfile struct {
	UserID    int       `json:"-"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	PANNumber string    `json:"pan_number"`
	VATNumber string    `json:"vat_number"`
	LogoPath  string    `json:"logo_path,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyProfileInput holds the editable profile fields.
type CompanyProfileInput struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	PANNumber string
	VATNumber string
}

// ProfileCache stores assembled profiles between reads. Implementations must treat
// every failure as a miss; the database stays the source of truth.
type ProfileCache interface {
	Get(ctx context.Context, userID int) (*CompanyProfile, bool)
	Set(ctx context.Context, p *CompanyProfile)
	Invalidate(ctx context.Context, userID int)
}

// NopProfileCache is used when no cache is configured.
type NopProfileCache struct{}

func (NopProfileCache) Get(context.Context, int) (*CompanyProfile, bool) { return nil, false }
func (NopProfileCache) Set(context.Context, *CompanyProfile)             {}
func (NopProfileCache) Invalidate(context.Context, int)                  {}

// ProfileService manages the owner's company profile.
type ProfileService interface {
	// GetProfile returns the owner's profile. An owner who never saved one gets an
	// empty profile rather than an error so that documents can still be assembled.
	GetProfile(ctx context.Context, userID int) (*CompanyProfile, error)

	// UpsertProfile creates or replaces the editable profile fields.
	UpsertProfile(ctx context.Context, userID int, in CompanyProfileInput) (*CompanyProfile, error)

	// SetLogo records the stored path of the owner's logo.
	SetLogo(ctx context.Context, userID int, path string) error
}
