package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileService struct {
	pool  *pgxpool.Pool
	cache ProfileCache
}

// NewProfileService constructs a ProfileService. cache may be nil.
func NewProfileService(pool *pgxpool.Pool, cache ProfileCache) ProfileService {
	if cache == nil {
		cache = NopProfileCache{}
	}
	return &profileService{pool: pool, cache: cache}
}

func (s *profileService) GetProfile(ctx context.Context, userID int) (*CompanyProfile, error) {
	if p, ok := s.cache.Get(ctx, userID); ok {
		return p, nil
	}

	p, err := fetchProfile(ctx, s.pool, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, userID int, in CompanyProfileInput) (*CompanyProfile, error) {
	p := &CompanyProfile{UserID: userID}
	var logo *string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO company_profiles (user_id, name, address, phone, email, pan_number, vat_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
		    email = EXCLUDED.email, pan_number = EXCLUDED.pan_number,
		    vat_number = EXCLUDED.vat_number, updated_at = NOW()
		RETURNING name, address, phone, email, pan_number, vat_number, logo_path, updated_at`,
		userID, in.Name, in.Address, in.Phone, in.Email, in.PANNumber, in.VATNumber,
	).Scan(&p.Name, &p.Address, &p.Phone, &p.Email, &p.PANNumber, &p.VATNumber, &logo, &p.UpdatedAt)
	if err != nil {
		return nil, dbError("upsert company profile", err)
	}
	if logo != nil {
		p.LogoPath = *logo
	}
	s.cache.Invalidate(ctx, userID)
	return p, nil
}

func (s *profileService) SetLogo(ctx context.Context, userID int, path string) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO company_profiles (user_id, logo_path)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET logo_path = EXCLUDED.logo_path, updated_at = NOW()`,
		userID, path,
	); err != nil {
		return dbError("set company logo", err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

func fetchProfile(ctx context.Context, q pgxQuerier, userID int) (*CompanyProfile, error) {
	p := &CompanyProfile{UserID: userID}
	var logo *string
	err := q.QueryRow(ctx, `
		SELECT name, address, phone, email, pan_number, vat_number, logo_path, updated_at
		FROM company_profiles
		WHERE user_id = $1`,
		userID,
	).Scan(&p.Name, &p.Address, &p.Phone, &p.Email, &p.PANNumber, &p.VATNumber, &logo, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, nil
		}
		return nil, dbError("fetch company profile", err)
	}
	if logo != nil {
		p.LogoPath = *logo
	}
	return p, nil
}
