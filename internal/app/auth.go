package app

import (
	"context"
	"errors"
	"strings"

	"arthavidhi/internal/core"
	"arthavidhi/internal/logging"

	"golang.org/x/crypto/bcrypt"
)

func (s *appService) Register(ctx context.Context, req RegisterRequest) (*UserSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, s.fail("Register", nil, err)
	}
	u, err := s.svc.Users.CreateUser(ctx, strings.TrimSpace(req.Name), req.Email, string(hash))
	if err != nil {
		if errors.Is(err, core.ErrDuplicate) {
			return nil, invalid("email", "is already registered")
		}
		return nil, s.fail("Register", map[string]string{"email": req.Email}, err)
	}
	return &UserSession{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (s *appService) AuthenticateUser(ctx context.Context, req LoginRequest) (*UserSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.svc.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			logging.LogError(s.logger, "app", "AuthenticateUser", "user lookup failed", map[string]string{"email": req.Email}, err)
		}
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &UserSession{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	u, err := s.svc.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.fail("GetUser", map[string]int{"user_id": userID}, err)
	}
	p, err := s.svc.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.fail("GetUser", map[string]int{"user_id": userID}, err)
	}
	return &UserResult{UserID: u.ID, Name: u.Name, Email: u.Email, Company: p}, nil
}

func (s *appService) LookupUser(ctx context.Context, email string) (*UserSession, error) {
	u, err := s.svc.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.fail("LookupUser", map[string]string{"email": email}, err)
	}
	return &UserSession{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}
