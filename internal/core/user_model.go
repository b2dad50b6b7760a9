package core

import (
	"context"
	"time"
)

// User is an account owning its own bills, stock and profile.
type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// UserService provides user lookup and registration.
type UserService interface {
	// CreateUser stores a new account. The password must already be hashed.
	// A taken email yields ErrDuplicate.
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)

	// GetByEmail finds an active user by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)
}
