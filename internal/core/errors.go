package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a referenced row does not exist for the owner.
	ErrNotFound = errors.New("not found")

	// ErrDatabase marks failures of the store itself: connection loss, constraint
	// violations, deadlocks. Callers surface it as a generic message.
	ErrDatabase = errors.New("database error")

	// ErrMalformedNumber is returned when the last issued document number carries the
	// expected prefix but its numeric part cannot be parsed.
	ErrMalformedNumber = errors.New("malformed document number")

	// ErrInvalidInput is returned for values that pass structural validation but are
	// inconsistent with stored state (discount above subtotal, unknown product).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientStock is returned when a stock decrement would go negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicate is returned when a unique business key already exists.
	ErrDuplicate = errors.New("already exists")
)

// dbError wraps a driver error so that errors.Is(err, ErrDatabase) holds while the
// original cause stays reachable for logging.
func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDatabase, err)
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
