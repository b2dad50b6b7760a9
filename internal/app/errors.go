package app

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"arthavidhi/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrorKind is the caller-facing category of a failed operation.
type ErrorKind int

const (
	KindDatabase ErrorKind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindUnavailable
)

var (
	// ErrInvalidCredentials is returned by AuthenticateUser for any login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnavailable is returned when an optional integration is not configured.
	ErrUnavailable = errors.New("feature not configured")
)

// ValidationError reports rejected input. Fields maps a JSON field path such as
// "items[0].quantity" to a human-readable problem.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func invalid(field, problem string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: problem}}
}

// Classify maps an error returned by ApplicationService to its category.
// Anything unrecognised is treated as a database failure.
func Classify(err error) ErrorKind {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, core.ErrNotFound):
		return KindNotFound
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrInsufficientStock),
		errors.Is(err, core.ErrDuplicate):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	}
	return KindDatabase
}

// PublicMessage is the text safe to show a caller for err. Database failures never
// leak driver detail.
func PublicMessage(err error) string {
	switch Classify(err) {
	case KindValidation:
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Message
		}
		// core validation sentinels are wrapped as "<sentinel>: <detail>"
		msg := err.Error()
		for _, sentinel := range []error{core.ErrInvalidInput, core.ErrInsufficientStock} {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
		return msg
	case KindNotFound:
		return notFoundMessage(err)
	case KindUnauthorized:
		return ErrInvalidCredentials.Error()
	case KindUnavailable:
		return err.Error()
	}
	return core.ErrDatabase.Error()
}

// notFoundMessage turns "bill 7: not found" into "bill not found".
func notFoundMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexAny(msg, " :"); i > 0 {
		return msg[:i] + " not found"
	}
	return "not found"
}

// FieldErrors returns the per-field problems of a validation error, or nil.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Decimal fields are validated through their float value so gt/gte tags apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// scale=N bounds the decimal places of a decimal field to its column scale.
	_ = v.RegisterValidation("scale", func(fl validator.FieldLevel) bool {
		places, err := strconv.ParseInt(fl.Param(), 10, 32)
		if err != nil {
			return false
		}
		raw := reflect.Indirect(fl.Parent()).FieldByName(fl.StructFieldName())
		d, ok := raw.Interface().(decimal.Decimal)
		if !ok {
			return true
		}
		return core.FitsScale(d, int32(places))
	})
	return v
}

// validateRequest runs struct validation and converts failures into a ValidationError.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = problem(fe)
	}
	return &ValidationError{Message: "validation failed", Fields: fields}
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func problem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must have at least " + fe.Param() + " entries"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "scale":
		return "must have at most " + fe.Param() + " decimal places"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	}
	return "is invalid (" + fe.Tag() + ")"
}
