package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a member of staff whose attendance is tracked.
type Employee struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Position  string          `json:"position"`
	Salary    decimal.Decimal `json:"salary"`
	JoinedOn  *time.Time      `json:"joined_on,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EmployeeInput holds the fields required to create an employee.
type EmployeeInput struct {
	Name     string
	Phone    string
	Position string
	Salary   decimal.Decimal
	JoinedOn *time.Time
}

// AttendanceStatus is the recorded presence of an employee on one day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLeave   AttendanceStatus = "Leave"
	AttendanceHalfDay AttendanceStatus = "HalfDay"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLeave, AttendanceHalfDay:
		return true
	}
	return false
}

// Attendance is one employee-day record.
type Attendance struct {
	ID           int              `json:"id"`
	EmployeeID   int              `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Date         time.Time        `json:"date"`
	Status       AttendanceStatus `json:"status"`
	Note         string           `json:"note"`
}

// EmployeeService manages staff and their daily attendance.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, userID int, in EmployeeInput) (*Employee, error)
	// ListEmployees returns employees ordered by name; inactive ones only when asked.
	ListEmployees(ctx context.Context, userID int, includeInactive bool) ([]Employee, error)
	// DeactivateEmployee is a soft delete; attendance history is kept.
	DeactivateEmployee(ctx context.Context, userID, employeeID int) error

	// MarkAttendance records the status for one day, replacing any earlier record
	// for the same employee and date.
	MarkAttendance(ctx context.Context, userID, employeeID int, date time.Time, status AttendanceStatus, note string) (*Attendance, error)

	// ListAttendance returns all records in the calendar month containing month.
	ListAttendance(ctx context.Context, userID int, month time.Time) ([]Attendance, error)
}
