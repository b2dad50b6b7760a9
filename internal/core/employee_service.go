package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type employeeService struct {
	pool *pgxpool.Pool
}

// NewEmployeeService constructs an EmployeeService backed by PostgreSQL.
func NewEmployeeService(pool *pgxpool.Pool) EmployeeService {
	return &employeeService{pool: pool}
}

const employeeColumns = "id, name, phone, position, salary::text, joined_on, is_active, created_at, updated_at"

func scanEmployee(row pgx.Row) (*Employee, error) {
	e := &Employee{}
	var salary *string
	if err := row.Scan(&e.ID, &e.Name, &e.Phone, &e.Position, &salary, &e.JoinedOn,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Salary = CoerceMoney(salary)
	return e, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, userID int, in EmployeeInput) (*Employee, error) {
	e, err := scanEmployee(s.pool.QueryRow(ctx, `
		INSERT INTO employees (user_id, name, phone, position, salary, joined_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+employeeColumns,
		userID, in.Name, in.Phone, in.Position, in.Salary, in.JoinedOn,
	))
	if err != nil {
		return nil, dbError("create employee", err)
	}
	return e, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, userID int, includeInactive bool) ([]Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE user_id = $1"
	if !includeInactive {
		query += " AND is_active = true"
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dbError("list employees", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, dbError("scan employee", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate employees", err)
	}
	return out, nil
}

func (s *employeeService) DeactivateEmployee(ctx context.Context, userID, employeeID int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE employees SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`,
		employeeID, userID,
	)
	if err != nil {
		return dbError("deactivate employee", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
	}
	return nil
}

func (s *employeeService) MarkAttendance(ctx context.Context, userID, employeeID int, date time.Time, status AttendanceStatus, note string) (*Attendance, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown attendance status %q", ErrInvalidInput, status)
	}

	// The owner check and the upsert are one statement: no row comes back when the
	// employee belongs to someone else or is inactive.
	a := &Attendance{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO attendance (employee_id, attendance_date, status, note)
		SELECT e.id, $3, $4, $5
		FROM employees e
		WHERE e.id = $1 AND e.user_id = $2 AND e.is_active
		ON CONFLICT (employee_id, attendance_date)
		DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note
		RETURNING id, employee_id, attendance_date, status, note`,
		employeeID, userID, date, string(status), note,
	).Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.Note)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
		}
		return nil, dbError("mark attendance", err)
	}
	return a, nil
}

func (s *employeeService) ListAttendance(ctx context.Context, userID int, month time.Time) ([]Attendance, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.employee_id, e.name, a.attendance_date, a.status, a.note
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE e.user_id = $1 AND a.attendance_date >= $2 AND a.attendance_date < $3
		ORDER BY a.attendance_date, e.name`,
		userID, start, end,
	)
	if err != nil {
		return nil, dbError("list attendance", err)
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Date, &a.Status, &a.Note); err != nil {
			return nil, dbError("scan attendance", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate attendance", err)
	}
	return out, nil
}
