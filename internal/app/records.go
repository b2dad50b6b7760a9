package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"arthavidhi/internal/core"
	"arthavidhi/internal/storage"
)

// ── Products ─────────────────────────────────────────────────────────────────

func toProductInput(req ProductRequest) (core.ProductInput, error) {
	if err := validateRequest(req); err != nil {
		return core.ProductInput{}, err
	}
	return core.ProductInput{
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Unit:         req.Unit,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
	}, nil
}

func (s *appService) CreateProduct(ctx context.Context, userID int, req ProductRequest) (*Result, error) {
	in, err := toProductInput(req)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Products.CreateProduct(ctx, userID, in)
	if err != nil {
		return nil, s.fail("CreateProduct", map[string]any{"user_id": userID, "name": in.Name}, err)
	}
	return ok(fmt.Sprintf("Product %s created", p.Name), p), nil
}

func (s *appService) ListProducts(ctx context.Context, userID int, includeInactive bool) ([]core.Product, error) {
	list, err := s.svc.Products.ListProducts(ctx, userID, includeInactive)
	if err != nil {
		return nil, s.fail("ListProducts", map[string]int{"user_id": userID}, err)
	}
	return list, nil
}

func (s *appService) GetProduct(ctx context.Context, userID, productID int) (*core.Product, error) {
	p, err := s.svc.Products.GetProduct(ctx, userID, productID)
	if err != nil {
		return nil, s.fail("GetProduct", map[string]int{"product_id": productID}, err)
	}
	return p, nil
}

func (s *appService) UpdateProduct(ctx context.Context, userID, productID int, req ProductRequest) (*Result, error) {
	in, err := toProductInput(req)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Products.UpdateProduct(ctx, userID, productID, in)
	if err != nil {
		return nil, s.fail("UpdateProduct", map[string]int{"product_id": productID}, err)
	}
	return ok(fmt.Sprintf("Product %s updated", p.Name), p), nil
}

func (s *appService) DeactivateProduct(ctx context.Context, userID, productID int) (*Result, error) {
	if err := s.svc.Products.DeactivateProduct(ctx, userID, productID); err != nil {
		return nil, s.fail("DeactivateProduct", map[string]int{"product_id": productID}, err)
	}
	return ok("Product deactivated", nil), nil
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (s *appService) CreateExpense(ctx context.Context, userID int, req ExpenseRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate("expense_date", req.ExpenseDate)
	if err != nil {
		return nil, err
	}
	e, err := s.svc.Expenses.CreateExpense(ctx, userID, core.ExpenseInput{
		Title:       strings.TrimSpace(req.Title),
		Category:    req.Category,
		Amount:      req.Amount,
		ExpenseDate: date,
		Remarks:     req.Remarks,
	})
	if err != nil {
		return nil, s.fail("CreateExpense", map[string]int{"user_id": userID}, err)
	}
	return ok("Expense recorded", e), nil
}

func toExpenseFilter(q ExpenseListQuery) (core.ExpenseFilter, error) {
	var f core.ExpenseFilter
	if err := validateRequest(q); err != nil {
		return f, err
	}
	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		return f, err
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		return f, err
	}
	return core.ExpenseFilter{Category: q.Category, From: from, To: to}, nil
}

func (s *appService) ListExpenses(ctx context.Context, userID int, q ExpenseListQuery) ([]core.Expense, error) {
	f, err := toExpenseFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := s.svc.Expenses.ListExpenses(ctx, userID, f)
	if err != nil {
		return nil, s.fail("ListExpenses", q, err)
	}
	return list, nil
}

func (s *appService) DeleteExpense(ctx context.Context, userID, expenseID int) (*Result, error) {
	if err := s.svc.Expenses.DeleteExpense(ctx, userID, expenseID); err != nil {
		return nil, s.fail("DeleteExpense", map[string]int{"expense_id": expenseID}, err)
	}
	return ok("Expense deleted", nil), nil
}

func (s *appService) AttachReceipt(ctx context.Context, userID, expenseID int, image io.Reader) (*Result, error) {
	rel, err := s.saveImage(storage.Receipt, userID, image)
	if err != nil {
		return nil, err
	}
	previous, err := s.svc.Expenses.AttachReceipt(ctx, userID, expenseID, rel)
	if err != nil {
		_ = s.uploads.Remove(rel)
		return nil, s.fail("AttachReceipt", map[string]int{"expense_id": expenseID}, err)
	}
	if previous != "" {
		if err := s.uploads.Remove(previous); err != nil {
			s.logger.WithError(err).WithField("path", previous).Warn("old receipt not removed")
		}
	}
	return ok("Receipt attached", map[string]string{"receipt_path": rel}), nil
}

// saveImage stores an uploaded image, reporting undecodable input as a field error.
func (s *appService) saveImage(kind storage.Kind, userID int, image io.Reader) (string, error) {
	if s.uploads == nil {
		return "", s.fail("saveImage", nil, errNoUploads)
	}
	rel, err := s.uploads.SaveImage(kind, userID, image)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return "", invalid("file", "must be a PNG, JPEG or GIF image")
		}
		return "", s.fail("saveImage", map[string]any{"user_id": userID, "dir": kind.Dir}, err)
	}
	return rel, nil
}

// ── Employees ────────────────────────────────────────────────────────────────

func (s *appService) CreateEmployee(ctx context.Context, userID int, req EmployeeRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	joined, err := parseOptionalDate("joined_on", req.JoinedOn)
	if err != nil {
		return nil, err
	}
	e, err := s.svc.Employees.CreateEmployee(ctx, userID, core.EmployeeInput{
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Position: req.Position,
		Salary:   req.Salary,
		JoinedOn: joined,
	})
	if err != nil {
		return nil, s.fail("CreateEmployee", map[string]int{"user_id": userID}, err)
	}
	return ok(fmt.Sprintf("Employee %s added", e.Name), e), nil
}

func (s *appService) ListEmployees(ctx context.Context, userID int, includeInactive bool) ([]core.Employee, error) {
	list, err := s.svc.Employees.ListEmployees(ctx, userID, includeInactive)
	if err != nil {
		return nil, s.fail("ListEmployees", map[string]int{"user_id": userID}, err)
	}
	return list, nil
}

func (s *appService) DeactivateEmployee(ctx context.Context, userID, employeeID int) (*Result, error) {
	if err := s.svc.Employees.DeactivateEmployee(ctx, userID, employeeID); err != nil {
		return nil, s.fail("DeactivateEmployee", map[string]int{"employee_id": employeeID}, err)
	}
	return ok("Employee deactivated", nil), nil
}

func (s *appService) MarkAttendance(ctx context.Context, userID, employeeID int, req AttendanceRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	a, err := s.svc.Employees.MarkAttendance(ctx, userID, employeeID, date, core.AttendanceStatus(req.Status), req.Note)
	if err != nil {
		return nil, s.fail("MarkAttendance", map[string]int{"employee_id": employeeID}, err)
	}
	return ok("Attendance recorded", a), nil
}

func (s *appService) ListAttendance(ctx context.Context, userID int, month string) ([]core.Attendance, error) {
	m := s.now()
	if month != "" {
		var err error
		if m, err = time.Parse("2006-01", month); err != nil {
			return nil, invalid("month", "must be in YYYY-MM format")
		}
	}
	list, err := s.svc.Employees.ListAttendance(ctx, userID, m)
	if err != nil {
		return nil, s.fail("ListAttendance", map[string]any{"user_id": userID, "month": month}, err)
	}
	return list, nil
}

// ── Profile ──────────────────────────────────────────────────────────────────

func (s *appService) GetProfile(ctx context.Context, userID int) (*core.CompanyProfile, error) {
	p, err := s.svc.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.fail("GetProfile", map[string]int{"user_id": userID}, err)
	}
	return p, nil
}

func (s *appService) UpdateProfile(ctx context.Context, userID int, req ProfileRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.svc.Profiles.UpsertProfile(ctx, userID, core.CompanyProfileInput{
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		PANNumber: req.PANNumber,
		VATNumber: req.VATNumber,
	})
	if err != nil {
		return nil, s.fail("UpdateProfile", map[string]int{"user_id": userID}, err)
	}
	return ok("Profile saved", p), nil
}

func (s *appService) UploadLogo(ctx context.Context, userID int, image io.Reader) (*Result, error) {
	old, err := s.svc.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.fail("UploadLogo", map[string]int{"user_id": userID}, err)
	}
	rel, err := s.saveImage(storage.Logo, userID, image)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Profiles.SetLogo(ctx, userID, rel); err != nil {
		_ = s.uploads.Remove(rel)
		return nil, s.fail("UploadLogo", map[string]int{"user_id": userID}, err)
	}
	if old.LogoPath != "" {
		if err := s.uploads.Remove(old.LogoPath); err != nil {
			s.logger.WithError(err).WithField("path", old.LogoPath).Warn("old logo not removed")
		}
	}
	return ok("Logo updated", map[string]string{"logo_path": rel}), nil
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func (s *appService) GetDashboard(ctx context.Context, userID int, q DashboardQuery) (*core.Dashboard, error) {
	if err := validateRequest(q); err != nil {
		return nil, err
	}
	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		return nil, err
	}
	d, err := s.svc.Dashboard.GetDashboard(ctx, userID, core.DashboardRange{From: from, To: to})
	if err != nil {
		return nil, s.fail("GetDashboard", map[string]int{"user_id": userID}, err)
	}
	return d, nil
}
