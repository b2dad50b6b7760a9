package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
)

func TestExpense_CreateListDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewExpenseService(pool)
	ctx := context.Background()

	april := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)

	rent, err := svc.CreateExpense(ctx, 1, core.ExpenseInput{Title: "Shop rent", Category: "Rent", Amount: decimal.NewFromInt(15000), ExpenseDate: april})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, 1, core.ExpenseInput{Title: "Tea", Category: "Misc", Amount: decimal.NewFromInt(200), ExpenseDate: may}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	t.Run("ZeroAmount_Fails", func(t *testing.T) {
		_, err := svc.CreateExpense(ctx, 1, core.ExpenseInput{Title: "Nothing", ExpenseDate: april})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Filters", func(t *testing.T) {
		list, err := svc.ListExpenses(ctx, 1, core.ExpenseFilter{Category: "Rent"})
		if err != nil {
			t.Fatalf("ListExpenses: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Shop rent" {
			t.Errorf("category filter returned %+v", list)
		}

		from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		list, err = svc.ListExpenses(ctx, 1, core.ExpenseFilter{From: &from})
		if err != nil {
			t.Fatalf("ListExpenses: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Tea" {
			t.Errorf("date filter returned %+v", list)
		}

		if list, _ := svc.ListExpenses(ctx, 2, core.ExpenseFilter{}); len(list) != 0 {
			t.Errorf("other owner sees %d expenses", len(list))
		}
	})

	t.Run("AttachReceipt_ReturnsPrevious", func(t *testing.T) {
		prev, err := svc.AttachReceipt(ctx, 1, rent.ID, "receipts/1/a.jpg")
		if err != nil || prev != "" {
			t.Fatalf("first AttachReceipt = %q, %v", prev, err)
		}
		prev, err = svc.AttachReceipt(ctx, 1, rent.ID, "receipts/1/b.jpg")
		if err != nil || prev != "receipts/1/a.jpg" {
			t.Errorf("second AttachReceipt = %q, %v", prev, err)
		}
		if _, err := svc.AttachReceipt(ctx, 2, rent.ID, "receipts/2/c.jpg"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound for other owner, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := svc.DeleteExpense(ctx, 1, rent.ID); err != nil {
			t.Fatalf("DeleteExpense: %v", err)
		}
		if err := svc.DeleteExpense(ctx, 1, rent.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestEmployee_Attendance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewEmployeeService(pool)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, core.EmployeeInput{Name: "Ram", Position: "Carpenter", Salary: decimal.NewFromInt(30000)})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	day := time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)

	if _, err := svc.MarkAttendance(ctx, 1, emp.ID, day, core.AttendancePresent, ""); err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}
	// Marking the same day again replaces the record.
	a, err := svc.MarkAttendance(ctx, 1, emp.ID, day, core.AttendanceHalfDay, "left at noon")
	if err != nil {
		t.Fatalf("MarkAttendance again: %v", err)
	}
	if a.Status != core.AttendanceHalfDay {
		t.Errorf("status = %s, want HalfDay", a.Status)
	}

	if _, err := svc.MarkAttendance(ctx, 2, emp.ID, day, core.AttendancePresent, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other owner, got %v", err)
	}
	if _, err := svc.MarkAttendance(ctx, 1, emp.ID, day, "Sick", ""); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown status, got %v", err)
	}

	list, err := svc.ListAttendance(ctx, 1, time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListAttendance: %v", err)
	}
	if len(list) != 1 || list[0].EmployeeName != "Ram" || list[0].Note != "left at noon" {
		t.Errorf("attendance = %+v", list)
	}
	if list, _ := svc.ListAttendance(ctx, 1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)); len(list) != 0 {
		t.Errorf("May should be empty, got %d records", len(list))
	}

	if err := svc.DeactivateEmployee(ctx, 1, emp.ID); err != nil {
		t.Fatalf("DeactivateEmployee: %v", err)
	}
	if _, err := svc.MarkAttendance(ctx, 1, emp.ID, day.AddDate(0, 0, 1), core.AttendancePresent, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for inactive employee, got %v", err)
	}
}

func TestDashboard_Summary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	s := newServices(pool)
	ctx := context.Background()

	mustCreateBill(t, s.bills, 1)
	paid := mustCreateBill(t, s.bills, 1)
	if err := s.bills.UpdateBillStatus(ctx, 1, paid.Bill.ID, core.BillPaid); err != nil {
		t.Fatalf("UpdateBillStatus: %v", err)
	}
	expenses := core.NewExpenseService(pool)
	if _, err := expenses.CreateExpense(ctx, 1, core.ExpenseInput{Title: "Rent", Amount: decimal.NewFromInt(15000), ExpenseDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	dash := core.NewDashboardService(pool, s.bills)
	d, err := dash.GetDashboard(ctx, 1, core.DashboardRange{})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if d.BillCount != 2 || d.PaidCount != 1 || d.PendingCount != 1 {
		t.Errorf("counts = %d/%d/%d", d.BillCount, d.PaidCount, d.PendingCount)
	}
	if !d.Sales.Total.Equal(decimal.NewFromInt(20340)) {
		t.Errorf("sales total = %s, want 20340", d.Sales.Total)
	}
	if !d.Expenses.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("expenses = %s, want 15000", d.Expenses)
	}
	if len(d.RecentBills) != 2 {
		t.Errorf("recent bills = %d, want 2", len(d.RecentBills))
	}

	other, err := dash.GetDashboard(ctx, 2, core.DashboardRange{})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if other.BillCount != 0 || !other.Sales.Total.IsZero() {
		t.Errorf("other owner's dashboard is not empty: %+v", other)
	}
}
