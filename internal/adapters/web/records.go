package web

import (
	"bytes"
	"net/http"
	"time"

	"arthavidhi/internal/app"
	"arthavidhi/internal/export"
)

// ── Expenses ──────────────────────────────────────────────────────────────────

func expenseListQuery(r *http.Request) app.ExpenseListQuery {
	q := r.URL.Query()
	return app.ExpenseListQuery{Category: q.Get("category"), From: q.Get("from"), To: q.Get("to")}
}

// listExpenses handles GET /api/expenses.
func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListExpenses(r.Context(), userID(r), expenseListQuery(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createExpense handles POST /api/expenses.
func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req app.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateExpense(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// deleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DeleteExpense(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// exportExpenses handles GET /api/expenses/export.xlsx.
func (h *Handler) exportExpenses(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportExpenses(r.Context(), userID(r), expenseListQuery(r), &buf); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeDownload(w, export.ContentType, "expenses-"+time.Now().Format("20060102")+".xlsx", buf.Bytes())
}

// ── Employees ─────────────────────────────────────────────────────────────────

// listEmployees handles GET /api/employees?include_inactive=true.
func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListEmployees(r.Context(), userID(r), queryBool(r, "include_inactive"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createEmployee handles POST /api/employees.
func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req app.EmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateEmployee(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// deactivateEmployee handles DELETE /api/employees/{id}.
func (h *Handler) deactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DeactivateEmployee(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// markAttendance handles POST /api/employees/{id}/attendance.
func (h *Handler) markAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.AttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.MarkAttendance(r.Context(), userID(r), id, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// listAttendance handles GET /api/attendance?month=YYYY-MM.
func (h *Handler) listAttendance(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAttendance(r.Context(), userID(r), r.URL.Query().Get("month"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ── Profile & dashboard ───────────────────────────────────────────────────────

// getProfile handles GET /api/profile.
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context(), userID(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updateProfile handles PUT /api/profile.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req app.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateProfile(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// dashboard handles GET /api/dashboard?from=&to=.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := h.svc.GetDashboard(r.Context(), userID(r), app.DashboardQuery{From: q.Get("from"), To: q.Get("to")})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
