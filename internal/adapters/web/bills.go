package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"arthavidhi/internal/app"
	"arthavidhi/internal/export"
)

// ── Bills ─────────────────────────────────────────────────────────────────────

func billListQuery(r *http.Request) app.BillListQuery {
	q := r.URL.Query()
	return app.BillListQuery{
		Status: q.Get("status"),
		Search: q.Get("search"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
}

// listBills handles GET /api/bills.
func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.ListBills(r.Context(), userID(r), billListQuery(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// createBill handles POST /api/bills.
func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req app.BillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateBill(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// getBill handles GET /api/bills/{id}.
func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	bill, err := h.svc.GetBill(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// updateBill handles PUT /api/bills/{id}.
func (h *Handler) updateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.BillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateBill(r.Context(), userID(r), id, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// updateBillStatus handles PATCH /api/bills/{id}/status.
func (h *Handler) updateBillStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.BillStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateBillStatus(r.Context(), userID(r), id, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// deleteBill handles DELETE /api/bills/{id}.
func (h *Handler) deleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DeleteBill(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// markOverdue handles POST /api/bills/mark-overdue.
func (h *Handler) markOverdue(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.MarkOverdueBills(r.Context(), userID(r), time.Now())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// nextBillNumber handles GET /api/bills/next-number.
func (h *Handler) nextBillNumber(w http.ResponseWriter, r *http.Request) {
	h.nextNumber(w, r, "bill")
}

// nextQuotationNumber handles GET /api/quotations/next-number.
func (h *Handler) nextQuotationNumber(w http.ResponseWriter, r *http.Request) {
	h.nextNumber(w, r, "quotation")
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request, docType string) {
	res, err := h.svc.NextNumber(r.Context(), userID(r), docType)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// billPDF handles GET /api/bills/{id}/pdf.
func (h *Handler) billPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	name, err := h.svc.RenderBillPDF(r.Context(), userID(r), id, &buf)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeDownload(w, "application/pdf", name, buf.Bytes())
}

// exportBills handles GET /api/bills/export.xlsx.
func (h *Handler) exportBills(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportBills(r.Context(), userID(r), billListQuery(r), &buf); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeDownload(w, export.ContentType, "bills-"+time.Now().Format("20060102")+".xlsx", buf.Bytes())
}

// draftBill handles POST /api/bills/draft.
func (h *Handler) draftBill(w http.ResponseWriter, r *http.Request) {
	var req app.DraftBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.DraftBill(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ── Quotations ────────────────────────────────────────────────────────────────

// listQuotations handles GET /api/quotations.
func (h *Handler) listQuotations(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListQuotations(r.Context(), userID(r), r.URL.Query().Get("search"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createQuotation handles POST /api/quotations.
func (h *Handler) createQuotation(w http.ResponseWriter, r *http.Request) {
	var req app.QuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateQuotation(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// getQuotation handles GET /api/quotations/{id}.
func (h *Handler) getQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	q, err := h.svc.GetQuotation(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// updateQuotation handles PUT /api/quotations/{id}.
func (h *Handler) updateQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.QuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateQuotation(r.Context(), userID(r), id, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// deleteQuotation handles DELETE /api/quotations/{id}.
func (h *Handler) deleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DeleteQuotation(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// quotationPDF handles GET /api/quotations/{id}/pdf.
func (h *Handler) quotationPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	name, err := h.svc.RenderQuotationPDF(r.Context(), userID(r), id, &buf)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeDownload(w, "application/pdf", name, buf.Bytes())
}

// writeDownload sends a fully rendered document as an attachment.
func writeDownload(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
