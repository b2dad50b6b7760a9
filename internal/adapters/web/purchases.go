package web

import (
	"net/http"

	"arthavidhi/internal/app"
)

// ── Purchases ─────────────────────────────────────────────────────────────────

// listPurchases handles GET /api/purchases.
func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPurchases(r.Context(), userID(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createPurchase handles POST /api/purchases.
func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req app.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreatePurchase(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// getPurchase handles GET /api/purchases/{id}.
func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetPurchase(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// deletePurchase handles DELETE /api/purchases/{id}.
func (h *Handler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DeletePurchase(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ── Products ──────────────────────────────────────────────────────────────────

// listProducts handles GET /api/products?include_inactive=true.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListProducts(r.Context(), userID(r), queryBool(r, "include_inactive"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateProduct(r.Context(), userID(r), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updateProduct handles PUT /api/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateProduct(r.Context(), userID(r), id, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// deactivateProduct handles DELETE /api/products/{id}. Products are never removed
// because purchase items keep referring to them.
func (h *Handler) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.DeactivateProduct(r.Context(), userID(r), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
