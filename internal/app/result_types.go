package app

import (
	"arthavidhi/internal/ai"
	"arthavidhi/internal/core"
)

// Result is the envelope returned by every state-changing operation.
type Result struct {
	Success string `json:"success"`
	Data    any    `json:"data,omitempty"`
}

func ok(msg string, data any) *Result {
	return &Result{Success: msg, Data: data}
}

// UserSession is returned on successful authentication.
type UserSession struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// UserResult is returned by GetUser.
type UserResult struct {
	UserID  int                  `json:"user_id"`
	Name    string               `json:"name"`
	Email   string               `json:"email"`
	Company *core.CompanyProfile `json:"company"`
}

// DraftResult is returned by DraftBill. Bill is nil when the assistant needs more
// information; ClarificationMessage then says what is missing.
type DraftResult struct {
	Draft                *ai.BillDraft `json:"draft"`
	Bill                 *BillRequest  `json:"bill,omitempty"`
	Totals               *core.Totals  `json:"totals,omitempty"`
	IsClarification      bool          `json:"is_clarification"`
	ClarificationMessage string        `json:"clarification_message,omitempty"`
}

// NextNumberResult is returned by NextNumber.
type NextNumberResult struct {
	DocType string `json:"doc_type"`
	Number  string `json:"number"`
}
