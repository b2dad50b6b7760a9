package app

import (
	"context"
	"io"
	"time"

	"arthavidhi/internal/core"
)

// ApplicationService is the single interface the CLI and web adapters call.
// Every operation on business data takes the owner's user id explicitly.
// Implementations contain no presentation logic.
type ApplicationService interface {
	// CreateBill validates req, issues the next bill number and persists the bill
	// with its items in one transaction. The result carries the assembled bill.
	CreateBill(ctx context.Context, userID int, req BillRequest) (*Result, error)
	GetBill(ctx context.Context, userID, billID int) (*core.AssembledBill, error)
	ListBills(ctx context.Context, userID int, q BillListQuery) ([]core.BillSummary, error)
	UpdateBill(ctx context.Context, userID, billID int, req BillRequest) (*Result, error)
	UpdateBillStatus(ctx context.Context, userID, billID int, req BillStatusRequest) (*Result, error)
	DeleteBill(ctx context.Context, userID, billID int) (*Result, error)

	// MarkOverdueBills flips Pending bills due before today to Overdue.
	MarkOverdueBills(ctx context.Context, userID int, today time.Time) (*Result, error)

	// NextNumber previews the number the next bill or quotation would receive.
	// docType is "bill" or "quotation".
	NextNumber(ctx context.Context, userID int, docType string) (*NextNumberResult, error)

	CreateQuotation(ctx context.Context, userID int, req QuotationRequest) (*Result, error)
	GetQuotation(ctx context.Context, userID, quotationID int) (*core.AssembledQuotation, error)
	ListQuotations(ctx context.Context, userID int, search string) ([]core.QuotationSummary, error)
	UpdateQuotation(ctx context.Context, userID, quotationID int, req QuotationRequest) (*Result, error)
	DeleteQuotation(ctx context.Context, userID, quotationID int) (*Result, error)

	// CreatePurchase records a purchase and raises product stock in one transaction.
	CreatePurchase(ctx context.Context, userID int, req PurchaseRequest) (*Result, error)
	GetPurchase(ctx context.Context, userID, purchaseID int) (*core.AssembledPurchase, error)
	ListPurchases(ctx context.Context, userID int) ([]core.PurchaseSummary, error)
	DeletePurchase(ctx context.Context, userID, purchaseID int) (*Result, error)

	CreateProduct(ctx context.Context, userID int, req ProductRequest) (*Result, error)
	ListProducts(ctx context.Context, userID int, includeInactive bool) ([]core.Product, error)
	GetProduct(ctx context.Context, userID, productID int) (*core.Product, error)
	UpdateProduct(ctx context.Context, userID, productID int, req ProductRequest) (*Result, error)
	DeactivateProduct(ctx context.Context, userID, productID int) (*Result, error)

	CreateExpense(ctx context.Context, userID int, req ExpenseRequest) (*Result, error)
	ListExpenses(ctx context.Context, userID int, q ExpenseListQuery) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID int) (*Result, error)
	// AttachReceipt stores an uploaded receipt image against an expense.
	AttachReceipt(ctx context.Context, userID, expenseID int, image io.Reader) (*Result, error)

	CreateEmployee(ctx context.Context, userID int, req EmployeeRequest) (*Result, error)
	ListEmployees(ctx context.Context, userID int, includeInactive bool) ([]core.Employee, error)
	DeactivateEmployee(ctx context.Context, userID, employeeID int) (*Result, error)
	MarkAttendance(ctx context.Context, userID, employeeID int, req AttendanceRequest) (*Result, error)
	// ListAttendance returns the records of one month, given as YYYY-MM.
	ListAttendance(ctx context.Context, userID int, month string) ([]core.Attendance, error)

	GetProfile(ctx context.Context, userID int) (*core.CompanyProfile, error)
	UpdateProfile(ctx context.Context, userID int, req ProfileRequest) (*Result, error)
	// UploadLogo stores a resized copy of the image as the company logo.
	UploadLogo(ctx context.Context, userID int, image io.Reader) (*Result, error)

	GetDashboard(ctx context.Context, userID int, q DashboardQuery) (*core.Dashboard, error)

	// RenderBillPDF writes the printable bill to w.
	RenderBillPDF(ctx context.Context, userID, billID int, w io.Writer) (string, error)
	// RenderQuotationPDF writes the printable quotation to w.
	RenderQuotationPDF(ctx context.Context, userID, quotationID int, w io.Writer) (string, error)
	ExportBills(ctx context.Context, userID int, q BillListQuery, w io.Writer) error
	ExportExpenses(ctx context.Context, userID int, q ExpenseListQuery, w io.Writer) error

	// DraftBill asks the AI assistant for a bill draft. Nothing is persisted.
	DraftBill(ctx context.Context, userID int, req DraftBillRequest) (*DraftResult, error)

	Register(ctx context.Context, req RegisterRequest) (*UserSession, error)
	// AuthenticateUser verifies credentials. Every failure is ErrInvalidCredentials.
	AuthenticateUser(ctx context.Context, req LoginRequest) (*UserSession, error)
	GetUser(ctx context.Context, userID int) (*UserResult, error)
	// LookupUser finds an account by email; used by the CLI to pick the owner.
	LookupUser(ctx context.Context, email string) (*UserSession, error)
}
