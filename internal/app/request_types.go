package app

import (
	"github.com/shopspring/decimal"
)

// ClientRequest identifies the customer on a bill or quotation.
type ClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
	PAN     string `json:"pan" validate:"max=50"`
}

// LineItemRequest is one priced line of a bill or quotation.
type LineItemRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0,scale=3"`
	Unit        string          `json:"unit" validate:"max=30"`
	Rate        decimal.Decimal `json:"rate" validate:"gte=0,scale=2"`
}

// BillRequest is the input for creating or replacing a bill.
type BillRequest struct {
	Client        ClientRequest     `json:"client"`
	BillDate      string            `json:"bill_date" validate:"required,datetime=2006-01-02"`
	DueDate       string            `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DiscountType  string            `json:"discount_type" validate:"omitempty,oneof=amount percent"`
	DiscountValue decimal.Decimal   `json:"discount_value" validate:"gte=0,scale=2"`
	Status        string            `json:"status" validate:"omitempty,oneof=Pending Paid Overdue"`
	Remarks       string            `json:"remarks" validate:"max=1000"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// BillStatusRequest changes only the payment status of a bill.
type BillStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Paid Overdue"`
}

// BillListQuery filters ListBills and ExportBills. Dates are YYYY-MM-DD.
type BillListQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=Pending Paid Overdue"`
	Search string `json:"search" validate:"max=100"`
	From   string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// QuotationRequest is the input for creating or replacing a quotation.
type QuotationRequest struct {
	Client        ClientRequest     `json:"client"`
	QuotationDate string            `json:"quotation_date" validate:"required,datetime=2006-01-02"`
	DiscountType  string            `json:"discount_type" validate:"omitempty,oneof=amount percent"`
	DiscountValue decimal.Decimal   `json:"discount_value" validate:"gte=0,scale=2"`
	Remarks       string            `json:"remarks" validate:"max=1000"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemRequest is one received product line.
type PurchaseItemRequest struct {
	ProductID   int             `json:"product_id" validate:"required,gt=0"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0,scale=3"`
	Unit        string          `json:"unit" validate:"max=30"`
	Rate        decimal.Decimal `json:"rate" validate:"gte=0,scale=2"`
}

// PurchaseRequest is the input for recording a purchase.
type PurchaseRequest struct {
	SupplierName       string                `json:"supplier_name" validate:"required,max=200"`
	SupplierPhone      string                `json:"supplier_phone" validate:"max=50"`
	SupplierBillNumber string                `json:"supplier_bill_number" validate:"max=100"`
	PurchaseDate       string                `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	Discount           decimal.Decimal       `json:"discount" validate:"gte=0,scale=2"`
	Remarks            string                `json:"remarks" validate:"max=1000"`
	Items              []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ProductRequest is the input for creating or updating a product.
type ProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"max=100"`
	Unit         string          `json:"unit" validate:"max=30"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0,scale=2"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0,scale=2"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gte=0,scale=3"`
	ReorderLevel decimal.Decimal `json:"reorder_level" validate:"gte=0,scale=3"`
}

// ExpenseRequest is the input for recording an expense.
type ExpenseRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Category    string          `json:"category" validate:"max=100"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0,scale=2"`
	ExpenseDate string          `json:"expense_date" validate:"required,datetime=2006-01-02"`
	Remarks     string          `json:"remarks" validate:"max=1000"`
}

// ExpenseListQuery filters ListExpenses and ExportExpenses.
type ExpenseListQuery struct {
	Category string `json:"category" validate:"max=100"`
	From     string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// EmployeeRequest is the input for adding an employee.
type EmployeeRequest struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Phone    string          `json:"phone" validate:"max=50"`
	Position string          `json:"position" validate:"max=100"`
	Salary   decimal.Decimal `json:"salary" validate:"gte=0,scale=2"`
	JoinedOn string          `json:"joined_on" validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceRequest records one employee-day.
type AttendanceRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=Present Absent Leave HalfDay"`
	Note   string `json:"note" validate:"max=500"`
}

// ProfileRequest is the editable part of the company profile.
type ProfileRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Address   string `json:"address" validate:"max=500"`
	Phone     string `json:"phone" validate:"max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
	PANNumber string `json:"pan_number" validate:"max=50"`
	VATNumber string `json:"vat_number" validate:"max=50"`
}

// DashboardQuery limits the dashboard figures to a date range.
type DashboardQuery struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// DraftBillRequest asks the AI assistant to turn a description into a bill draft.
type DraftBillRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
