package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arthavidhi/internal/ai"
	"arthavidhi/internal/core"
	"arthavidhi/internal/logging"
	"arthavidhi/internal/pdf"
	"arthavidhi/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Services bundles the domain services the application layer orchestrates.
type Services struct {
	Numbers    core.NumberIssuer
	Bills      core.BillService
	Quotations core.QuotationService
	Purchases  core.PurchaseService
	Products   core.ProductService
	Expenses   core.ExpenseService
	Employees  core.EmployeeService
	Profiles   core.ProfileService
	Dashboard  core.DashboardService
	Users      core.UserService
}

// NewServices wires the PostgreSQL-backed domain services. cache may be nil.
func NewServices(pool *pgxpool.Pool, cache core.ProfileCache) Services {
	numbers := core.NewNumberIssuer(pool)
	profiles := core.NewProfileService(pool, cache)
	bills := core.NewBillService(pool, numbers, profiles)
	return Services{
		Numbers:    numbers,
		Bills:      bills,
		Quotations: core.NewQuotationService(pool, numbers, profiles),
		Purchases:  core.NewPurchaseService(pool, profiles),
		Products:   core.NewProductService(pool),
		Expenses:   core.NewExpenseService(pool),
		Employees:  core.NewEmployeeService(pool),
		Profiles:   profiles,
		Dashboard:  core.NewDashboardService(pool, bills),
		Users:      core.NewUserService(pool),
	}
}

type appService struct {
	svc      Services
	drafter  ai.Drafter
	renderer *pdf.Renderer
	uploads  *storage.Store
	logger   *logrus.Logger
	now      func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
// drafter may be nil, in which case DraftBill reports ErrUnavailable.
func NewAppService(svc Services, drafter ai.Drafter, uploads *storage.Store, logger *logrus.Logger) ApplicationService {
	var logos pdf.LogoResolver
	if uploads != nil {
		logos = uploads
	}
	return &appService{
		svc:      svc,
		drafter:  drafter,
		renderer: pdf.NewRenderer(logos),
		uploads:  uploads,
		logger:   logger,
		now:      time.Now,
	}
}

const dateLayout = "2006-01-02"

// fail logs database-class errors before handing them back. The caller only ever
// sees the generic message for those.
func (s *appService) fail(funcName string, data any, err error) error {
	if Classify(err) == KindDatabase {
		logging.LogError(s.logger, "app", funcName, "operation failed", data, err)
	}
	return err
}

// ── Bills ────────────────────────────────────────────────────────────────────

func (s *appService) CreateBill(ctx context.Context, userID int, req BillRequest) (*Result, error) {
	in, err := toBillInput(req)
	if err != nil {
		return nil, err
	}
	id, err := s.svc.Bills.CreateBill(ctx, userID, in)
	if err != nil {
		return nil, s.fail("CreateBill", map[string]int{"user_id": userID}, err)
	}
	bill, err := s.svc.Bills.GetBill(ctx, userID, id)
	if err != nil {
		return nil, s.fail("CreateBill", map[string]int{"bill_id": id}, err)
	}
	return ok(fmt.Sprintf("Bill %s created", bill.Bill.Number), bill), nil
}

func (s *appService) GetBill(ctx context.Context, userID, billID int) (*core.AssembledBill, error) {
	bill, err := s.svc.Bills.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, s.fail("GetBill", map[string]int{"bill_id": billID}, err)
	}
	return bill, nil
}

func (s *appService) ListBills(ctx context.Context, userID int, q BillListQuery) ([]core.BillSummary, error) {
	f, err := toBillFilter(q)
	if err != nil {
		return nil, err
	}
	bills, err := s.svc.Bills.ListBills(ctx, userID, f)
	if err != nil {
		return nil, s.fail("ListBills", q, err)
	}
	return bills, nil
}

func (s *appService) UpdateBill(ctx context.Context, userID, billID int, req BillRequest) (*Result, error) {
	in, err := toBillInput(req)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Bills.UpdateBill(ctx, userID, billID, in); err != nil {
		return nil, s.fail("UpdateBill", map[string]int{"bill_id": billID}, err)
	}
	bill, err := s.svc.Bills.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, s.fail("UpdateBill", map[string]int{"bill_id": billID}, err)
	}
	return ok(fmt.Sprintf("Bill %s updated", bill.Bill.Number), bill), nil
}

func (s *appService) UpdateBillStatus(ctx context.Context, userID, billID int, req BillStatusRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.svc.Bills.UpdateBillStatus(ctx, userID, billID, core.BillStatus(req.Status)); err != nil {
		return nil, s.fail("UpdateBillStatus", map[string]int{"bill_id": billID}, err)
	}
	return ok("Bill marked "+req.Status, map[string]any{"id": billID, "status": req.Status}), nil
}

func (s *appService) DeleteBill(ctx context.Context, userID, billID int) (*Result, error) {
	if err := s.svc.Bills.DeleteBill(ctx, userID, billID); err != nil {
		return nil, s.fail("DeleteBill", map[string]int{"bill_id": billID}, err)
	}
	return ok("Bill deleted", nil), nil
}

func (s *appService) MarkOverdueBills(ctx context.Context, userID int, today time.Time) (*Result, error) {
	n, err := s.svc.Bills.MarkOverdueBills(ctx, userID, today)
	if err != nil {
		return nil, s.fail("MarkOverdueBills", map[string]int{"user_id": userID}, err)
	}
	return ok(fmt.Sprintf("%d bill(s) marked overdue", n), map[string]int{"updated": n}), nil
}

func (s *appService) NextNumber(ctx context.Context, userID int, docType string) (*NextNumberResult, error) {
	var dt core.DocType
	switch strings.ToLower(docType) {
	case "bill":
		dt = core.DocTypeBill
	case "quotation":
		dt = core.DocTypeQuotation
	default:
		return nil, invalid("doc_type", "must be one of: bill quotation")
	}
	number, err := s.svc.Numbers.PeekNextNumber(ctx, userID, dt)
	if err != nil {
		return nil, s.fail("NextNumber", map[string]any{"user_id": userID, "doc_type": docType}, err)
	}
	return &NextNumberResult{DocType: strings.ToLower(docType), Number: number}, nil
}

// ── Quotations ───────────────────────────────────────────────────────────────

func (s *appService) CreateQuotation(ctx context.Context, userID int, req QuotationRequest) (*Result, error) {
	in, err := toQuotationInput(req)
	if err != nil {
		return nil, err
	}
	id, err := s.svc.Quotations.CreateQuotation(ctx, userID, in)
	if err != nil {
		return nil, s.fail("CreateQuotation", map[string]int{"user_id": userID}, err)
	}
	q, err := s.svc.Quotations.GetQuotation(ctx, userID, id)
	if err != nil {
		return nil, s.fail("CreateQuotation", map[string]int{"quotation_id": id}, err)
	}
	return ok(fmt.Sprintf("Quotation %s created", q.Quotation.Number), q), nil
}

func (s *appService) GetQuotation(ctx context.Context, userID, quotationID int) (*core.AssembledQuotation, error) {
	q, err := s.svc.Quotations.GetQuotation(ctx, userID, quotationID)
	if err != nil {
		return nil, s.fail("GetQuotation", map[string]int{"quotation_id": quotationID}, err)
	}
	return q, nil
}

func (s *appService) ListQuotations(ctx context.Context, userID int, search string) ([]core.QuotationSummary, error) {
	if len(search) > 100 {
		return nil, invalid("search", "must be at most 100 characters")
	}
	list, err := s.svc.Quotations.ListQuotations(ctx, userID, search)
	if err != nil {
		return nil, s.fail("ListQuotations", map[string]int{"user_id": userID}, err)
	}
	return list, nil
}

func (s *appService) UpdateQuotation(ctx context.Context, userID, quotationID int, req QuotationRequest) (*Result, error) {
	in, err := toQuotationInput(req)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Quotations.UpdateQuotation(ctx, userID, quotationID, in); err != nil {
		return nil, s.fail("UpdateQuotation", map[string]int{"quotation_id": quotationID}, err)
	}
	q, err := s.svc.Quotations.GetQuotation(ctx, userID, quotationID)
	if err != nil {
		return nil, s.fail("UpdateQuotation", map[string]int{"quotation_id": quotationID}, err)
	}
	return ok(fmt.Sprintf("Quotation %s updated", q.Quotation.Number), q), nil
}

func (s *appService) DeleteQuotation(ctx context.Context, userID, quotationID int) (*Result, error) {
	if err := s.svc.Quotations.DeleteQuotation(ctx, userID, quotationID); err != nil {
		return nil, s.fail("DeleteQuotation", map[string]int{"quotation_id": quotationID}, err)
	}
	return ok("Quotation deleted", nil), nil
}

// ── Purchases ────────────────────────────────────────────────────────────────

func (s *appService) CreatePurchase(ctx context.Context, userID int, req PurchaseRequest) (*Result, error) {
	in, err := toPurchaseInput(req)
	if err != nil {
		return nil, err
	}
	id, err := s.svc.Purchases.CreatePurchase(ctx, userID, in)
	if err != nil {
		return nil, s.fail("CreatePurchase", map[string]int{"user_id": userID}, err)
	}
	p, err := s.svc.Purchases.GetPurchase(ctx, userID, id)
	if err != nil {
		return nil, s.fail("CreatePurchase", map[string]int{"purchase_id": id}, err)
	}
	return ok("Purchase recorded", p), nil
}

func (s *appService) GetPurchase(ctx context.Context, userID, purchaseID int) (*core.AssembledPurchase, error) {
	p, err := s.svc.Purchases.GetPurchase(ctx, userID, purchaseID)
	if err != nil {
		return nil, s.fail("GetPurchase", map[string]int{"purchase_id": purchaseID}, err)
	}
	return p, nil
}

func (s *appService) ListPurchases(ctx context.Context, userID int) ([]core.PurchaseSummary, error) {
	list, err := s.svc.Purchases.ListPurchases(ctx, userID)
	if err != nil {
		return nil, s.fail("ListPurchases", map[string]int{"user_id": userID}, err)
	}
	return list, nil
}

func (s *appService) DeletePurchase(ctx context.Context, userID, purchaseID int) (*Result, error) {
	if err := s.svc.Purchases.DeletePurchase(ctx, userID, purchaseID); err != nil {
		return nil, s.fail("DeletePurchase", map[string]int{"purchase_id": purchaseID}, err)
	}
	return ok("Purchase deleted and stock restored", nil), nil
}

// ── conversion helpers ───────────────────────────────────────────────────────

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func parseOptionalDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(field, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toLineItems(items []LineItemRequest) []core.LineItemInput {
	out := make([]core.LineItemInput, len(items))
	for i, it := range items {
		out[i] = core.LineItemInput{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Rate:        it.Rate,
		}
	}
	return out
}

func toClient(c ClientRequest) core.Client {
	return core.Client{
		Name:    strings.TrimSpace(c.Name),
		Address: c.Address,
		Phone:   c.Phone,
		PAN:     c.PAN,
	}
}

func toBillInput(req BillRequest) (core.BillInput, error) {
	var in core.BillInput
	if err := validateRequest(req); err != nil {
		return in, err
	}
	billDate, err := parseDate("bill_date", req.BillDate)
	if err != nil {
		return in, err
	}
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return in, err
	}
	if due != nil && due.Before(billDate) {
		return in, invalid("due_date", "must not be before bill_date")
	}
	items := toLineItems(req.Items)
	if err := checkDiscount(req.DiscountType, req.DiscountValue, items); err != nil {
		return in, err
	}
	return core.BillInput{
		Client:        toClient(req.Client),
		BillDate:      billDate,
		DueDate:       due,
		DiscountType:  core.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		Status:        core.BillStatus(req.Status),
		Remarks:       req.Remarks,
		Items:         items,
	}, nil
}

func toQuotationInput(req QuotationRequest) (core.QuotationInput, error) {
	var in core.QuotationInput
	if err := validateRequest(req); err != nil {
		return in, err
	}
	date, err := parseDate("quotation_date", req.QuotationDate)
	if err != nil {
		return in, err
	}
	items := toLineItems(req.Items)
	if err := checkDiscount(req.DiscountType, req.DiscountValue, items); err != nil {
		return in, err
	}
	return core.QuotationInput{
		Client:        toClient(req.Client),
		QuotationDate: date,
		DiscountType:  core.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		Remarks:       req.Remarks,
		Items:         items,
	}, nil
}

// checkDiscount reports discount problems against the submitted items before any
// database work starts.
func checkDiscount(kind string, value decimal.Decimal, items []core.LineItemInput) error {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.Rate))
	}
	if _, _, err := core.ResolveDiscount(core.DiscountType(kind), value, subtotal); err != nil {
		return invalid("discount_value", strings.TrimPrefix(err.Error(), core.ErrInvalidInput.Error()+": "))
	}
	return nil
}

func toPurchaseInput(req PurchaseRequest) (core.PurchaseInput, error) {
	var in core.PurchaseInput
	if err := validateRequest(req); err != nil {
		return in, err
	}
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return in, err
	}
	items := make([]core.PurchaseItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = core.PurchaseItemInput{
			ProductID:   it.ProductID,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Rate:        it.Rate,
		}
	}
	return core.PurchaseInput{
		Supplier:           core.Supplier{Name: strings.TrimSpace(req.SupplierName), Phone: req.SupplierPhone},
		SupplierBillNumber: req.SupplierBillNumber,
		PurchaseDate:       date,
		Discount:           req.Discount,
		Remarks:            req.Remarks,
		Items:              items,
	}, nil
}

func toBillFilter(q BillListQuery) (core.BillFilter, error) {
	var f core.BillFilter
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
	return core.BillFilter{Status: core.BillStatus(q.Status), Search: q.Search, From: from, To: to}, nil
}

var errNoUploads = fmt.Errorf("upload storage: %w", ErrUnavailable)
