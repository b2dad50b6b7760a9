package app

import (
	"context"
	"fmt"
	"io"

	"arthavidhi/internal/core"
	"arthavidhi/internal/export"
	"arthavidhi/internal/logging"
	"arthavidhi/internal/pdf"

	"github.com/shopspring/decimal"
)

func (s *appService) RenderBillPDF(ctx context.Context, userID, billID int, w io.Writer) (string, error) {
	bill, err := s.svc.Bills.GetBill(ctx, userID, billID)
	if err != nil {
		return "", s.fail("RenderBillPDF", map[string]int{"bill_id": billID}, err)
	}
	if err := s.renderer.Render(w, pdf.FromBill(bill)); err != nil {
		return "", s.fail("RenderBillPDF", map[string]int{"bill_id": billID}, err)
	}
	return bill.Bill.Number + ".pdf", nil
}

func (s *appService) RenderQuotationPDF(ctx context.Context, userID, quotationID int, w io.Writer) (string, error) {
	q, err := s.svc.Quotations.GetQuotation(ctx, userID, quotationID)
	if err != nil {
		return "", s.fail("RenderQuotationPDF", map[string]int{"quotation_id": quotationID}, err)
	}
	if err := s.renderer.Render(w, pdf.FromQuotation(q)); err != nil {
		return "", s.fail("RenderQuotationPDF", map[string]int{"quotation_id": quotationID}, err)
	}
	return q.Quotation.Number + ".pdf", nil
}

func (s *appService) ExportBills(ctx context.Context, userID int, q BillListQuery, w io.Writer) error {
	bills, err := s.ListBills(ctx, userID, q)
	if err != nil {
		return err
	}
	if err := export.WriteBills(w, bills); err != nil {
		return s.fail("ExportBills", map[string]int{"user_id": userID}, err)
	}
	return nil
}

func (s *appService) ExportExpenses(ctx context.Context, userID int, q ExpenseListQuery, w io.Writer) error {
	expenses, err := s.ListExpenses(ctx, userID, q)
	if err != nil {
		return err
	}
	if err := export.WriteExpenses(w, expenses); err != nil {
		return s.fail("ExportExpenses", map[string]int{"user_id": userID}, err)
	}
	return nil
}

// ── AI drafting ──────────────────────────────────────────────────────────────

func (s *appService) DraftBill(ctx context.Context, userID int, req DraftBillRequest) (*DraftResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if s.drafter == nil {
		return nil, fmt.Errorf("bill drafting: %w", ErrUnavailable)
	}
	catalogue, err := s.svc.Products.ListProducts(ctx, userID, false)
	if err != nil {
		return nil, s.fail("DraftBill", map[string]int{"user_id": userID}, err)
	}

	today := s.now()
	draft, err := s.drafter.DraftBill(ctx, req.Text, today, catalogue)
	if err != nil {
		logging.LogError(s.logger, "app", "DraftBill", "assistant call failed", map[string]int{"user_id": userID}, err)
		return nil, fmt.Errorf("bill drafting failed: %w", ErrUnavailable)
	}
	draft.Normalize(today)

	result := &DraftResult{
		Draft:                draft,
		IsClarification:      draft.IsClarificationRequest,
		ClarificationMessage: draft.ClarificationMessage,
	}
	if draft.IsClarificationRequest {
		return result, nil
	}

	in, err := draft.ToBillInput()
	if err != nil {
		result.IsClarification = true
		result.ClarificationMessage = "Could not build a bill from that description (" + err.Error() + "). Please add the missing details."
		return result, nil
	}
	lines := make([]core.LineItem, len(in.Items))
	subtotal := decimal.Zero
	for i, it := range in.Items {
		lines[i] = core.LineItem{Description: it.Description, Quantity: it.Quantity, Unit: it.Unit, Rate: it.Rate}
		subtotal = subtotal.Add(lines[i].Amount())
	}
	discount, _, err := core.ResolveDiscount(in.DiscountType, in.DiscountValue, subtotal)
	if err != nil {
		result.IsClarification = true
		result.ClarificationMessage = PublicMessage(err) + ". Please check the discount."
		return result, nil
	}
	totals := core.ComputeTotals(lines, discount)
	result.Bill = fromBillInput(in)
	result.Totals = &totals
	return result, nil
}

// fromBillInput renders a draft as the request the user would submit to CreateBill.
func fromBillInput(in core.BillInput) *BillRequest {
	req := &BillRequest{
		Client: ClientRequest{
			Name:    in.Client.Name,
			Address: in.Client.Address,
			Phone:   in.Client.Phone,
			PAN:     in.Client.PAN,
		},
		BillDate:      in.BillDate.Format(dateLayout),
		DiscountType:  string(in.DiscountType),
		DiscountValue: in.DiscountValue,
		Remarks:       in.Remarks,
		Items:         make([]LineItemRequest, len(in.Items)),
	}
	if in.DueDate != nil {
		req.DueDate = in.DueDate.Format(dateLayout)
	}
	for i, it := range in.Items {
		req.Items[i] = LineItemRequest{Description: it.Description, Quantity: it.Quantity, Unit: it.Unit, Rate: it.Rate}
	}
	return req
}
