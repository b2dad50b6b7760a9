// Package pdf renders bills and quotations as printable A4 documents.
package pdf

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"arthavidhi/internal/core"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// Document is the printable view shared by bills and quotations.
type Document struct {
	Title string
	// ClientLabel heads the client block, e.g. "Bill To:".
	ClientLabel string
	Number      string
	Date        time.Time
	DueDate     *time.Time
	Status      string
	Client      core.Client
	Company     *core.CompanyProfile
	Items       []core.LineItem
	Totals      core.Totals
	Remarks     string
}

// FromBill builds the printable view of an assembled bill.
func FromBill(a *core.AssembledBill) Document {
	return Document{
		Title:       "TAX INVOICE",
		ClientLabel: "Bill To:",
		Number:      a.Bill.Number,
		Date:        a.Bill.BillDate,
		DueDate:     a.Bill.DueDate,
		Status:      string(a.Bill.Status),
		Client:      a.Bill.Client,
		Company:     a.Company,
		Items:       a.Bill.Items,
		Totals:      a.Totals,
		Remarks:     a.Bill.Remarks,
	}
}

// FromQuotation builds the printable view of an assembled quotation.
func FromQuotation(a *core.AssembledQuotation) Document {
	return Document{
		Title:       "QUOTATION",
		ClientLabel: "Quotation For:",
		Number:      a.Quotation.Number,
		Date:        a.Quotation.QuotationDate,
		Client:      a.Quotation.Client,
		Company:     a.Company,
		Items:       a.Quotation.Items,
		Totals:      a.Totals,
		Remarks:     a.Quotation.Remarks,
	}
}

// LogoResolver maps a stored logo path to a file on disk.
type LogoResolver interface {
	Path(rel string) (string, error)
}

const (
	marginMM     = 15.0
	rowHeight    = 7.0
	footerHeight = 15.0
	dateLayout   = "2006-01-02"
)

// column widths: S.N., description, qty, unit, rate, amount
var colWidths = []float64{12, 78, 20, 18, 26, 26}

// Renderer writes documents as PDF. A nil logos skips the company logo.
type Renderer struct {
	logos LogoResolver
}

func NewRenderer(logos LogoResolver) *Renderer {
	return &Renderer{logos: logos}
}

// Render writes doc to w. Items that do not fit continue on further pages with the
// table header repeated.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, footerHeight)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerHeight + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s %s - page %d of {nb}", doc.Title, doc.Number, pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.header(pdf, tr, doc)
	r.parties(pdf, tr, doc)
	tableHeader(pdf)

	_, pageHeight := pdf.GetPageSize()
	limit := pageHeight - footerHeight - marginMM
	for i, it := range doc.Items {
		if pdf.GetY()+rowHeight > limit {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s %s (continued)", doc.Title, doc.Number)), "", 1, "L", false, 0, "")
			pdf.Ln(2)
			tableHeader(pdf)
		}
		itemRow(pdf, tr, i+1, it)
	}

	// Totals and remarks stay together on one page.
	if pdf.GetY()+6*rowHeight+20 > limit {
		pdf.AddPage()
	}
	totals(pdf, doc.Totals)
	if doc.Remarks != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, tr("Remarks: "+doc.Remarks), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) header(pdf *gofpdf.Fpdf, tr func(string) string, doc Document) {
	c := doc.Company
	if c == nil {
		c = &core.CompanyProfile{}
	}

	textX := marginMM
	if path := r.logoFile(c.LogoPath); path != "" {
		pdf.ImageOptions(path, marginMM, marginMM, 0, 20, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		if pdf.Err() {
			// An unreadable logo must not cost the whole document.
			pdf.ClearError()
		} else {
			textX = marginMM + 35
		}
	}

	pdf.SetXY(textX, marginMM)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(c.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{
		c.Address,
		joinNonEmpty(" | ", prefixed("Phone: ", c.Phone), prefixed("Email: ", c.Email)),
		joinNonEmpty(" | ", prefixed("PAN: ", c.PANNumber), prefixed("VAT: ", c.VATNumber)),
	} {
		if line == "" {
			continue
		}
		pdf.SetX(textX)
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}

	if pdf.GetY() < marginMM+22 {
		pdf.SetY(marginMM + 22)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, doc.Title, "TB", 1, "C", false, 0, "")
	pdf.Ln(3)
}

func (r *Renderer) logoFile(rel string) string {
	if r.logos == nil || rel == "" {
		return ""
	}
	path, err := r.logos.Path(rel)
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func (r *Renderer) parties(pdf *gofpdf.Fpdf, tr func(string) string, doc Document) {
	label := doc.ClientLabel
	if label == "" {
		label = "To:"
	}
	left := []string{
		label + " " + doc.Client.Name,
		doc.Client.Address,
		prefixed("Phone: ", doc.Client.Phone),
		prefixed("PAN: ", doc.Client.PAN),
	}
	right := []string{
		"No.: " + doc.Number,
		"Date: " + doc.Date.Format(dateLayout),
	}
	if doc.DueDate != nil {
		right = append(right, "Due: "+doc.DueDate.Format(dateLayout))
	}
	if doc.Status != "" {
		right = append(right, "Status: "+doc.Status)
	}

	pdf.SetFont("Helvetica", "", 10)
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		var l, rt string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			rt = right[i]
		}
		pdf.CellFormat(110, 5, tr(l), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(rt), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"S.N.", "Description", "Qty", "Unit", "Rate", "Amount"} {
		align := "L"
		if i >= 4 || i == 2 {
			align = "R"
		}
		pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

func itemRow(pdf *gofpdf.Fpdf, tr func(string) string, n int, it core.LineItem) {
	pdf.SetFont("Helvetica", "", 9)
	desc := it.Description
	for runes := []rune(desc); pdf.GetStringWidth(tr(desc)) > colWidths[1]-2 && len(runes) > 3; {
		runes = runes[:len(runes)-1]
		desc = string(runes) + "..."
	}
	cells := []string{
		fmt.Sprint(n),
		desc,
		it.Quantity.String(),
		it.Unit,
		it.Rate.StringFixed(2),
		it.Amount().StringFixed(2),
	}
	for i, c := range cells {
		align := "L"
		if i >= 4 || i == 2 {
			align = "R"
		}
		pdf.CellFormat(colWidths[i], rowHeight, tr(c), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func totals(pdf *gofpdf.Fpdf, t core.Totals) {
	labelW := colWidths[0] + colWidths[1] + colWidths[2] + colWidths[3] + colWidths[4]
	rows := []struct {
		label string
		value decimal.Decimal
		bold  bool
	}{
		{"Subtotal", t.Subtotal, false},
		{"Discount", t.Discount, false},
		{"Taxable Amount", t.Taxable, false},
		{"VAT (13%)", t.VAT, false},
		{"Grand Total", t.Total, true},
	}
	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, rowHeight, row.label, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[5], rowHeight, row.value.StringFixed(2), "1", 1, "R", false, 0, "")
	}
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + v
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
