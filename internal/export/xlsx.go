// Package export writes bill and expense listings as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// WriteBills writes one row per bill with its computed totals and a total row.
func WriteBills(w io.Writer, bills []core.BillSummary) error {
	headers := []string{"Bill No.", "Client", "Bill Date", "Due Date", "Status", "Subtotal", "Discount", "Taxable", "VAT", "Total"}
	rows := make([][]any, 0, len(bills))
	sum := core.Totals{}
	for _, b := range bills {
		due := ""
		if b.DueDate != nil {
			due = b.DueDate.Format(dateLayout)
		}
		rows = append(rows, []any{
			b.Number, b.ClientName, b.BillDate.Format(dateLayout), due, string(b.Status),
			money(b.Totals.Subtotal), money(b.Totals.Discount), money(b.Totals.Taxable),
			money(b.Totals.VAT), money(b.Totals.Total),
		})
		sum.Subtotal = sum.Subtotal.Add(b.Totals.Subtotal)
		sum.Discount = sum.Discount.Add(b.Totals.Discount)
		sum.Taxable = sum.Taxable.Add(b.Totals.Taxable)
		sum.VAT = sum.VAT.Add(b.Totals.VAT)
		sum.Total = sum.Total.Add(b.Totals.Total)
	}
	footer := []any{"Total", "", "", "", "",
		money(sum.Subtotal), money(sum.Discount), money(sum.Taxable), money(sum.VAT), money(sum.Total)}
	return writeSheet(w, "Bills", headers, rows, footer)
}

// WriteExpenses writes one row per expense and a total row.
func WriteExpenses(w io.Writer, expenses []core.Expense) error {
	headers := []string{"Date", "Title", "Category", "Amount", "Remarks"}
	rows := make([][]any, 0, len(expenses))
	total := decimal.Zero
	for _, e := range expenses {
		rows = append(rows, []any{e.ExpenseDate.Format(dateLayout), e.Title, e.Category, money(e.Amount), e.Remarks})
		total = total.Add(e.Amount)
	}
	return writeSheet(w, "Expenses", headers, rows, []any{"Total", "", "", money(total), ""})
}

// money converts to float64 for the cell value only; sums above are exact.
func money(v decimal.Decimal) float64 {
	f, _ := v.Round(2).Float64()
	return f
}

func writeSheet(w io.Writer, sheet string, headers []string, rows [][]any, footer []any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	numFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range append(rows, footer) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		for col, v := range row {
			if _, ok := v.(float64); ok {
				c, _ := excelize.CoordinatesToCellName(col+1, i+2)
				_ = f.SetCellStyle(sheet, c, c, moneyStyle)
			}
		}
	}
	footerRow := len(rows) + 2
	first, _ := excelize.CoordinatesToCellName(1, footerRow)
	end, _ := excelize.CoordinatesToCellName(len(headers), footerRow)
	if err := f.SetCellStyle(sheet, first, end, bold); err != nil {
		return fmt.Errorf("style footer: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
