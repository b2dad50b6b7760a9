package export

import (
	"bytes"
	"testing"
	"time"

	"arthavidhi/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWriteBills(t *testing.T) {
	bills := []core.BillSummary{
		{
			Number:     "HG0101",
			ClientName: "Ram Traders",
			BillDate:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Status:     core.BillPending,
			Totals:     core.TotalsFrom(d("9500"), d("500")),
		},
		{
			Number:     "HG0100",
			ClientName: "Sita Stores",
			BillDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Status:     core.BillPaid,
			Totals:     core.TotalsFrom(d("1000"), decimal.Zero),
		},
	}

	var buf bytes.Buffer
	if err := WriteBills(&buf, bills); err != nil {
		t.Fatalf("WriteBills: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Bills")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 2 bills + total", len(rows))
	}
	if rows[0][0] != "Bill No." || rows[1][0] != "HG0101" || rows[3][0] != "Total" {
		t.Errorf("unexpected first column: %q %q %q", rows[0][0], rows[1][0], rows[3][0])
	}

	// 10170 + 1130
	raw, err := f.GetCellValue("Bills", "J4", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if raw != "11300" {
		t.Errorf("total cell = %q, want 11300", raw)
	}
}

func TestWriteExpenses_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExpenses(&buf, nil); err != nil {
		t.Fatalf("WriteExpenses: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Expenses")
	if len(rows) != 2 || rows[1][0] != "Total" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
