package cli

import (
	"fmt"
	"io"
	"strings"

	"arthavidhi/internal/core"
)

func printBill(w io.Writer, a *core.AssembledBill) {
	b := a.Bill
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	if a.Company != nil && a.Company.Name != "" {
		fmt.Fprintf(w, "  %s\n", a.Company.Name)
	}
	fmt.Fprintf(w, "  BILL %-20s  Date: %s  Status: %s\n", b.Number, b.BillDate.Format("2006-01-02"), b.Status)
	if b.DueDate != nil {
		fmt.Fprintf(w, "  Due: %s\n", b.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "  Client: %s", b.Client.Name)
	if b.Client.PAN != "" {
		fmt.Fprintf(w, " (PAN %s)", b.Client.PAN)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "  %-3s %-32s %8s %-5s %10s %10s\n", "#", "DESCRIPTION", "QTY", "UNIT", "RATE", "AMOUNT")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for i, it := range b.Items {
		fmt.Fprintf(w, "  %-3d %-32s %8s %-5s %10s %10s\n",
			i+1, truncate(it.Description, 32), it.Quantity.String(), truncate(it.Unit, 5),
			it.Rate.StringFixed(2), it.Amount().StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	printTotals(w, a.Totals)
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func printTotals(w io.Writer, t core.Totals) {
	row := func(label string, v string) { fmt.Fprintf(w, "  %56s %13s\n", label, v) }
	row("Subtotal", t.Subtotal.StringFixed(2))
	row("Discount", t.Discount.StringFixed(2))
	row("Taxable", t.Taxable.StringFixed(2))
	row("VAT 13%", t.VAT.StringFixed(2))
	row("TOTAL", t.Total.StringFixed(2))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
