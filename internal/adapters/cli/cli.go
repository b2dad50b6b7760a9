package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"arthavidhi/internal/app"
	"arthavidhi/internal/core"
)

// Usage lists the one-shot commands.
const Usage = `Usage:
  app next-number <bill|quotation> [last]   derive (from last) or preview the next number
  app bill show <id>                        print an assembled bill
  app bill pdf <id> <file>                  write the bill PDF to file
  app bills export <file>                   write all bills to an .xlsx file
  app draft "<description>"                 ask the assistant for a bill draft
  app mark-overdue                          flip past-due Pending bills to Overdue

The owner is selected with APP_USER_EMAIL.`

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("invalid arguments")

// Runner executes one-shot commands against an ApplicationService.
type Runner struct {
	svc app.ApplicationService
	out io.Writer
	now func() time.Time
}

// NewRunner returns a Runner printing to out.
func NewRunner(svc app.ApplicationService, out io.Writer) *Runner {
	return &Runner{svc: svc, out: out, now: time.Now}
}

// NeedsOwner reports whether args require a resolved owner (and a database).
// Deriving a number from an explicit last value is pure.
func NeedsOwner(args []string) bool {
	return !(len(args) == 3 && (args[0] == "next-number" || args[0] == "nn"))
}

// Run executes the command in args (os.Args[1:]) for the given owner.
func (c *Runner) Run(ctx context.Context, userID int, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "next-number", "nn":
		return c.nextNumber(ctx, userID, args[1:])

	case "bill":
		if len(args) < 3 {
			return ErrUsage
		}
		id, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: bill id %q is not a number", ErrUsage, args[2])
		}
		switch args[1] {
		case "show":
			bill, err := c.svc.GetBill(ctx, userID, id)
			if err != nil {
				return err
			}
			printBill(c.out, bill)
			return nil
		case "pdf":
			if len(args) < 4 {
				return ErrUsage
			}
			return c.writeFile(args[3], func(w io.Writer) error {
				_, err := c.svc.RenderBillPDF(ctx, userID, id, w)
				return err
			})
		}
		return ErrUsage

	case "bills":
		if len(args) < 3 || args[1] != "export" {
			return ErrUsage
		}
		return c.writeFile(args[2], func(w io.Writer) error {
			return c.svc.ExportBills(ctx, userID, app.BillListQuery{}, w)
		})

	case "draft":
		if len(args) < 2 {
			return ErrUsage
		}
		res, err := c.svc.DraftBill(ctx, userID, app.DraftBillRequest{Text: args[1]})
		if err != nil {
			return err
		}
		if res.IsClarification {
			fmt.Fprintln(c.out, "Assistant needs clarification:", res.ClarificationMessage)
			return nil
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Bill); err != nil {
			return err
		}
		printTotals(c.out, *res.Totals)
		return nil

	case "mark-overdue":
		res, err := c.svc.MarkOverdueBills(ctx, userID, c.now())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, res.Success)
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

func (c *Runner) nextNumber(ctx context.Context, userID int, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	var docType core.DocType
	switch args[0] {
	case "bill":
		docType = core.DocTypeBill
	case "quotation":
		docType = core.DocTypeQuotation
	default:
		return fmt.Errorf("%w: document type must be bill or quotation", ErrUsage)
	}

	if len(args) > 1 {
		scheme, err := core.SchemeFor(docType)
		if err != nil {
			return err
		}
		next, err := core.NextNumber(args[1], scheme)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, next)
		return nil
	}

	res, err := c.svc.NextNumber(ctx, userID, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, res.Number)
	return nil
}

// writeFile renders into path, removing a partial file on failure.
func (c *Runner) writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Wrote %s\n", path)
	return nil
}
