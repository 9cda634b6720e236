package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/dayledger/internal/operation"
)

// Source provides operation snapshots.
type Source interface {
	Snapshot(ctx context.Context, id uuid.UUID) (*operation.Snapshot, error)
}

// Service renders end-of-day reports of daily operations.
type Service struct {
	source  Source
	printer *message.Printer
	unit    currency.Unit
}

// NewService creates a report service that formats amounts for the given
// BCP 47 locale and ISO 4217 currency code.
func NewService(source Source, locale, currencyCode string) (*Service, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", currencyCode, err)
	}

	return &Service{
		source:  source,
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// DayReport loads the operation and renders it as plain text.
func (s *Service) DayReport(ctx context.Context, id uuid.UUID) (string, error) {
	snap, err := s.source.Snapshot(ctx, id)
	if err != nil {
		return "", fmt.Errorf("loading operation %s: %w", id, err)
	}

	return s.Render(snap), nil
}

// Render formats a snapshot. Closed days include the frozen closing summary;
// open days show the running totals instead.
func (s *Service) Render(snap *operation.Snapshot) string {
	var sb strings.Builder

	op := snap.Operation

	sb.WriteString(fmt.Sprintf("Daily operation %s | distributor %s | %s\n",
		op.Date.Format(time.DateOnly), op.DistributorID, op.Status))
	sb.WriteString(fmt.Sprintf("Opened by %s with %s\n", op.OpenedBy, s.money(op.OpeningCash)))

	sb.WriteString(fmt.Sprintf("\nLoaded products (%d)\n", len(snap.Loaded)))

	for _, p := range snap.Loaded {
		sb.WriteString(fmt.Sprintf("* %s x%d @ %s = %s\n", p.ProductName, p.Quantity, s.money(p.UnitPrice), s.money(p.Total)))
	}

	sb.WriteString(fmt.Sprintf("\nReturned products (%d)\n", len(snap.Returned)))

	for _, p := range snap.Returned {
		sb.WriteString(fmt.Sprintf("* %s x%d @ %s = %s (%s)\n",
			p.ProductName, p.Quantity, s.money(p.UnitPrice), s.money(p.Total), p.Condition))
	}

	sb.WriteString(fmt.Sprintf("\nUnreturned products (%d)\n", len(snap.Unreturned)))

	for _, p := range snap.Unreturned {
		sb.WriteString(fmt.Sprintf("* %s x%d @ %s = %s (%s)\n",
			p.ProductName, p.Quantity, s.money(p.UnitCost), s.money(p.TotalLoss), p.Reason))
	}

	sb.WriteString(fmt.Sprintf("\nExpenses (%d)\n", len(snap.Expenses)))

	for _, e := range snap.Expenses {
		sb.WriteString(fmt.Sprintf("* %s | %s | %s\n", e.Type, e.Description, s.money(e.Amount)))
	}

	sb.WriteString(fmt.Sprintf("\nInvoices (%d)\n", len(snap.Invoices)))

	for _, inv := range snap.Invoices {
		number := inv.InvoiceNumber
		if number == "" {
			number = "s/n"
		}

		sb.WriteString(fmt.Sprintf("* %s #%s | %s | due %s | %s\n",
			inv.ClientName, number, s.money(inv.Amount), inv.DueDate.Format(time.DateOnly), inv.Status))
	}

	sb.WriteString("\nSummary\n")

	if cs := op.ClosingSummary; cs != nil {
		s.line(&sb, "Total sales", cs.TotalSales)
		s.line(&sb, "Total losses", cs.TotalLosses)
		s.line(&sb, "Total expenses", cs.TotalExpenses)
		s.line(&sb, "Expected cash", cs.ExpectedCash)
		s.line(&sb, "Delivered cash", cs.DeliveredCash)
		s.line(&sb, "Variance", cs.Variance)
		sb.WriteString(fmt.Sprintf("Closed by %s at %s\n", cs.ClosedBy, cs.ClosedAt.Format(time.RFC3339)))
	} else {
		s.line(&sb, "Total sales", snap.Stats.TotalSales)
		s.line(&sb, "Total losses", snap.Stats.TotalLosses)
		s.line(&sb, "Total expenses", snap.Stats.TotalExpenses)
		s.line(&sb, "Expected cash", snap.Stats.ExpectedCash)
	}

	if len(snap.Alerts) > 0 {
		sb.WriteString("\nAlerts\n")

		for _, a := range snap.Alerts {
			sb.WriteString(fmt.Sprintf("* [%s] %s: %s\n", a.Severity, a.Type, a.Message))
		}
	}

	return sb.String()
}

func (s *Service) line(sb *strings.Builder, label string, amount decimal.Decimal) {
	sb.WriteString(fmt.Sprintf("%-15s %s\n", label+":", s.money(amount)))
}

// money prints the ISO code followed by the amount grouped for the locale.
func (s *Service) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()

	return s.unit.String() + " " + s.printer.Sprintf("%.2f", f)
}
