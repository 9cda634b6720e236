package operation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertCashVariance       AlertType = "cash_variance"
	AlertUnreturnedProducts AlertType = "unreturned_products"
	AlertOverdueInvoices    AlertType = "overdue_invoices"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// criticalFactor multiplies the variance threshold to get the critical bound.
const criticalFactor = 5

// Alert is advisory. It is derived from a snapshot and never persisted.
type Alert struct {
	Type     AlertType
	Severity Severity
	Message  string
	Expected *decimal.Decimal
	Actual   *decimal.Decimal
	Variance *decimal.Decimal
	Count    int
}

type AlertPolicy struct {
	VarianceThreshold decimal.Decimal
}

func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{VarianceThreshold: decimal.NewFromInt(1000)}
}

// AlertInput is what alert generation looks at. Summary is nil until the day
// is closed or a close is previewed; without it no cash variance is reported.
type AlertInput struct {
	Summary    *ClosingSummary
	Unreturned []*UnreturnedProduct
	Invoices   []*PendingInvoice
	Now        time.Time
}

func GenerateAlerts(in AlertInput, policy AlertPolicy) []Alert {
	var alerts []Alert

	if a, ok := cashVarianceAlert(in.Summary, policy); ok {
		alerts = append(alerts, a)
	}

	if n := len(in.Unreturned); n > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertUnreturnedProducts,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("%d product(s) were not returned", n),
			Count:    n,
		})
	}

	if n := countOverdue(in.Invoices, in.Now); n > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertOverdueInvoices,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%d invoice(s) are past their due date", n),
			Count:    n,
		})
	}

	return alerts
}

func cashVarianceAlert(s *ClosingSummary, policy AlertPolicy) (Alert, bool) {
	if s == nil {
		return Alert{}, false
	}

	magnitude := s.Variance.Abs()
	if !magnitude.GreaterThan(policy.VarianceThreshold) {
		return Alert{}, false
	}

	severity := SeverityHigh
	if magnitude.GreaterThan(policy.VarianceThreshold.Mul(decimal.NewFromInt(criticalFactor))) {
		severity = SeverityCritical
	}

	expected, actual, variance := s.ExpectedCash, s.DeliveredCash, s.Variance

	return Alert{
		Type:     AlertCashVariance,
		Severity: severity,
		Message: fmt.Sprintf("delivered cash %s differs from expected %s by %s",
			actual.StringFixed(2), expected.StringFixed(2), variance.StringFixed(2)),
		Expected: &expected,
		Actual:   &actual,
		Variance: &variance,
	}, true
}

// countOverdue counts unpaid invoices whose due day is before the day of now.
// Due dates are calendar days, so an invoice due today is not overdue yet.
func countOverdue(invoices []*PendingInvoice, now time.Time) int {
	today := dateOnly(now)

	var n int

	for _, inv := range invoices {
		if inv.Status == InvoicePaid {
			continue
		}

		if dateOnly(inv.DueDate).Before(today) {
			n++
		}
	}

	return n
}

// dateOnly keeps the calendar day of t as midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
