package operation

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeStats aggregates the current entries of op. It never caches: callers
// pass the full current entry set each time.
func ComputeStats(op *DailyOperation, e Entries) Stats {
	st := Stats{
		LoadedCount:     len(e.Loaded),
		ReturnedCount:   len(e.Returned),
		UnreturnedCount: len(e.Unreturned),
		ExpenseCount:    len(e.Expenses),
		InvoiceCount:    len(e.Invoices),
	}

	for _, p := range e.Loaded {
		st.TotalSales = st.TotalSales.Add(p.Total)
	}

	for _, p := range e.Returned {
		st.TotalReturned = st.TotalReturned.Add(p.Total)
	}

	for _, p := range e.Unreturned {
		st.TotalLosses = st.TotalLosses.Add(p.TotalLoss)
	}

	for _, x := range e.Expenses {
		st.TotalExpenses = st.TotalExpenses.Add(x.Amount)
	}

	for _, inv := range e.Invoices {
		st.TotalInvoiced = st.TotalInvoiced.Add(inv.Amount)
	}

	st.ExpectedCash = ExpectedCash(op.OpeningCash, st.TotalSales, st.TotalLosses, st.TotalExpenses)

	return st
}

// ExpectedCash is openingCash + sales - losses - expenses.
func ExpectedCash(opening, sales, losses, expenses decimal.Decimal) decimal.Decimal {
	return opening.Add(sales).Sub(losses).Sub(expenses)
}

// Summarize builds the closing reconciliation for op from its current entries.
func Summarize(op *DailyOperation, e Entries, delivered decimal.Decimal, closedBy string, at time.Time) ClosingSummary {
	st := ComputeStats(op, e)

	return ClosingSummary{
		TotalSales:      st.TotalSales,
		TotalExpenses:   st.TotalExpenses,
		TotalLosses:     st.TotalLosses,
		ExpectedCash:    st.ExpectedCash,
		DeliveredCash:   delivered,
		Variance:        delivered.Sub(st.ExpectedCash),
		LoadedCount:     st.LoadedCount,
		ReturnedCount:   st.ReturnedCount,
		UnreturnedCount: st.UnreturnedCount,
		InvoiceCount:    st.InvoiceCount,
		ClosedBy:        closedBy,
		ClosedAt:        at,
	}
}

func lineTotal(quantity int64, unit decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unit)
}
