package operation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dayledger/internal/operation"
)

type operationResponse struct {
	ID             uuid.UUID                 `json:"id"`
	DistributorID  string                    `json:"distributor_id"`
	Date           string                    `json:"date"`
	OpeningCash    decimal.Decimal           `json:"opening_cash"`
	Status         operation.Status          `json:"status"`
	OpenedBy       string                    `json:"opened_by"`
	ClosedBy       string                    `json:"closed_by,omitempty"`
	ClosedAt       *time.Time                `json:"closed_at,omitempty"`
	Notes          string                    `json:"notes,omitempty"`
	ClosingSummary *operation.ClosingSummary `json:"closing_summary,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      *time.Time                `json:"updated_at,omitempty"`
}

type loadedResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	RecordedBy  string          `json:"recorded_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type returnedResponse struct {
	ID          uuid.UUID           `json:"id"`
	ProductID   uuid.UUID           `json:"product_id"`
	ProductName string              `json:"product_name"`
	Quantity    int64               `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Total       decimal.Decimal     `json:"total"`
	Condition   operation.Condition `json:"condition"`
	RecordedBy  string              `json:"recorded_by"`
	CreatedAt   time.Time           `json:"created_at"`
}

type unreturnedResponse struct {
	ID          uuid.UUID            `json:"id"`
	ProductID   uuid.UUID            `json:"product_id"`
	ProductName string               `json:"product_name"`
	Quantity    int64                `json:"quantity"`
	UnitCost    decimal.Decimal      `json:"unit_cost"`
	TotalLoss   decimal.Decimal      `json:"total_loss"`
	Reason      operation.LossReason `json:"reason"`
	Notes       string               `json:"notes,omitempty"`
	RecordedBy  string               `json:"recorded_by"`
	CreatedAt   time.Time            `json:"created_at"`
}

type expenseResponse struct {
	ID          uuid.UUID             `json:"id"`
	Type        operation.ExpenseType `json:"type"`
	Description string                `json:"description"`
	Amount      decimal.Decimal       `json:"amount"`
	SpentAt     time.Time             `json:"spent_at"`
	RecordedBy  string                `json:"recorded_by"`
	CreatedAt   time.Time             `json:"created_at"`
}

type invoiceResponse struct {
	ID            uuid.UUID               `json:"id"`
	ClientName    string                  `json:"client_name"`
	InvoiceNumber string                  `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal         `json:"amount"`
	DueDate       string                  `json:"due_date"`
	Status        operation.InvoiceStatus `json:"status"`
	Observations  string                  `json:"observations,omitempty"`
	RecordedBy    string                  `json:"recorded_by"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     *time.Time              `json:"updated_at,omitempty"`
}

type statsResponse struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalReturned   decimal.Decimal `json:"total_returned"`
	TotalLosses     decimal.Decimal `json:"total_losses"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TotalInvoiced   decimal.Decimal `json:"total_invoiced"`
	ExpectedCash    decimal.Decimal `json:"expected_cash"`
	LoadedCount     int             `json:"loaded_count"`
	ReturnedCount   int             `json:"returned_count"`
	UnreturnedCount int             `json:"unreturned_count"`
	ExpenseCount    int             `json:"expense_count"`
	InvoiceCount    int             `json:"invoice_count"`
}

type alertResponse struct {
	Type     operation.AlertType `json:"type"`
	Severity operation.Severity  `json:"severity"`
	Message  string              `json:"message"`
	Expected *decimal.Decimal    `json:"expected,omitempty"`
	Actual   *decimal.Decimal    `json:"actual,omitempty"`
	Variance *decimal.Decimal    `json:"variance,omitempty"`
	Count    int                 `json:"count,omitempty"`
}

type snapshotResponse struct {
	Operation  operationResponse    `json:"operation"`
	Loaded     []loadedResponse     `json:"loaded"`
	Returned   []returnedResponse   `json:"returned"`
	Unreturned []unreturnedResponse `json:"unreturned"`
	Expenses   []expenseResponse    `json:"expenses"`
	Invoices   []invoiceResponse    `json:"invoices"`
	Stats      statsResponse        `json:"stats"`
	Alerts     []alertResponse      `json:"alerts"`
	TakenAt    time.Time            `json:"taken_at"`
}

type previewResponse struct {
	Summary *operation.ClosingSummary `json:"summary"`
	Alerts  []alertResponse           `json:"alerts"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func toOperationResponse(op *operation.DailyOperation) operationResponse {
	return operationResponse{
		ID:             op.ID,
		DistributorID:  op.DistributorID,
		Date:           op.Date.Format(time.DateOnly),
		OpeningCash:    op.OpeningCash,
		Status:         op.Status,
		OpenedBy:       op.OpenedBy,
		ClosedBy:       op.ClosedBy,
		ClosedAt:       op.ClosedAt,
		Notes:          op.Notes,
		ClosingSummary: op.ClosingSummary,
		CreatedAt:      op.CreatedAt,
		UpdatedAt:      op.UpdatedAt,
	}
}

func toOperationResponseList(ops []*operation.DailyOperation) []operationResponse {
	resp := make([]operationResponse, len(ops))
	for i, op := range ops {
		resp[i] = toOperationResponse(op)
	}

	return resp
}

func toLoadedResponse(p *operation.LoadedProduct) loadedResponse {
	return loadedResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		Total:       p.Total,
		RecordedBy:  p.RecordedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toReturnedResponse(p *operation.ReturnedProduct) returnedResponse {
	return returnedResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		Total:       p.Total,
		Condition:   p.Condition,
		RecordedBy:  p.RecordedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toUnreturnedResponse(p *operation.UnreturnedProduct) unreturnedResponse {
	return unreturnedResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		UnitCost:    p.UnitCost,
		TotalLoss:   p.TotalLoss,
		Reason:      p.Reason,
		Notes:       p.Notes,
		RecordedBy:  p.RecordedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toExpenseResponse(e *operation.OperatingExpense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Type:        e.Type,
		Description: e.Description,
		Amount:      e.Amount,
		SpentAt:     e.SpentAt,
		RecordedBy:  e.RecordedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toInvoiceResponse(inv *operation.PendingInvoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		ClientName:    inv.ClientName,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		DueDate:       inv.DueDate.Format(time.DateOnly),
		Status:        inv.Status,
		Observations:  inv.Observations,
		RecordedBy:    inv.RecordedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toAlertResponses(alerts []operation.Alert) []alertResponse {
	resp := make([]alertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = alertResponse{
			Type:     a.Type,
			Severity: a.Severity,
			Message:  a.Message,
			Expected: a.Expected,
			Actual:   a.Actual,
			Variance: a.Variance,
			Count:    a.Count,
		}
	}

	return resp
}

func toSnapshotResponse(s *operation.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Operation:  toOperationResponse(s.Operation),
		Loaded:     make([]loadedResponse, len(s.Loaded)),
		Returned:   make([]returnedResponse, len(s.Returned)),
		Unreturned: make([]unreturnedResponse, len(s.Unreturned)),
		Expenses:   make([]expenseResponse, len(s.Expenses)),
		Invoices:   make([]invoiceResponse, len(s.Invoices)),
		Stats: statsResponse{
			TotalSales:      s.Stats.TotalSales,
			TotalReturned:   s.Stats.TotalReturned,
			TotalLosses:     s.Stats.TotalLosses,
			TotalExpenses:   s.Stats.TotalExpenses,
			TotalInvoiced:   s.Stats.TotalInvoiced,
			ExpectedCash:    s.Stats.ExpectedCash,
			LoadedCount:     s.Stats.LoadedCount,
			ReturnedCount:   s.Stats.ReturnedCount,
			UnreturnedCount: s.Stats.UnreturnedCount,
			ExpenseCount:    s.Stats.ExpenseCount,
			InvoiceCount:    s.Stats.InvoiceCount,
		},
		Alerts:  toAlertResponses(s.Alerts),
		TakenAt: s.TakenAt,
	}

	for i, p := range s.Loaded {
		resp.Loaded[i] = toLoadedResponse(p)
	}

	for i, p := range s.Returned {
		resp.Returned[i] = toReturnedResponse(p)
	}

	for i, p := range s.Unreturned {
		resp.Unreturned[i] = toUnreturnedResponse(p)
	}

	for i, e := range s.Expenses {
		resp.Expenses[i] = toExpenseResponse(e)
	}

	for i, inv := range s.Invoices {
		resp.Invoices[i] = toInvoiceResponse(inv)
	}

	return resp
}
