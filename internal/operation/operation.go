package operation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a daily operation.
type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

// Condition describes the state of a product brought back at day end.
type Condition string

const (
	ConditionGood      Condition = "good"
	ConditionDefective Condition = "defective"
	ConditionReturned  Condition = "returned"
	ConditionDamaged   Condition = "damaged"
)

// LossReason explains why a product was not brought back.
type LossReason string

const (
	ReasonDamage      LossReason = "damage"
	ReasonMalfunction LossReason = "malfunction"
	ReasonExchange    LossReason = "exchange"
	ReasonTheft       LossReason = "theft"
	ReasonOther       LossReason = "other"
)

type ExpenseType string

const (
	ExpenseFuel      ExpenseType = "fuel"
	ExpenseFood      ExpenseType = "food"
	ExpenseTransport ExpenseType = "transport"
	ExpenseLodging   ExpenseType = "lodging"
	ExpenseOther     ExpenseType = "other"
)

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePartial InvoiceStatus = "partial"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoicePaid    InvoiceStatus = "paid"
)

// EntryKind names one of the child collections of a daily operation.
type EntryKind string

const (
	KindLoaded     EntryKind = "loaded"
	KindReturned   EntryKind = "returned"
	KindUnreturned EntryKind = "unreturned"
	KindExpense    EntryKind = "expenses"
	KindInvoice    EntryKind = "invoices"
)

// DailyOperation is one distributor's trading day.
type DailyOperation struct {
	ID             uuid.UUID
	DistributorID  string
	Date           time.Time // calendar day, midnight UTC
	OpeningCash    decimal.Decimal
	Status         Status
	OpenedBy       string
	ClosedBy       string
	ClosedAt       *time.Time
	Notes          string
	ClosingSummary *ClosingSummary
	Removed        bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// LoadedProduct is inventory handed to the distributor at day start.
type LoadedProduct struct {
	ID          uuid.UUID
	OperationID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	RecordedBy  string
	Removed     bool
	CreatedAt   time.Time
}

// ReturnedProduct is inventory brought back at day end.
type ReturnedProduct struct {
	ID          uuid.UUID
	OperationID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	Condition   Condition
	RecordedBy  string
	Removed     bool
	CreatedAt   time.Time
}

// UnreturnedProduct is inventory that did not come back; it is booked as a loss.
type UnreturnedProduct struct {
	ID          uuid.UUID
	OperationID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitCost    decimal.Decimal
	TotalLoss   decimal.Decimal
	Reason      LossReason
	Notes       string
	RecordedBy  string
	Removed     bool
	CreatedAt   time.Time
}

type OperatingExpense struct {
	ID          uuid.UUID
	OperationID uuid.UUID
	Type        ExpenseType
	Description string
	Amount      decimal.Decimal
	SpentAt     time.Time
	RecordedBy  string
	Removed     bool
	CreatedAt   time.Time
}

type PendingInvoice struct {
	ID            uuid.UUID
	OperationID   uuid.UUID
	ClientName    string
	InvoiceNumber string
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        InvoiceStatus
	Observations  string
	RecordedBy    string
	Removed       bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// ClosingSummary is the end-of-day reconciliation, computed once at close.
type ClosingSummary struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TotalLosses     decimal.Decimal `json:"total_losses"`
	ExpectedCash    decimal.Decimal `json:"expected_cash"`
	DeliveredCash   decimal.Decimal `json:"delivered_cash"`
	Variance        decimal.Decimal `json:"variance"`
	LoadedCount     int             `json:"loaded_count"`
	ReturnedCount   int             `json:"returned_count"`
	UnreturnedCount int             `json:"unreturned_count"`
	InvoiceCount    int             `json:"invoice_count"`
	ClosedBy        string          `json:"closed_by"`
	ClosedAt        time.Time       `json:"closed_at"`
}

// Entries groups the child collections of one operation, in store order.
type Entries struct {
	Loaded     []*LoadedProduct
	Returned   []*ReturnedProduct
	Unreturned []*UnreturnedProduct
	Expenses   []*OperatingExpense
	Invoices   []*PendingInvoice
}

// Stats are the running aggregates of an operation, recomputed from its
// current entries on every snapshot.
type Stats struct {
	TotalSales      decimal.Decimal
	TotalReturned   decimal.Decimal
	TotalLosses     decimal.Decimal
	TotalExpenses   decimal.Decimal
	TotalInvoiced   decimal.Decimal
	ExpectedCash    decimal.Decimal
	LoadedCount     int
	ReturnedCount   int
	UnreturnedCount int
	ExpenseCount    int
	InvoiceCount    int
}

// Snapshot is the whole view of one operation at a point in time.
type Snapshot struct {
	Operation *DailyOperation
	Entries
	Stats   Stats
	Alerts  []Alert
	TakenAt time.Time
}
