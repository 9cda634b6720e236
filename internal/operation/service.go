package operation

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/dayledger/internal/catalog"
	"github.com/MrJamesThe3rd/dayledger/internal/logger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=operation
type Repository interface {
	CreateOperation(ctx context.Context, op *DailyOperation) error
	GetOperation(ctx context.Context, id uuid.UUID) (*DailyOperation, error)
	ListOperations(ctx context.Context, filter ListFilter) ([]*DailyOperation, error)
	// CloseOperation re-reads the operation and its entries under a row lock,
	// stores summarize's result and returns the closed operation.
	CloseOperation(ctx context.Context, id uuid.UUID, summarize Summarizer) (*DailyOperation, error)

	CreateLoadedProduct(ctx context.Context, p *LoadedProduct) error
	CreateReturnedProduct(ctx context.Context, p *ReturnedProduct) error
	CreateUnreturnedProduct(ctx context.Context, p *UnreturnedProduct) error
	CreateExpense(ctx context.Context, e *OperatingExpense) error
	CreateInvoice(ctx context.Context, inv *PendingInvoice) error
	UpdateInvoiceStatus(ctx context.Context, operationID, invoiceID uuid.UUID, status InvoiceStatus) error
	RemoveEntry(ctx context.Context, kind EntryKind, operationID, entryID uuid.UUID) error

	ListLoadedProducts(ctx context.Context, operationID uuid.UUID) ([]*LoadedProduct, error)
	ListReturnedProducts(ctx context.Context, operationID uuid.UUID) ([]*ReturnedProduct, error)
	ListUnreturnedProducts(ctx context.Context, operationID uuid.UUID) ([]*UnreturnedProduct, error)
	ListExpenses(ctx context.Context, operationID uuid.UUID) ([]*OperatingExpense, error)
	ListInvoices(ctx context.Context, operationID uuid.UUID) ([]*PendingInvoice, error)
}

// Summarizer builds the closing summary from the entries the store locked.
type Summarizer func(op *DailyOperation, e Entries) ClosingSummary

// Catalog resolves products. The ledger only reads from it.
type Catalog interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// Broker announces that an operation changed so subscribers can reload it.
type Broker interface {
	Publish(ctx context.Context, operationID uuid.UUID) error
}

// Locker guards a key for at most ttl. Obtain returns ErrBusy when the key is held.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

type Service struct {
	repo     Repository
	catalog  Catalog
	broker   Broker
	locker   Locker
	validate *validator.Validate

	policy  AlertPolicy
	loc     *time.Location
	lockTTL time.Duration
	now     func() time.Time
}

type Option func(*Service)

func WithAlertPolicy(p AlertPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLocation sets the timezone that decides which calendar day is "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) { s.lockTTL = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, cat Catalog, broker Broker, locker Locker, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		catalog:  cat,
		broker:   broker,
		locker:   locker,
		validate: newValidator(),
		policy:   DefaultAlertPolicy(),
		loc:      time.UTC,
		lockTTL:  10 * time.Second,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type ListFilter struct {
	DistributorID *string
	Status        *Status
	From          *time.Time
	To            *time.Time
}

type OpenDayParams struct {
	DistributorID string          `validate:"required"`
	Date          time.Time       `validate:"required"`
	OpeningCash   decimal.Decimal `validate:"gt=0"`
	OpenedBy      string          `validate:"required"`
	Notes         string          `validate:"max=500"`
}

type AddLoadedParams struct {
	OperationID uuid.UUID `validate:"required"`
	ProductID   uuid.UUID `validate:"required"`
	Quantity    int64     `validate:"gt=0"`
	// UnitPrice defaults to the catalog unit value when nil.
	UnitPrice  *decimal.Decimal
	RecordedBy string `validate:"required"`
}

type AddReturnedParams struct {
	OperationID uuid.UUID `validate:"required"`
	ProductID   uuid.UUID `validate:"required"`
	Quantity    int64     `validate:"gt=0"`
	UnitPrice   *decimal.Decimal
	Condition   Condition `validate:"required,oneof=good defective returned damaged"`
	RecordedBy  string    `validate:"required"`
}

type AddUnreturnedParams struct {
	OperationID uuid.UUID `validate:"required"`
	ProductID   uuid.UUID `validate:"required"`
	Quantity    int64     `validate:"gt=0"`
	UnitCost    *decimal.Decimal
	Reason      LossReason `validate:"required,oneof=damage malfunction exchange theft other"`
	Notes       string     `validate:"max=500"`
	RecordedBy  string     `validate:"required"`
}

type RegisterExpenseParams struct {
	OperationID uuid.UUID       `validate:"required"`
	Type        ExpenseType     `validate:"required,oneof=fuel food transport lodging other"`
	Description string          `validate:"required,max=500"`
	Amount      decimal.Decimal `validate:"gt=0"`
	// SpentAt defaults to now.
	SpentAt    time.Time
	RecordedBy string `validate:"required"`
}

type CreateInvoiceParams struct {
	OperationID   uuid.UUID       `validate:"required"`
	ClientName    string          `validate:"required"`
	InvoiceNumber string          `validate:"max=100"`
	Amount        decimal.Decimal `validate:"gt=0"`
	DueDate       time.Time       `validate:"required"`
	Observations  string          `validate:"max=500"`
	RecordedBy    string          `validate:"required"`
}

type UpdateInvoiceStatusParams struct {
	OperationID uuid.UUID     `validate:"required"`
	InvoiceID   uuid.UUID     `validate:"required"`
	Status      InvoiceStatus `validate:"required,oneof=pending partial overdue paid"`
	UpdatedBy   string        `validate:"required"`
}

type RemoveEntryParams struct {
	OperationID uuid.UUID `validate:"required"`
	Kind        EntryKind `validate:"required,oneof=loaded returned unreturned expenses invoices"`
	EntryID     uuid.UUID `validate:"required"`
	RemovedBy   string    `validate:"required"`
}

type CloseDayParams struct {
	OperationID   uuid.UUID `validate:"required"`
	DeliveredCash *decimal.Decimal
	ClosedBy      string `validate:"required"`
}

func (s *Service) OpenDay(ctx context.Context, params OpenDayParams) (*DailyOperation, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if err := checkMoney("OpeningCash", params.OpeningCash); err != nil {
		return nil, err
	}

	day := dateOnly(params.Date)
	if day.After(s.today()) {
		return nil, invalid("Date", "must not be in the future")
	}

	op := &DailyOperation{
		DistributorID: params.DistributorID,
		Date:          day,
		OpeningCash:   params.OpeningCash,
		Status:        StatusOpen,
		OpenedBy:      params.OpenedBy,
		Notes:         params.Notes,
	}
	if err := s.repo.CreateOperation(ctx, op); err != nil {
		return nil, storeErr("create operation", err)
	}

	logger.Log.Info().
		Str("operation_id", op.ID.String()).
		Str("distributor_id", op.DistributorID).
		Str("date", op.Date.Format(time.DateOnly)).
		Str("actor", params.OpenedBy).
		Msg("day opened")

	s.notify(ctx, op.ID)

	return op, nil
}

func (s *Service) AddLoadedProduct(ctx context.Context, params AddLoadedParams) (*LoadedProduct, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if err := checkUnitValue("UnitPrice", params.UnitPrice); err != nil {
		return nil, err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return nil, err
	}

	product, err := s.product(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	unit := unitValue(params.UnitPrice, product)
	p := &LoadedProduct{
		OperationID: op.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    params.Quantity,
		UnitPrice:   unit,
		Total:       lineTotal(params.Quantity, unit),
		RecordedBy:  params.RecordedBy,
	}
	if err := s.repo.CreateLoadedProduct(ctx, p); err != nil {
		return nil, writeErr("create loaded product", op.ID, err)
	}

	s.logEntry(op, KindLoaded, p.ID, params.RecordedBy)
	s.notify(ctx, op.ID)

	return p, nil
}

func (s *Service) AddReturnedProduct(ctx context.Context, params AddReturnedParams) (*ReturnedProduct, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if err := checkUnitValue("UnitPrice", params.UnitPrice); err != nil {
		return nil, err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return nil, err
	}

	product, err := s.product(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	unit := unitValue(params.UnitPrice, product)
	p := &ReturnedProduct{
		OperationID: op.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    params.Quantity,
		UnitPrice:   unit,
		Total:       lineTotal(params.Quantity, unit),
		Condition:   params.Condition,
		RecordedBy:  params.RecordedBy,
	}
	if err := s.repo.CreateReturnedProduct(ctx, p); err != nil {
		return nil, writeErr("create returned product", op.ID, err)
	}

	s.logEntry(op, KindReturned, p.ID, params.RecordedBy)
	s.notify(ctx, op.ID)

	return p, nil
}

func (s *Service) AddUnreturnedProduct(ctx context.Context, params AddUnreturnedParams) (*UnreturnedProduct, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if err := checkUnitValue("UnitCost", params.UnitCost); err != nil {
		return nil, err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return nil, err
	}

	product, err := s.product(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	unit := unitValue(params.UnitCost, product)
	p := &UnreturnedProduct{
		OperationID: op.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    params.Quantity,
		UnitCost:    unit,
		TotalLoss:   lineTotal(params.Quantity, unit),
		Reason:      params.Reason,
		Notes:       params.Notes,
		RecordedBy:  params.RecordedBy,
	}
	if err := s.repo.CreateUnreturnedProduct(ctx, p); err != nil {
		return nil, writeErr("create unreturned product", op.ID, err)
	}

	s.logEntry(op, KindUnreturned, p.ID, params.RecordedBy)
	s.notify(ctx, op.ID)

	return p, nil
}

func (s *Service) RegisterExpense(ctx context.Context, params RegisterExpenseParams) (*OperatingExpense, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if err := checkMoney("Amount", params.Amount); err != nil {
		return nil, err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return nil, err
	}

	spentAt := params.SpentAt
	if spentAt.IsZero() {
		spentAt = s.now()
	}

	e := &OperatingExpense{
		OperationID: op.ID,
		Type:        params.Type,
		Description: params.Description,
		Amount:      params.Amount,
		SpentAt:     spentAt,
		RecordedBy:  params.RecordedBy,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, writeErr("create expense", op.ID, err)
	}

	s.logEntry(op, KindExpense, e.ID, params.RecordedBy)
	s.notify(ctx, op.ID)

	return e, nil
}

func (s *Service) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*PendingInvoice, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if err := checkMoney("Amount", params.Amount); err != nil {
		return nil, err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return nil, err
	}

	inv := &PendingInvoice{
		OperationID:   op.ID,
		ClientName:    params.ClientName,
		InvoiceNumber: params.InvoiceNumber,
		Amount:        params.Amount,
		DueDate:       dateOnly(params.DueDate),
		Status:        InvoicePending,
		Observations:  params.Observations,
		RecordedBy:    params.RecordedBy,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, writeErr("create invoice", op.ID, err)
	}

	s.logEntry(op, KindInvoice, inv.ID, params.RecordedBy)
	s.notify(ctx, op.ID)

	return inv, nil
}

func (s *Service) UpdateInvoiceStatus(ctx context.Context, params UpdateInvoiceStatusParams) error {
	if err := s.validateParams(params); err != nil {
		return err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateInvoiceStatus(ctx, op.ID, params.InvoiceID, params.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &NotFoundError{Kind: "invoice", ID: params.InvoiceID.String()}
		}

		if errors.Is(err, ErrNotOpen) {
			return errNoLongerOpen()
		}

		return storeErr("update invoice status", err)
	}

	logger.Log.Info().
		Str("operation_id", op.ID.String()).
		Str("invoice_id", params.InvoiceID.String()).
		Str("status", string(params.Status)).
		Str("actor", params.UpdatedBy).
		Msg("invoice status updated")

	s.notify(ctx, op.ID)

	return nil
}

// RemoveEntry flags one child entry as removed. Removed entries drop out of
// every listing and aggregate but stay in the store.
func (s *Service) RemoveEntry(ctx context.Context, params RemoveEntryParams) error {
	if err := s.validateParams(params); err != nil {
		return err
	}

	op, err := s.requireOpen(ctx, params.OperationID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveEntry(ctx, params.Kind, op.ID, params.EntryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &NotFoundError{Kind: string(params.Kind), ID: params.EntryID.String()}
		}

		if errors.Is(err, ErrNotOpen) {
			return errNoLongerOpen()
		}

		return storeErr("remove entry", err)
	}

	logger.Log.Info().
		Str("operation_id", op.ID.String()).
		Str("kind", string(params.Kind)).
		Str("entry_id", params.EntryID.String()).
		Str("actor", params.RemovedBy).
		Msg("entry removed")

	s.notify(ctx, op.ID)

	return nil
}

// CloseDay reconciles the day and moves it to closed. It is a one-way
// transition; closing a closed day is rejected.
func (s *Service) CloseDay(ctx context.Context, params CloseDayParams) (*DailyOperation, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	if params.DeliveredCash == nil {
		return nil, invalid("DeliveredCash", "is required")
	}

	if err := checkMoney("DeliveredCash", *params.DeliveredCash); err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, closeLockKey(params.OperationID), s.lockTTL)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return nil, invalid("OperationID", "operation is being closed by another request")
		}

		return nil, storeErr("obtain close lock", err)
	}

	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Log.Warn().Err(err).Str("operation_id", params.OperationID.String()).Msg("failed to release close lock")
		}
	}()

	closedAt := s.now()

	op, err := s.repo.CloseOperation(ctx, params.OperationID, func(op *DailyOperation, e Entries) ClosingSummary {
		return Summarize(op, e, *params.DeliveredCash, params.ClosedBy, closedAt)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, &NotFoundError{Kind: "operation", ID: params.OperationID.String()}
		case errors.Is(err, ErrNotOpen):
			return nil, invalid("OperationID", "operation is not open")
		}

		return nil, storeErr("close operation", err)
	}

	summary := op.ClosingSummary

	logger.Log.Info().
		Str("operation_id", op.ID.String()).
		Str("distributor_id", op.DistributorID).
		Str("expected_cash", summary.ExpectedCash.String()).
		Str("delivered_cash", summary.DeliveredCash.String()).
		Str("variance", summary.Variance.String()).
		Str("actor", params.ClosedBy).
		Msg("day closed")

	s.notify(ctx, op.ID)

	return op, nil
}

// PreviewClose computes the reconciliation and alerts a close with the given
// delivered cash would produce, without persisting anything.
func (s *Service) PreviewClose(ctx context.Context, operationID uuid.UUID, delivered decimal.Decimal) (*ClosingSummary, []Alert, error) {
	if err := checkMoney("DeliveredCash", delivered); err != nil {
		return nil, nil, err
	}

	op, err := s.requireOpen(ctx, operationID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.entries(ctx, op.ID)
	if err != nil {
		return nil, nil, err
	}

	summary := Summarize(op, *entries, delivered, "", s.now())
	alerts := GenerateAlerts(AlertInput{
		Summary:    &summary,
		Unreturned: entries.Unreturned,
		Invoices:   entries.Invoices,
		Now:        s.now().In(s.loc),
	}, s.policy)

	return &summary, alerts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DailyOperation, error) {
	op, err := s.repo.GetOperation(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Kind: "operation", ID: id.String()}
		}

		return nil, storeErr("get operation", err)
	}

	return op, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*DailyOperation, error) {
	ops, err := s.repo.ListOperations(ctx, filter)
	if err != nil {
		return nil, storeErr("list operations", err)
	}

	return ops, nil
}

// Snapshot loads the operation with all of its entries and derives stats and
// alerts from them.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()

	return &Snapshot{
		Operation: op,
		Entries:   *entries,
		Stats:     ComputeStats(op, *entries),
		Alerts: GenerateAlerts(AlertInput{
			Summary:    op.ClosingSummary,
			Unreturned: entries.Unreturned,
			Invoices:   entries.Invoices,
			Now:        now.In(s.loc),
		}, s.policy),
		TakenAt: now,
	}, nil
}

func (s *Service) entries(ctx context.Context, id uuid.UUID) (*Entries, error) {
	var e Entries

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		e.Loaded, err = s.repo.ListLoadedProducts(gctx, id)

		return err
	})
	g.Go(func() error {
		var err error
		e.Returned, err = s.repo.ListReturnedProducts(gctx, id)

		return err
	})
	g.Go(func() error {
		var err error
		e.Unreturned, err = s.repo.ListUnreturnedProducts(gctx, id)

		return err
	})
	g.Go(func() error {
		var err error
		e.Expenses, err = s.repo.ListExpenses(gctx, id)

		return err
	})
	g.Go(func() error {
		var err error
		e.Invoices, err = s.repo.ListInvoices(gctx, id)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeErr("load entries", err)
	}

	return &e, nil
}

func (s *Service) requireOpen(ctx context.Context, id uuid.UUID) (*DailyOperation, error) {
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if op.Status != StatusOpen {
		return nil, invalid("OperationID", "operation is "+string(op.Status))
	}

	return op, nil
}

func (s *Service) product(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &NotFoundError{Kind: "product", ID: id.String()}
		}

		return nil, storeErr("get product", err)
	}

	return p, nil
}

// notify publishes a change. The write already happened, so a failed publish
// is logged and not returned.
func (s *Service) notify(ctx context.Context, id uuid.UUID) {
	if err := s.broker.Publish(ctx, id); err != nil {
		logger.Log.Error().Err(err).Str("operation_id", id.String()).Msg("failed to publish operation change")
	}
}

func (s *Service) logEntry(op *DailyOperation, kind EntryKind, entryID uuid.UUID, actor string) {
	logger.Log.Info().
		Str("operation_id", op.ID.String()).
		Str("kind", string(kind)).
		Str("entry_id", entryID.String()).
		Str("actor", actor).
		Msg("entry added")
}

func (s *Service) today() time.Time {
	return dateOnly(s.now().In(s.loc))
}

func closeLockKey(id uuid.UUID) string {
	return "operation:" + id.String() + ":close"
}

func unitValue(given *decimal.Decimal, p *catalog.Product) decimal.Decimal {
	if given != nil {
		return *given
	}

	return p.UnitValue
}

func checkUnitValue(field string, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}

	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}

	return checkMoney(field, *v)
}

// checkMoney rejects amounts finer than a cent.
func checkMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return invalid(field, "must have at most 2 decimal places")
	}

	return nil
}

// writeErr maps a failed child write. The store re-checks the parent under a
// row lock, so a day closed since requireOpen surfaces here as ErrNotOpen.
func writeErr(op string, operationID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, ErrNotOpen):
		return errNoLongerOpen()
	case errors.Is(err, ErrNotFound):
		return &NotFoundError{Kind: "operation", ID: operationID.String()}
	}

	return storeErr(op, err)
}

func errNoLongerOpen() error {
	return invalid("OperationID", "operation is no longer open")
}
