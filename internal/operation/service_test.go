package operation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dayledger/internal/catalog"
	"github.com/MrJamesThe3rd/dayledger/internal/operation"
)

var fixedNow = time.Date(2025, 9, 10, 15, 0, 0, 0, time.UTC)

type mocks struct {
	repo    *operation.MockRepository
	catalog *operation.MockCatalog
	broker  *operation.MockBroker
	locker  *operation.MockLocker
}

func newService(t *testing.T) (*operation.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:    operation.NewMockRepository(ctrl),
		catalog: operation.NewMockCatalog(ctrl),
		broker:  operation.NewMockBroker(ctrl),
		locker:  operation.NewMockLocker(ctrl),
	}

	svc := operation.NewService(m.repo, m.catalog, m.broker, m.locker,
		operation.WithClock(func() time.Time { return fixedNow }),
	)

	return svc, m
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func openOp(id uuid.UUID) *operation.DailyOperation {
	return &operation.DailyOperation{
		ID:            id,
		DistributorID: "dist-1",
		Date:          time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		OpeningCash:   dec(50000),
		Status:        operation.StatusOpen,
		OpenedBy:      "user-1",
	}
}

func expectEntries(m *operation.MockRepository, id uuid.UUID, e operation.Entries) {
	m.EXPECT().ListLoadedProducts(gomock.Any(), id).Return(e.Loaded, nil)
	m.EXPECT().ListReturnedProducts(gomock.Any(), id).Return(e.Returned, nil)
	m.EXPECT().ListUnreturnedProducts(gomock.Any(), id).Return(e.Unreturned, nil)
	m.EXPECT().ListExpenses(gomock.Any(), id).Return(e.Expenses, nil)
	m.EXPECT().ListInvoices(gomock.Any(), id).Return(e.Invoices, nil)
}

// dayEntries is a day with 10000 in sales, a 1000 loss and a 2000 expense.
func dayEntries(id uuid.UUID) operation.Entries {
	return operation.Entries{
		Loaded: []*operation.LoadedProduct{
			{ID: uuid.New(), OperationID: id, ProductName: "Soda", Quantity: 10, UnitPrice: dec(1000), Total: dec(10000)},
		},
		Unreturned: []*operation.UnreturnedProduct{
			{ID: uuid.New(), OperationID: id, ProductName: "Chips", Quantity: 2, UnitCost: dec(500), TotalLoss: dec(1000), Reason: operation.ReasonDamage},
		},
		Expenses: []*operation.OperatingExpense{
			{ID: uuid.New(), OperationID: id, Type: operation.ExpenseFuel, Description: "Gas", Amount: dec(2000)},
		},
	}
}

func noopRelease(context.Context) error { return nil }

func TestService_OpenDay(t *testing.T) {
	type args struct {
		params operation.OpenDayParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m mocks)
		wantField string
		wantStore bool
	}

	valid := operation.OpenDayParams{
		DistributorID: "dist-1",
		Date:          time.Date(2025, 9, 10, 6, 30, 0, 0, time.UTC),
		OpeningCash:   dec(50000),
		OpenedBy:      "user-1",
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: valid},
			setupMock: func(m mocks) {
				m.repo.EXPECT().
					CreateOperation(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, op *operation.DailyOperation) error {
						op.ID = uuid.New()
						return nil
					})
				m.broker.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "PublishFailureIsNotReturned",
			args: args{params: valid},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateOperation(gomock.Any(), gomock.Any()).Return(nil)
				m.broker.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
		},
		{
			name: "ZeroOpeningCash",
			args: args{params: operation.OpenDayParams{
				DistributorID: "dist-1",
				Date:          valid.Date,
				OpeningCash:   decimal.Zero,
				OpenedBy:      "user-1",
			}},
			wantField: "OpeningCash",
		},
		{
			name: "SubCentOpeningCash",
			args: args{params: operation.OpenDayParams{
				DistributorID: "dist-1",
				Date:          valid.Date,
				OpeningCash:   decimal.RequireFromString("0.004"),
				OpenedBy:      "user-1",
			}},
			wantField: "OpeningCash",
		},
		{
			name: "MissingDistributor",
			args: args{params: operation.OpenDayParams{
				Date:        valid.Date,
				OpeningCash: dec(100),
				OpenedBy:    "user-1",
			}},
			wantField: "DistributorID",
		},
		{
			name: "FutureDate",
			args: args{params: operation.OpenDayParams{
				DistributorID: "dist-1",
				Date:          fixedNow.AddDate(0, 0, 1),
				OpeningCash:   dec(100),
				OpenedBy:      "user-1",
			}},
			wantField: "Date",
		},
		{
			name: "RepoError",
			args: args{params: valid},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateOperation(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantStore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.OpenDay(context.Background(), tt.args.params)

			if tt.wantField != "" {
				var verr *operation.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				assert.Nil(t, got)

				return
			}

			if tt.wantStore {
				assert.ErrorIs(t, err, operation.ErrStore)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, operation.StatusOpen, got.Status)
			assert.Equal(t, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), got.Date)
		})
	}
}

func TestService_AddLoadedProduct(t *testing.T) {
	opID := uuid.New()
	productID := uuid.New()
	soda := &catalog.Product{ID: productID, Name: "Soda", Quantity: 100, UnitValue: dec(1000)}

	type testCase struct {
		name      string
		params    operation.AddLoadedParams
		setupMock func(m mocks)
		wantTotal decimal.Decimal
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "CatalogPrice",
			params: operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 10, RecordedBy: "user-1"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.catalog.EXPECT().Get(gomock.Any(), productID).Return(soda, nil)
				m.repo.EXPECT().CreateLoadedProduct(gomock.Any(), gomock.Any()).Return(nil)
				m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)
			},
			wantTotal: dec(10000),
		},
		{
			name: "ExplicitPrice",
			params: operation.AddLoadedParams{
				OperationID: opID, ProductID: productID, Quantity: 3, UnitPrice: new(decimal.RequireFromString("1250.50")), RecordedBy: "user-1",
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.catalog.EXPECT().Get(gomock.Any(), productID).Return(soda, nil)
				m.repo.EXPECT().CreateLoadedProduct(gomock.Any(), gomock.Any()).Return(nil)
				m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)
			},
			wantTotal: decimal.RequireFromString("3751.50"),
		},
		{
			name:    "ZeroQuantity",
			params:  operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 0, RecordedBy: "user-1"},
			wantErr: operation.ErrValidation,
		},
		{
			name: "NegativePrice",
			params: operation.AddLoadedParams{
				OperationID: opID, ProductID: productID, Quantity: 1, UnitPrice: new(dec(-1)), RecordedBy: "user-1",
			},
			wantErr: operation.ErrValidation,
		},
		{
			name:   "ClosedOperation",
			params: operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 1, RecordedBy: "user-1"},
			setupMock: func(m mocks) {
				op := openOp(opID)
				op.Status = operation.StatusClosed
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(op, nil)
			},
			wantErr: operation.ErrValidation,
		},
		{
			name: "SubCentPrice",
			params: operation.AddLoadedParams{
				OperationID: opID, ProductID: productID, Quantity: 3, UnitPrice: new(decimal.RequireFromString("0.335")), RecordedBy: "user-1",
			},
			wantErr: operation.ErrValidation,
		},
		{
			name:   "ClosedBeforeInsert",
			params: operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 1, RecordedBy: "user-1"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.catalog.EXPECT().Get(gomock.Any(), productID).Return(soda, nil)
				m.repo.EXPECT().CreateLoadedProduct(gomock.Any(), gomock.Any()).Return(operation.ErrNotOpen)
			},
			wantErr: operation.ErrValidation,
		},
		{
			name:   "UnknownOperation",
			params: operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 1, RecordedBy: "user-1"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(nil, operation.ErrNotFound)
			},
			wantErr: operation.ErrNotFound,
		},
		{
			name:   "UnknownProduct",
			params: operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 1, RecordedBy: "user-1"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.catalog.EXPECT().Get(gomock.Any(), productID).Return(nil, catalog.ErrNotFound)
			},
			wantErr: operation.ErrNotFound,
		},
		{
			name:   "StoreFailure",
			params: operation.AddLoadedParams{OperationID: opID, ProductID: productID, Quantity: 1, RecordedBy: "user-1"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.catalog.EXPECT().Get(gomock.Any(), productID).Return(soda, nil)
				m.repo.EXPECT().CreateLoadedProduct(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantErr: operation.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.AddLoadedProduct(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Soda", got.ProductName)
			assert.True(t, tt.wantTotal.Equal(got.Total), "total %s, want %s", got.Total, tt.wantTotal)
		})
	}
}

func TestService_AddUnreturnedProduct(t *testing.T) {
	svc, m := newService(t)

	opID, productID := uuid.New(), uuid.New()

	m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
	m.catalog.EXPECT().Get(gomock.Any(), productID).Return(&catalog.Product{ID: productID, Name: "Chips", UnitValue: dec(500)}, nil)
	m.repo.EXPECT().CreateUnreturnedProduct(gomock.Any(), gomock.Any()).Return(nil)
	m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)

	got, err := svc.AddUnreturnedProduct(context.Background(), operation.AddUnreturnedParams{
		OperationID: opID,
		ProductID:   productID,
		Quantity:    2,
		Reason:      operation.ReasonTheft,
		RecordedBy:  "user-1",
	})

	require.NoError(t, err)
	assert.True(t, dec(1000).Equal(got.TotalLoss))
	assert.Equal(t, operation.ReasonTheft, got.Reason)
}

func TestService_AddReturnedProduct_InvalidCondition(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddReturnedProduct(context.Background(), operation.AddReturnedParams{
		OperationID: uuid.New(),
		ProductID:   uuid.New(),
		Quantity:    1,
		Condition:   "lost",
		RecordedBy:  "user-1",
	})

	var verr *operation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Condition", verr.Field)
}

func TestService_RegisterExpense(t *testing.T) {
	svc, m := newService(t)

	opID := uuid.New()

	m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
	m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
	m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)

	got, err := svc.RegisterExpense(context.Background(), operation.RegisterExpenseParams{
		OperationID: opID,
		Type:        operation.ExpenseFood,
		Description: "Lunch",
		Amount:      dec(15000),
		RecordedBy:  "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, got.SpentAt)
}

func TestService_SubCentAmounts(t *testing.T) {
	opID := uuid.New()

	tests := []struct {
		name      string
		call      func(svc *operation.Service) error
		wantField string
	}{
		{
			name: "ExpenseAmount",
			call: func(svc *operation.Service) error {
				_, err := svc.RegisterExpense(context.Background(), operation.RegisterExpenseParams{
					OperationID: opID, Type: operation.ExpenseFuel, Description: "Gas",
					Amount: decimal.RequireFromString("10.005"), RecordedBy: "user-1",
				})
				return err
			},
			wantField: "Amount",
		},
		{
			name: "InvoiceAmount",
			call: func(svc *operation.Service) error {
				_, err := svc.CreateInvoice(context.Background(), operation.CreateInvoiceParams{
					OperationID: opID, ClientName: "Tienda", Amount: decimal.RequireFromString("99.999"),
					DueDate: fixedNow, RecordedBy: "user-1",
				})
				return err
			},
			wantField: "Amount",
		},
		{
			name: "UnreturnedCost",
			call: func(svc *operation.Service) error {
				_, err := svc.AddUnreturnedProduct(context.Background(), operation.AddUnreturnedParams{
					OperationID: opID, ProductID: uuid.New(), Quantity: 1, UnitCost: new(decimal.RequireFromString("0.125")),
					Reason: operation.ReasonDamage, RecordedBy: "user-1",
				})
				return err
			},
			wantField: "UnitCost",
		},
		{
			name: "PreviewDelivered",
			call: func(svc *operation.Service) error {
				_, _, err := svc.PreviewClose(context.Background(), opID, decimal.RequireFromString("1.001"))
				return err
			},
			wantField: "DeliveredCash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			err := tt.call(svc)

			var verr *operation.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestService_CreateInvoice(t *testing.T) {
	svc, m := newService(t)

	opID := uuid.New()

	m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
	m.repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
	m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)

	got, err := svc.CreateInvoice(context.Background(), operation.CreateInvoiceParams{
		OperationID: opID,
		ClientName:  "Tienda La 14",
		Amount:      dec(30000),
		DueDate:     time.Date(2025, 9, 20, 18, 0, 0, 0, time.UTC),
		RecordedBy:  "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, operation.InvoicePending, got.Status)
	assert.Equal(t, time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC), got.DueDate)
}

func TestService_UpdateInvoiceStatus(t *testing.T) {
	opID, invoiceID := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		status    operation.InvoiceStatus
		setupMock func(m mocks)
		wantErr   error
	}{
		{
			name:   "Success",
			status: operation.InvoicePaid,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.repo.EXPECT().UpdateInvoiceStatus(gomock.Any(), opID, invoiceID, operation.InvoicePaid).Return(nil)
				m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)
			},
		},
		{
			name:    "UnknownStatus",
			status:  "cancelled",
			wantErr: operation.ErrValidation,
		},
		{
			name:   "UnknownInvoice",
			status: operation.InvoicePartial,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.repo.EXPECT().UpdateInvoiceStatus(gomock.Any(), opID, invoiceID, operation.InvoicePartial).Return(operation.ErrNotFound)
			},
			wantErr: operation.ErrNotFound,
		},
		{
			name:   "ClosedBeforeUpdate",
			status: operation.InvoicePaid,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.repo.EXPECT().UpdateInvoiceStatus(gomock.Any(), opID, invoiceID, operation.InvoicePaid).Return(operation.ErrNotOpen)
			},
			wantErr: operation.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			err := svc.UpdateInvoiceStatus(context.Background(), operation.UpdateInvoiceStatusParams{
				OperationID: opID,
				InvoiceID:   invoiceID,
				Status:      tt.status,
				UpdatedBy:   "user-1",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_RemoveEntry(t *testing.T) {
	opID, entryID := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		kind      operation.EntryKind
		setupMock func(m mocks)
		wantErr   error
	}{
		{
			name: "Success",
			kind: operation.KindExpense,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.repo.EXPECT().RemoveEntry(gomock.Any(), operation.KindExpense, opID, entryID).Return(nil)
				m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)
			},
		},
		{
			name:    "UnknownKind",
			kind:    "operations",
			wantErr: operation.ErrValidation,
		},
		{
			name: "AlreadyRemoved",
			kind: operation.KindLoaded,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.repo.EXPECT().RemoveEntry(gomock.Any(), operation.KindLoaded, opID, entryID).Return(operation.ErrNotFound)
			},
			wantErr: operation.ErrNotFound,
		},
		{
			name: "ClosedBeforeRemove",
			kind: operation.KindInvoice,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
				m.repo.EXPECT().RemoveEntry(gomock.Any(), operation.KindInvoice, opID, entryID).Return(operation.ErrNotOpen)
			},
			wantErr: operation.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			err := svc.RemoveEntry(context.Background(), operation.RemoveEntryParams{
				OperationID: opID,
				Kind:        tt.kind,
				EntryID:     entryID,
				RemovedBy:   "user-1",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

// closeAs makes CloseOperation behave like the store: summarize what is locked
// and return the operation in its closed state.
func closeAs(m *operation.MockRepository, op *operation.DailyOperation, e operation.Entries, check func(operation.ClosingSummary)) {
	m.EXPECT().
		CloseOperation(gomock.Any(), op.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, summarize operation.Summarizer) (*operation.DailyOperation, error) {
			s := summarize(op, e)
			if check != nil {
				check(s)
			}

			closed := *op
			closed.Status = operation.StatusClosed
			closed.ClosedBy = s.ClosedBy
			closed.ClosedAt = new(s.ClosedAt)
			closed.ClosingSummary = &s

			return &closed, nil
		})
}

func TestService_CloseDay(t *testing.T) {
	opID := uuid.New()

	type testCase struct {
		name         string
		delivered    *decimal.Decimal
		setupMock    func(m mocks)
		wantVariance decimal.Decimal
		wantErr      error
	}

	tests := []testCase{
		{
			name:      "Balanced",
			delivered: new(dec(57000)),
			setupMock: func(m mocks) {
				m.locker.EXPECT().Obtain(gomock.Any(), "operation:"+opID.String()+":close", 10*time.Second).Return(noopRelease, nil)
				closeAs(m.repo, openOp(opID), dayEntries(opID), func(s operation.ClosingSummary) {
					assert.True(t, dec(57000).Equal(s.ExpectedCash))
					assert.True(t, dec(10000).Equal(s.TotalSales))
					assert.True(t, dec(1000).Equal(s.TotalLosses))
					assert.True(t, dec(2000).Equal(s.TotalExpenses))
					assert.Equal(t, "user-2", s.ClosedBy)
					assert.Equal(t, fixedNow, s.ClosedAt)
				})
				m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)
			},
			wantVariance: decimal.Zero,
		},
		{
			name:      "Short",
			delivered: new(dec(50000)),
			setupMock: func(m mocks) {
				m.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(noopRelease, nil)
				closeAs(m.repo, openOp(opID), dayEntries(opID), nil)
				m.broker.EXPECT().Publish(gomock.Any(), opID).Return(nil)
			},
			wantVariance: dec(-7000),
		},
		{
			name:    "MissingDeliveredCash",
			wantErr: operation.ErrValidation,
		},
		{
			name:      "SubCentDeliveredCash",
			delivered: new(decimal.RequireFromString("57000.001")),
			wantErr:   operation.ErrValidation,
		},
		{
			name:      "AlreadyClosed",
			delivered: new(dec(57000)),
			setupMock: func(m mocks) {
				m.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(noopRelease, nil)
				m.repo.EXPECT().CloseOperation(gomock.Any(), opID, gomock.Any()).Return(nil, operation.ErrNotOpen)
			},
			wantErr: operation.ErrValidation,
		},
		{
			name:      "UnknownOperation",
			delivered: new(dec(57000)),
			setupMock: func(m mocks) {
				m.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(noopRelease, nil)
				m.repo.EXPECT().CloseOperation(gomock.Any(), opID, gomock.Any()).Return(nil, operation.ErrNotFound)
			},
			wantErr: operation.ErrNotFound,
		},
		{
			name:      "LockHeld",
			delivered: new(dec(57000)),
			setupMock: func(m mocks) {
				m.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, operation.ErrBusy)
			},
			wantErr: operation.ErrValidation,
		},
		{
			name:      "StoreFailure",
			delivered: new(dec(57000)),
			setupMock: func(m mocks) {
				m.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(noopRelease, nil)
				m.repo.EXPECT().CloseOperation(gomock.Any(), opID, gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantErr: operation.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.CloseDay(context.Background(), operation.CloseDayParams{
				OperationID:   opID,
				DeliveredCash: tt.delivered,
				ClosedBy:      "user-2",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got.ClosingSummary)
			assert.Equal(t, operation.StatusClosed, got.Status)
			assert.Equal(t, "user-2", got.ClosedBy)
			assert.Equal(t, fixedNow, *got.ClosedAt)
			assert.True(t, tt.wantVariance.Equal(got.ClosingSummary.Variance),
				"variance %s, want %s", got.ClosingSummary.Variance, tt.wantVariance)
		})
	}
}

func TestService_CloseDay_ReleasesLock(t *testing.T) {
	svc, m := newService(t)

	opID := uuid.New()
	released := false

	m.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(func(context.Context) error {
		released = true
		return nil
	}, nil)
	m.repo.EXPECT().CloseOperation(gomock.Any(), opID, gomock.Any()).Return(nil, operation.ErrNotFound)

	_, err := svc.CloseDay(context.Background(), operation.CloseDayParams{
		OperationID:   opID,
		DeliveredCash: new(dec(1)),
		ClosedBy:      "user-2",
	})

	assert.ErrorIs(t, err, operation.ErrNotFound)
	assert.True(t, released)
}

func TestService_PreviewClose(t *testing.T) {
	svc, m := newService(t)

	opID := uuid.New()

	m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
	expectEntries(m.repo, opID, dayEntries(opID))

	summary, alerts, err := svc.PreviewClose(context.Background(), opID, dec(50000))

	require.NoError(t, err)
	assert.True(t, dec(-7000).Equal(summary.Variance))
	require.Len(t, alerts, 2)
	assert.Equal(t, operation.AlertCashVariance, alerts[0].Type)
	assert.Equal(t, operation.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, operation.AlertUnreturnedProducts, alerts[1].Type)
}

func TestService_Snapshot(t *testing.T) {
	opID := uuid.New()

	t.Run("OpenDayWithOverdueInvoice", func(t *testing.T) {
		svc, m := newService(t)

		entries := dayEntries(opID)
		entries.Unreturned = nil
		entries.Invoices = []*operation.PendingInvoice{
			{ID: uuid.New(), ClientName: "A", Amount: dec(100), DueDate: time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC), Status: operation.InvoicePending},
			{ID: uuid.New(), ClientName: "B", Amount: dec(100), DueDate: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), Status: operation.InvoicePending},
			{ID: uuid.New(), ClientName: "C", Amount: dec(100), DueDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Status: operation.InvoicePaid},
		}

		m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(openOp(opID), nil)
		expectEntries(m.repo, opID, entries)

		snap, err := svc.Snapshot(context.Background(), opID)

		require.NoError(t, err)
		assert.Equal(t, fixedNow, snap.TakenAt)
		assert.True(t, dec(58000).Equal(snap.Stats.ExpectedCash))
		assert.True(t, dec(300).Equal(snap.Stats.TotalInvoiced))
		assert.Equal(t, 3, snap.Stats.InvoiceCount)
		require.Len(t, snap.Alerts, 1)
		assert.Equal(t, operation.AlertOverdueInvoices, snap.Alerts[0].Type)
		assert.Equal(t, 1, snap.Alerts[0].Count)
	})

	t.Run("ClosedDayKeepsVarianceAlert", func(t *testing.T) {
		svc, m := newService(t)

		op := openOp(opID)
		op.Status = operation.StatusClosed
		op.ClosingSummary = &operation.ClosingSummary{
			ExpectedCash:  dec(57000),
			DeliveredCash: dec(50000),
			Variance:      dec(-7000),
		}

		m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(op, nil)
		expectEntries(m.repo, opID, operation.Entries{})

		snap, err := svc.Snapshot(context.Background(), opID)

		require.NoError(t, err)
		require.Len(t, snap.Alerts, 1)
		assert.Equal(t, operation.SeverityCritical, snap.Alerts[0].Severity)
		assert.True(t, dec(-7000).Equal(*snap.Alerts[0].Variance))
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().GetOperation(gomock.Any(), opID).Return(nil, operation.ErrNotFound)

		_, err := svc.Snapshot(context.Background(), opID)

		var nf *operation.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "operation", nf.Kind)
	})
}
