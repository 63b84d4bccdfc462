package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boutiquepos/backend/internal/domain/customer"
	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func makeOpenSale(customerID uuid.UUID, total, paid float64, createdAt time.Time) sales.Sale {
	totalDec := decimal.NewFromFloat(total)
	paidDec := decimal.NewFromFloat(paid)
	s := sales.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        &customerID,
		CashierID:         uuid.New(),
		Subtotal:          totalDec,
		TaxAmount:         decimal.Zero,
		TotalAmount:       totalDec,
		PaymentMethod:     sales.PaymentMethodCash,
		Status:            sales.SaleStatusPartialPayment,
		PaidAmount:        paidDec,
		RemainingAmount:   totalDec.Sub(paidDec),
	}
	s.CreatedAt = createdAt
	return s
}

func makeTestCustomer(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer("Ada", "Lovelace", "ada@example.com", "")
	require.NoError(t, err)
	return c
}

func TestSettlementService_SettlePayment(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("settles oldest sale first across two sales", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)            // remaining 60
		newer := makeOpenSale(cust.ID, 80, 30, base.Add(time.Hour)) // remaining 50

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older, newer}, nil)
		saleRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		customerRepo.On("SaveWithLock", ctx, cust).Return(nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		result, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromInt(80),
			Method:     sales.PaymentMethodCash,
		})
		require.NoError(t, err)

		require.Len(t, result.Settlements, 2)
		assert.Equal(t, older.ID, result.Settlements[0].SaleID)
		assert.True(t, result.Settlements[0].AppliedAmount.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, sales.SaleStatusCompleted, result.Settlements[0].Status)
		assert.True(t, result.Settlements[0].RemainingAmount.IsZero())

		assert.Equal(t, newer.ID, result.Settlements[1].SaleID)
		assert.True(t, result.Settlements[1].AppliedAmount.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, sales.SaleStatusPartialPayment, result.Settlements[1].Status)
		assert.True(t, result.Settlements[1].RemainingAmount.Equal(decimal.NewFromInt(30)))

		assert.True(t, result.AmountApplied.Equal(decimal.NewFromInt(80)))
		assert.True(t, result.TotalOwed.Equal(decimal.NewFromInt(30)))
		assert.True(t, cust.TotalSpent.Equal(decimal.NewFromInt(80)))

		saleRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
		customerRepo.AssertNumberOfCalls(t, "SaveWithLock", 1)
	})

	t.Run("exact payoff clears the whole balance", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)
		newer := makeOpenSale(cust.ID, 80, 30, base.Add(time.Hour))

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older, newer}, nil)
		saleRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		customerRepo.On("SaveWithLock", ctx, cust).Return(nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		result, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromInt(110),
			Method:     sales.PaymentMethodCreditCard,
		})
		require.NoError(t, err)

		assert.True(t, result.TotalOwed.IsZero())
		for _, settled := range result.Settlements {
			assert.Equal(t, sales.SaleStatusCompleted, settled.Status)
			assert.True(t, settled.RemainingAmount.IsZero())
		}
	})

	t.Run("rejects overpayment without touching state", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)
		newer := makeOpenSale(cust.ID, 80, 30, base.Add(time.Hour))

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older, newer}, nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromFloat(110.01),
			Method:     sales.PaymentMethodCash,
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "OVERPAYMENT_REJECTED", derr.Code)
		assert.Contains(t, derr.Message, "110.00", "message should carry the total owed")

		saleRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		assert.True(t, cust.TotalSpent.IsZero())
	})

	t.Run("rejects payment when nothing is owed", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{}, nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromInt(10),
			Method:     sales.PaymentMethodCash,
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "OVERPAYMENT_REJECTED", derr.Code)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc := NewSettlementService(new(MockSaleRepository), new(MockCustomerRepository), nil, 0)

		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			_, err := svc.SettlePayment(ctx, SettlementRequest{
				CustomerID: uuid.New(),
				Amount:     amount,
				Method:     sales.PaymentMethodCash,
			})
			require.Error(t, err)
			var derr *shared.DomainError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, "INVALID_AMOUNT", derr.Code)
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		id := uuid.New()
		customerRepo.On("FindByID", ctx, id).Return(nil, nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: id,
			Amount:     decimal.NewFromInt(10),
			Method:     sales.PaymentMethodCash,
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NOT_FOUND", derr.Code)
	})

	t.Run("version conflict before any write maps to concurrency conflict", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older}, nil)
		saleRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*sales.Sale")).Return(shared.ErrConcurrencyConflict)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromInt(20),
			Method:     sales.PaymentMethodCash,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("mid-sequence write failure reports applied sale ids", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)
		newer := makeOpenSale(cust.ID, 80, 30, base.Add(time.Hour))

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older, newer}, nil)
		saleRepo.On("SaveWithLock", ctx, mock.MatchedBy(func(s *sales.Sale) bool {
			return s.ID == older.ID
		})).Return(nil)
		saleRepo.On("SaveWithLock", ctx, mock.MatchedBy(func(s *sales.Sale) bool {
			return s.ID == newer.ID
		})).Return(errors.New("connection reset"))

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromInt(80),
			Method:     sales.PaymentMethodCash,
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "SETTLEMENT_PERSISTENCE", derr.Code)
		assert.Contains(t, derr.Message, older.ID.String(), "applied sale ids must be listed")
		customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("customer write failure after sales reports applied sale ids", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older}, nil)
		saleRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		customerRepo.On("SaveWithLock", ctx, cust).Return(errors.New("connection reset"))

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID: cust.ID,
			Amount:     decimal.NewFromInt(20),
			Method:     sales.PaymentMethodCash,
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "SETTLEMENT_PERSISTENCE", derr.Code)
		assert.Contains(t, derr.Message, older.ID.String())
	})

	t.Run("duplicate idempotency key is rejected before any write", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		store := new(MockIdempotencyStore)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older}, nil)
		store.On("MarkProcessed", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(false, nil)

		svc := NewSettlementService(saleRepo, customerRepo, store, time.Hour)
		_, err := svc.SettlePayment(ctx, SettlementRequest{
			CustomerID:     cust.ID,
			Amount:         decimal.NewFromInt(20),
			Method:         sales.PaymentMethodCash,
			IdempotencyKey: "register-7-receipt-41",
		})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DUPLICATE_SETTLEMENT", derr.Code)
		saleRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestSettlementService_SettleAll(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("recomputes the owed total and settles it", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		older := makeOpenSale(cust.ID, 100, 40, base)
		newer := makeOpenSale(cust.ID, 80, 30, base.Add(time.Hour))

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("SumOutstandingByCustomer", ctx, cust.ID).Return(decimal.NewFromInt(110), nil)
		saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older, newer}, nil)
		saleRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		customerRepo.On("SaveWithLock", ctx, cust).Return(nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		result, err := svc.SettleAll(ctx, cust.ID, sales.PaymentMethodDebitCard, "")
		require.NoError(t, err)

		assert.True(t, result.AmountApplied.Equal(decimal.NewFromInt(110)))
		assert.True(t, result.TotalOwed.IsZero())
		assert.True(t, cust.TotalSpent.Equal(decimal.NewFromInt(110)))
	})

	t.Run("nothing to settle", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust := makeTestCustomer(t)

		customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
		saleRepo.On("SumOutstandingByCustomer", ctx, cust.ID).Return(decimal.Zero, nil)

		svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
		_, err := svc.SettleAll(ctx, cust.ID, sales.PaymentMethodCash, "")
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NO_OUTSTANDING_BALANCE", derr.Code)
	})
}

func TestSettlementService_Balance(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	saleRepo := new(MockSaleRepository)
	customerRepo := new(MockCustomerRepository)
	cust := makeTestCustomer(t)

	older := makeOpenSale(cust.ID, 100, 40, base)
	newer := makeOpenSale(cust.ID, 80, 30, base.Add(time.Hour))

	customerRepo.On("FindByID", ctx, cust.ID).Return(cust, nil)
	saleRepo.On("FindOutstandingByCustomer", ctx, cust.ID).Return([]sales.Sale{older, newer}, nil)

	svc := NewSettlementService(saleRepo, customerRepo, nil, 0)
	balance, err := svc.Balance(ctx, cust.ID)
	require.NoError(t, err)

	assert.True(t, balance.TotalOwed.Equal(decimal.NewFromInt(110)))
	require.Len(t, balance.OutstandingSales, 2)
	assert.True(t, balance.OutstandingSales[0].RemainingAmount.Equal(decimal.NewFromInt(60)))
}
