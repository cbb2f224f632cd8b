package service

import (
	"context"
	"errors"
	"testing"
	"time"

	catalogdomain "github.com/miboks/miboks-server/internal/catalog/domain"
	catalogmocks "github.com/miboks/miboks-server/internal/catalog/repository/mocks"
	"github.com/miboks/miboks-server/internal/checkout/domain"
	"github.com/miboks/miboks-server/internal/checkout/repository"
	"github.com/miboks/miboks-server/internal/checkout/repository/mocks"
	"github.com/miboks/miboks-server/internal/platform/config"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		VATRate:   0.15,
		SweepSpec: "0 0 * * * *",
	}
}

func newTestService(t *testing.T) (CheckoutService, *mocks.MockSaleRepository, *catalogmocks.MockCatalogRepository, *events.Hub) {
	t.Helper()
	saleRepo := new(mocks.MockSaleRepository)
	catalogRepo := new(catalogmocks.MockCatalogRepository)
	hub := events.NewHub()
	svc := NewCheckoutService(saleRepo, catalogRepo, hub, testCheckoutConfig())
	t.Cleanup(svc.Stop)
	return svc, saleRepo, catalogRepo, hub
}

func stubProduct(catalogRepo *catalogmocks.MockCatalogRepository, vendorID string, p catalogdomain.Product) {
	catalogRepo.On("GetProductByID", mock.Anything, vendorID, p.ID).Return(&p, nil)
}

func TestAddToCart(t *testing.T) {
	svc, _, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Name: "Soap", Price: 100, Quantity: 10})

	cart, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "Soap", cart.Lines[0].ProductName)

	cart, err = svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	svc, _, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Name: "Soap", Price: 100, Quantity: 0})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, svc.GetCart("vendor-1").IsEmpty())
}

func TestAddToCart_VendorsAreIsolated(t *testing.T) {
	svc, _, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 100, Quantity: 5})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)

	assert.Len(t, svc.GetCart("vendor-1").Lines, 1)
	assert.True(t, svc.GetCart("vendor-2").IsEmpty())
}

func TestCartTotals(t *testing.T) {
	svc, _, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 100, Quantity: 10})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)
	svc.UpdateCartQuantity("vendor-1", "p1", 2)

	totals := svc.CartTotals("vendor-1")
	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.Tax)
	assert.Equal(t, 230.0, totals.Total)
}

func TestCheckout_EmptyCustomerName(t *testing.T) {
	svc, saleRepo, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 50, Quantity: 10})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)

	_, err = svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "   ",
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrEmptyCustomerName)

	// Aborted before totals or persistence; cart is untouched.
	saleRepo.AssertNotCalled(t, "CreateSaleWithItems", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, svc.GetCart("vendor-1").Lines, 1)
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	svc, saleRepo, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 50, Quantity: 10})
	_, _ = svc.AddToCart(context.Background(), "vendor-1", "p1")

	_, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "Awa",
		PaymentMethod: "bitcoin",
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	saleRepo.AssertNotCalled(t, "CreateSaleWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_InvalidInstallmentCount(t *testing.T) {
	svc, _, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 50, Quantity: 10})
	_, _ = svc.AddToCart(context.Background(), "vendor-1", "p1")

	for _, count := range []int{0, 1, 7} {
		_, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
			CustomerName:  "Awa",
			PaymentMethod: domain.PaymentInstallment,
			Installments:  count,
		})
		assert.ErrorIs(t, err, ErrInvalidInstallments)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, saleRepo, _, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "Awa",
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	saleRepo.AssertNotCalled(t, "CreateSaleWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_CashSale(t *testing.T) {
	svc, saleRepo, catalogRepo, hub := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Name: "Soap", Price: 100, Quantity: 10})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)
	svc.UpdateCartQuantity("vendor-1", "p1", 2)

	salesCh, unsub := hub.Subscribe("sales")
	defer unsub()

	var captured *domain.Sale
	saleRepo.On("CreateSaleWithItems", mock.Anything, mock.AnythingOfType("*domain.Sale"), mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Sale)
		}).Return(nil)

	sale, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "  Awa Diop ",
		PaymentMethod: domain.PaymentCash,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "Awa Diop", sale.CustomerName)
	assert.Equal(t, 200.0, sale.Subtotal)
	assert.Equal(t, 30.0, sale.Tax)
	assert.Equal(t, 230.0, sale.Amount)
	assert.Equal(t, 1, sale.Installments)
	assert.Equal(t, 230.0, sale.InstallmentAmount)
	assert.Equal(t, domain.SaleCompleted, sale.Status)

	// Items snapshot the cart lines; no schedule for non-installment sales.
	assert.Len(t, captured.Items, 1)
	assert.Equal(t, "p1", captured.Items[0].ProductID)
	assert.Equal(t, 2, captured.Items[0].Quantity)
	assert.Equal(t, 100.0, captured.Items[0].Price)
	scheduleArg := saleRepo.Calls[0].Arguments.Get(2)
	assert.Empty(t, scheduleArg)

	// Cart cleared and change event published only after commit.
	assert.True(t, svc.GetCart("vendor-1").IsEmpty())
	select {
	case change := <-salesCh:
		assert.Equal(t, "INSERT", change.Action)
		assert.Equal(t, sale.ID, change.RecordID)
	default:
		t.Fatal("expected a sales change event")
	}
}

func TestCheckout_InstallmentSale(t *testing.T) {
	svc, saleRepo, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Name: "Oil", Price: 50, Quantity: 10})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)
	svc.UpdateCartQuantity("vendor-1", "p1", 3)

	var schedule []domain.SaleInstallment
	saleRepo.On("CreateSaleWithItems", mock.Anything, mock.AnythingOfType("*domain.Sale"), mock.Anything).
		Run(func(args mock.Arguments) {
			schedule = args.Get(2).([]domain.SaleInstallment)
		}).Return(nil)

	sale, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "Moussa",
		PaymentMethod: domain.PaymentInstallment,
		Installments:  3,
	})
	assert.NoError(t, err)

	// 150 subtotal, 22.50 VAT, 172.50 total split three ways.
	assert.Equal(t, 150.0, sale.Subtotal)
	assert.Equal(t, 22.5, sale.Tax)
	assert.Equal(t, 172.5, sale.Amount)
	assert.Equal(t, 3, sale.Installments)
	assert.Equal(t, 57.5, sale.InstallmentAmount)

	assert.Len(t, schedule, 3)
	var sum float64
	for i, inst := range schedule {
		assert.Equal(t, i+1, inst.Seq)
		assert.Equal(t, domain.InstallmentPending, inst.Status)
		assert.Equal(t, sale.ID, inst.SaleID)
		sum += inst.Amount
		if i > 0 {
			assert.True(t, inst.DueDate.After(schedule[i-1].DueDate))
		}
	}
	assert.Equal(t, sale.Amount, sum)
}

func TestCheckout_AddDuringCommitSurvives(t *testing.T) {
	svc, saleRepo, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Name: "Soap", Price: 100, Quantity: 10})
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p2", Name: "Oil", Price: 50, Quantity: 5})

	_, err := svc.AddToCart(context.Background(), "vendor-1", "p1")
	assert.NoError(t, err)

	// An item lands in the cart while the sale transaction is running.
	saleRepo.On("CreateSaleWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, addErr := svc.AddToCart(context.Background(), "vendor-1", "p2")
			assert.NoError(t, addErr)
		}).Return(nil)

	sale, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "Awa",
		PaymentMethod: domain.PaymentCash,
	})
	assert.NoError(t, err)
	assert.Len(t, sale.Items, 1)
	assert.Equal(t, "p1", sale.Items[0].ProductID)

	// Only the sold snapshot is removed; the racing add stays in the cart.
	cart := svc.GetCart("vendor-1")
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "p2", cart.Lines[0].ProductID)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestCheckout_RepoFailureKeepsCart(t *testing.T) {
	svc, saleRepo, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 50, Quantity: 1})
	_, _ = svc.AddToCart(context.Background(), "vendor-1", "p1")

	saleRepo.On("CreateSaleWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("db down")).Once()

	_, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "Awa",
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrCheckoutFailed)

	// The cart survives so the vendor can retry without rebuilding it.
	assert.Len(t, svc.GetCart("vendor-1").Lines, 1)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	svc, saleRepo, catalogRepo, _ := newTestService(t)
	stubProduct(catalogRepo, "vendor-1", catalogdomain.Product{ID: "p1", Price: 50, Quantity: 1})
	_, _ = svc.AddToCart(context.Background(), "vendor-1", "p1")

	saleRepo.On("CreateSaleWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrInsufficientStock).Once()

	_, err := svc.Checkout(context.Background(), "vendor-1", domain.CheckoutRequest{
		CustomerName:  "Awa",
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Len(t, svc.GetCart("vendor-1").Lines, 1)
}

func TestPayInstallment(t *testing.T) {
	svc, saleRepo, _, _ := newTestService(t)

	saleRepo.On("GetSaleByID", mock.Anything, "vendor-1", "sale-1").
		Return(&domain.Sale{ID: "sale-1", VendorID: "vendor-1"}, nil)
	saleRepo.On("MarkInstallmentPaid", mock.Anything, "sale-1", 2).Return(nil)

	err := svc.PayInstallment(context.Background(), "vendor-1", "sale-1", 2)
	assert.NoError(t, err)
	saleRepo.AssertExpectations(t)
}

func TestPayInstallment_UnownedSale(t *testing.T) {
	svc, saleRepo, _, _ := newTestService(t)

	saleRepo.On("GetSaleByID", mock.Anything, "vendor-2", "sale-1").
		Return(nil, repository.ErrSaleNotFound)

	err := svc.PayInstallment(context.Background(), "vendor-2", "sale-1", 1)
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)
	saleRepo.AssertNotCalled(t, "MarkInstallmentPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepOverdueInstallments(t *testing.T) {
	svc, saleRepo, _, _ := newTestService(t)

	saleRepo.On("MarkOverdueInstallments", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(2), nil)

	svc.SweepOverdueInstallments(context.Background())
	saleRepo.AssertExpectations(t)
}

func TestBuildSchedule_DueDatesAreMonthly(t *testing.T) {
	sale := &domain.Sale{
		ID:                "sale-1",
		Amount:            172.5,
		Installments:      3,
		InstallmentAmount: 57.5,
	}
	from := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	schedule := buildSchedule(sale, from)
	assert.Len(t, schedule, 3)
	assert.Equal(t, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), schedule[1].DueDate)
	assert.Equal(t, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC), schedule[2].DueDate)
}
