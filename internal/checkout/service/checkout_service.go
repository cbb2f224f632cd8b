package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	catalogdomain "github.com/miboks/miboks-server/internal/catalog/domain"
	"github.com/miboks/miboks-server/internal/checkout/domain"
	"github.com/miboks/miboks-server/internal/checkout/repository"
	"github.com/miboks/miboks-server/internal/platform/config"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrEmptyCustomerName    = errors.New("customer name is required")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrInvalidInstallments  = errors.New("installment count must be between 2 and 6")
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrCheckoutFailed       = errors.New("checkout failed")
)

// ProductCatalog is the slice of the catalog the checkout flow needs:
// price/stock lookups when items enter the cart.
type ProductCatalog interface {
	GetProductByID(ctx context.Context, vendorID, id string) (*catalogdomain.Product, error)
}

type CheckoutService interface {
	GetCart(vendorID string) *domain.Cart
	CartTotals(vendorID string) domain.CartTotals
	AddToCart(ctx context.Context, vendorID, productID string) (*domain.Cart, error)
	UpdateCartQuantity(vendorID, productID string, quantity int) *domain.Cart
	RemoveFromCart(vendorID, productID string) *domain.Cart
	ClearCart(vendorID string)

	Checkout(ctx context.Context, vendorID string, req domain.CheckoutRequest) (*domain.Sale, error)
	ListSales(ctx context.Context, vendorID string) ([]domain.Sale, error)
	GetSale(ctx context.Context, vendorID, saleID string) (*domain.Sale, error)
	ListInstallments(ctx context.Context, vendorID, saleID string) ([]domain.SaleInstallment, error)
	PayInstallment(ctx context.Context, vendorID, saleID string, seq int) error

	SweepOverdueInstallments(ctx context.Context)
	Stop()
}

type checkoutServiceImpl struct {
	repo      repository.SaleRepository
	products  ProductCatalog
	hub       *events.Hub
	cfg       config.CheckoutConfig
	scheduler *cron.Cron

	// One cart per vendor session. Handlers run concurrently, so the map
	// and the carts inside it are guarded by mu.
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewCheckoutService(repo repository.SaleRepository, products ProductCatalog, hub *events.Hub, cfg config.CheckoutConfig) CheckoutService {
	s := &checkoutServiceImpl{
		repo:      repo,
		products:  products,
		hub:       hub,
		cfg:       cfg,
		scheduler: cron.New(cron.WithSeconds()),
		carts:     map[string]*domain.Cart{},
	}
	s.initScheduler()
	return s
}

func (s *checkoutServiceImpl) initScheduler() {
	_, err := s.scheduler.AddFunc(s.cfg.SweepSpec, func() {
		s.SweepOverdueInstallments(context.Background())
	})
	if err != nil {
		logger.Error("initScheduler: invalid sweep spec, overdue sweep disabled", err, zap.String("spec", s.cfg.SweepSpec))
		return
	}
	s.scheduler.Start()
	logger.Info("installment sweep scheduler started", zap.String("spec", s.cfg.SweepSpec))
}

// Stop halts the background sweep. Used on shutdown and in tests.
func (s *checkoutServiceImpl) Stop() {
	s.scheduler.Stop()
}

// cartLocked returns the vendor's cart, creating it on first use.
// Caller must hold mu.
func (s *checkoutServiceImpl) cartLocked(vendorID string) *domain.Cart {
	cart, ok := s.carts[vendorID]
	if !ok {
		cart = domain.NewCart()
		s.carts[vendorID] = cart
	}
	return cart
}

func snapshot(cart *domain.Cart) *domain.Cart {
	copied := domain.NewCart()
	copied.Lines = append(copied.Lines, cart.Lines...)
	return copied
}

func (s *checkoutServiceImpl) GetCart(vendorID string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.cartLocked(vendorID))
}

func (s *checkoutServiceImpl) CartTotals(vendorID string) domain.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(vendorID).Totals(s.cfg.VATRate)
}

// AddToCart guards the out-of-stock case on behalf of the cart engine:
// the engine itself never re-validates stock.
func (s *checkoutServiceImpl) AddToCart(ctx context.Context, vendorID, productID string) (*domain.Cart, error) {
	product, err := s.products.GetProductByID(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity <= 0 {
		return nil, ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(vendorID)
	cart.AddItem(*product)
	return snapshot(cart), nil
}

func (s *checkoutServiceImpl) UpdateCartQuantity(vendorID, productID string, quantity int) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(vendorID)
	cart.UpdateQuantity(productID, quantity)
	return snapshot(cart)
}

func (s *checkoutServiceImpl) RemoveFromCart(vendorID, productID string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(vendorID)
	cart.RemoveItem(productID)
	return snapshot(cart)
}

func (s *checkoutServiceImpl) ClearCart(vendorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLocked(vendorID).Clear()
}

func validateCheckout(req domain.CheckoutRequest) (installments int, err error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return 0, ErrEmptyCustomerName
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		return 0, ErrInvalidPaymentMethod
	}
	if req.PaymentMethod != domain.PaymentInstallment {
		return 1, nil
	}
	if req.Installments < domain.MinInstallments || req.Installments > domain.MaxInstallments {
		return 0, ErrInvalidInstallments
	}
	return req.Installments, nil
}

// Checkout turns the vendor's cart plus customer/payment input into a
// committed sale. The sale insert, stock decrements, and installment
// schedule are one transaction; the cart keeps its lines until commit, so
// a failed attempt can simply be retried. Only the snapshotted lines are
// removed afterwards, so an add racing the transaction is not lost.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, vendorID string, req domain.CheckoutRequest) (*domain.Sale, error) {
	installments, err := validateCheckout(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cart := s.cartLocked(vendorID)
	if cart.IsEmpty() {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	lines := snapshot(cart).Lines
	totals := cart.Totals(s.cfg.VATRate)
	s.mu.Unlock()

	items := make([]domain.SaleItem, len(lines))
	for i, line := range lines {
		items[i] = domain.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
	}

	sale := &domain.Sale{
		ID:                uuid.NewString(),
		VendorID:          vendorID,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		Items:             items,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Amount:            totals.Total,
		PaymentMethod:     req.PaymentMethod,
		Installments:      installments,
		InstallmentAmount: domain.InstallmentAmount(totals.Total, installments),
		Status:            domain.SaleCompleted,
	}

	schedule := buildSchedule(sale, time.Now())

	if err := s.repo.CreateSaleWithItems(ctx, sale, schedule); err != nil {
		logger.Error("Checkout: failed to commit sale", err, zap.String("vendor_id", vendorID))
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	s.removeLines(vendorID, lines)
	s.hub.Publish("sales", "INSERT", sale.ID)
	s.hub.Publish("products", "UPDATE", "")

	logger.Info("sale completed",
		zap.String("sale_id", sale.ID),
		zap.String("vendor_id", vendorID),
		zap.Float64("amount", sale.Amount),
		zap.String("payment_method", string(sale.PaymentMethod)))
	return sale, nil
}

// removeLines subtracts the checked-out snapshot from the live cart.
// Quantities added between the snapshot and the commit stay behind.
func (s *checkoutServiceImpl) removeLines(vendorID string, lines []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(vendorID)
	for _, sold := range lines {
		for i := range cart.Lines {
			if cart.Lines[i].ProductID == sold.ProductID {
				cart.Lines[i].Quantity -= sold.Quantity
				if cart.Lines[i].Quantity <= 0 {
					cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
				}
				break
			}
		}
	}
}

// buildSchedule lays out monthly due dates for installment sales. The last
// row absorbs any division remainder so the rows sum to the sale total.
func buildSchedule(sale *domain.Sale, from time.Time) []domain.SaleInstallment {
	if sale.Installments <= 1 {
		return nil
	}

	schedule := make([]domain.SaleInstallment, sale.Installments)
	var scheduled float64
	for i := 0; i < sale.Installments; i++ {
		amount := sale.InstallmentAmount
		if i == sale.Installments-1 {
			amount = sale.Amount - scheduled
		}
		scheduled += amount
		schedule[i] = domain.SaleInstallment{
			SaleID:  sale.ID,
			Seq:     i + 1,
			Amount:  amount,
			DueDate: from.AddDate(0, i+1, 0),
			Status:  domain.InstallmentPending,
		}
	}
	return schedule
}

func (s *checkoutServiceImpl) ListSales(ctx context.Context, vendorID string) ([]domain.Sale, error) {
	return s.repo.ListSalesByVendor(ctx, vendorID)
}

func (s *checkoutServiceImpl) GetSale(ctx context.Context, vendorID, saleID string) (*domain.Sale, error) {
	return s.repo.GetSaleByID(ctx, vendorID, saleID)
}

func (s *checkoutServiceImpl) ListInstallments(ctx context.Context, vendorID, saleID string) ([]domain.SaleInstallment, error) {
	// Ownership check first so one vendor cannot read another's schedule.
	if _, err := s.repo.GetSaleByID(ctx, vendorID, saleID); err != nil {
		return nil, err
	}
	return s.repo.ListInstallmentsBySale(ctx, saleID)
}

func (s *checkoutServiceImpl) PayInstallment(ctx context.Context, vendorID, saleID string, seq int) error {
	if _, err := s.repo.GetSaleByID(ctx, vendorID, saleID); err != nil {
		return err
	}
	if err := s.repo.MarkInstallmentPaid(ctx, saleID, seq); err != nil {
		return err
	}
	s.hub.Publish("sales", "UPDATE", saleID)
	return nil
}

// SweepOverdueInstallments flips pending installments past their due date
// to overdue. Driven by the cron scheduler.
func (s *checkoutServiceImpl) SweepOverdueInstallments(ctx context.Context) {
	flipped, err := s.repo.MarkOverdueInstallments(ctx, time.Now())
	if err != nil {
		logger.Error("SweepOverdueInstallments: repo error", err)
		return
	}
	if flipped > 0 {
		logger.Info("marked installments overdue", zap.Int64("count", flipped))
	}
}
