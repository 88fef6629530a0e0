// Package checkout validates a proposed cart and materializes it as a
// persisted order, adjusting inventory. Stock is taken per item through
// atomic conditional decrements; if any item fails, every decrement already
// applied for the request is compensated before the error is returned, so a
// rejected order never changes inventory.
package checkout

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/errs"
	"github.com/example/evoshop/pkg/models"
)

// insertAttempts bounds order-number regeneration when the unique index
// reports a collision.
const insertAttempts = 3

type ProductStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// TakeStock reports false when fewer than qty units are available. On
	// error no decrement has been applied.
	TakeStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
}

// Pricing holds the checkout constants: tax rate, flat shipping fee and the
// subtotal at which shipping becomes free.
type Pricing struct {
	TaxRate         float64
	ShippingFee     float64
	FreeShippingMin float64
}

func DefaultPricing() Pricing {
	return Pricing{TaxRate: 0.08, ShippingFee: 15, FreeShippingMin: 100}
}

type ItemRequest struct {
	ProductID     primitive.ObjectID    `json:"product"`
	Quantity      int                   `json:"quantity"`
	SelectedColor *models.SelectedColor `json:"selectedColor,omitempty"`
	SelectedSize  *models.SelectedSize  `json:"selectedSize,omitempty"`
}

type Request struct {
	Customer        models.Customer        `json:"customer"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	Items           []ItemRequest          `json:"items"`
	PaymentStatus   models.PaymentStatus   `json:"paymentStatus,omitempty"`
	PaymentMethod   string                 `json:"paymentMethod,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
}

type Service struct {
	products ProductStore
	orders   OrderStore
	pricing  Pricing
	logger   *zap.Logger

	now  func() time.Time
	rand *rand.Rand
}

func NewService(products ProductStore, orders OrderStore, pricing Pricing, logger *zap.Logger) *Service {
	return &Service{
		products: products,
		orders:   orders,
		pricing:  pricing,
		logger:   logger,
		now:      time.Now,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PlaceOrder runs the full placement sequence: validate, snapshot prices,
// take stock, compute totals, persist. The unit price recorded on each item
// is the product's current price, never a client-supplied one.
func (s *Service) PlaceOrder(ctx context.Context, req *Request) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	taken := make([]ItemRequest, 0, len(req.Items))
	items := make([]models.OrderItem, 0, len(req.Items))
	var subtotal float64

	for _, item := range req.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			s.compensate(ctx, taken)
			if errs.IsNotFound(err) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID.Hex(), err)
		}

		ok, err := s.products.TakeStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.compensate(ctx, taken)
			return nil, fmt.Errorf("failed to reserve stock for %s: %w", product.Name, err)
		}
		if !ok {
			s.compensate(ctx, taken)
			return nil, errs.E(errs.KindValidation, "product %s is out of stock", product.Name)
		}
		taken = append(taken, item)

		subtotal = round2(subtotal + product.Price*float64(item.Quantity))
		items = append(items, models.OrderItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Price:         product.Price,
			Quantity:      item.Quantity,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
			Thumbnail:     product.Thumbnail,
		})
	}

	tax := round2(subtotal * s.pricing.TaxRate)
	shipping := s.pricing.ShippingFee
	if subtotal >= s.pricing.FreeShippingMin {
		shipping = 0
	}
	total := round2(subtotal + tax + shipping)

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}
	if !paymentStatus.Valid() {
		s.compensate(ctx, taken)
		return nil, errs.E(errs.KindValidation, "invalid payment status %q", paymentStatus)
	}

	order := &models.Order{
		Customer:        req.Customer,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           total,
		Status:          models.OrderPending,
		PaymentStatus:   paymentStatus,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}

	var err error
	for attempt := 0; attempt < insertAttempts; attempt++ {
		order.OrderNumber = s.orderNumber()
		err = s.orders.Insert(ctx, order)
		if err == nil {
			break
		}
		if !errs.IsConflict(err) {
			break
		}
		s.logger.Warn("Order number collision, regenerating",
			zap.String("order_number", order.OrderNumber))
	}
	if err != nil {
		s.compensate(ctx, taken)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("email", order.Customer.Email),
		zap.Int("item_count", len(order.Items)),
		zap.Float64("total", order.Total))

	return order, nil
}

// compensate re-increments stock for every item already taken in this
// request. It detaches from the request's cancellation so the restores still
// run when the triggering failure was the client going away.
func (s *Service) compensate(ctx context.Context, taken []ItemRequest) {
	ctx = context.WithoutCancel(ctx)
	for _, item := range taken {
		if err := s.products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("Failed to restore stock",
				zap.String("product_id", item.ProductID.Hex()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

// orderNumber builds a human-readable order number: timestamp in base36 plus
// a random suffix. The unique index on orderNumber backs up the negligible
// collision chance.
func (s *Service) orderNumber() string {
	timestamp := strings.ToUpper(strconv.FormatInt(s.now().UnixMilli(), 36))

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = alphabet[s.rand.Intn(len(alphabet))]
	}

	return fmt.Sprintf("EVO-%s-%s", timestamp, suffix)
}

func validate(req *Request) error {
	if req.Customer.Name == "" || req.Customer.Email == "" {
		return errs.E(errs.KindValidation, "missing required order information")
	}
	if (req.ShippingAddress == models.ShippingAddress{}) {
		return errs.E(errs.KindValidation, "missing required order information")
	}
	if len(req.Items) == 0 {
		return errs.E(errs.KindValidation, "missing required order information")
	}
	for _, item := range req.Items {
		if item.ProductID.IsZero() {
			return errs.E(errs.KindValidation, "order item is missing a product")
		}
		if item.Quantity < 1 {
			return errs.E(errs.KindValidation, "order item quantity must be at least 1")
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
