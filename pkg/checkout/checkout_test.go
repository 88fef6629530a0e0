package checkout

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/errs"
	"github.com/example/evoshop/pkg/models"
)

type fakeProducts struct {
	products  map[primitive.ObjectID]*models.Product
	takeErr   error
	takeErrOn primitive.ObjectID

	cancelOnTake   func()
	restoreCtxErrs []error
}

func (f *fakeProducts) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "product %s not found", id.Hex())
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProducts) TakeStock(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	if f.cancelOnTake != nil {
		f.cancelOnTake()
	}
	if f.takeErr != nil && (f.takeErrOn.IsZero() || f.takeErrOn == id) {
		return false, f.takeErr
	}
	p, ok := f.products[id]
	if !ok || !p.InStock || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	p.InStock = p.Quantity > 0
	return true, nil
}

func (f *fakeProducts) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	f.restoreCtxErrs = append(f.restoreCtxErrs, ctx.Err())
	p, ok := f.products[id]
	if !ok {
		return errs.E(errs.KindNotFound, "product %s not found", id.Hex())
	}
	p.Quantity += qty
	p.InStock = true
	return nil
}

type fakeOrders struct {
	orders    []*models.Order
	conflicts int
}

func (f *fakeOrders) Insert(_ context.Context, order *models.Order) error {
	if f.conflicts > 0 {
		f.conflicts--
		return errs.E(errs.KindConflict, "order number %s already exists", order.OrderNumber)
	}
	copied := *order
	f.orders = append(f.orders, &copied)
	return nil
}

func newProduct(name string, price float64, quantity int) *models.Product {
	return &models.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      models.Slugify(name),
		Price:     price,
		Quantity:  quantity,
		InStock:   quantity > 0,
		Thumbnail: "https://img.example.com/" + models.Slugify(name) + ".jpg",
	}
}

func validRequest(items ...ItemRequest) *Request {
	return &Request{
		Customer: models.Customer{Name: "Jane Doe", Email: "jane@example.com"},
		ShippingAddress: models.ShippingAddress{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
			Country: "US",
		},
		Items: items,
	}
}

func newTestService(products *fakeProducts, orders *fakeOrders) *Service {
	return NewService(products, orders, DefaultPricing(), zap.NewNop())
}

func TestPlaceOrder_Success(t *testing.T) {
	product := newProduct("Silk Dress", 30, 5)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	order, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{
		ProductID: product.ID,
		Quantity:  3,
		SelectedColor: &models.SelectedColor{Name: "Black", Hex: "#000000"},
		SelectedSize:  &models.SelectedSize{Name: "M"},
	}))
	require.NoError(t, err)

	assert.Equal(t, 90.0, order.Subtotal)
	assert.Equal(t, 7.2, order.Tax)
	assert.Equal(t, 15.0, order.Shipping)
	assert.Equal(t, 112.2, order.Total)
	assert.Equal(t, order.Total, order.Subtotal+order.Tax+order.Shipping)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Silk Dress", item.Name)
	assert.Equal(t, 30.0, item.Price)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, product.Thumbnail, item.Thumbnail)
	assert.Equal(t, "Black", item.SelectedColor.Name)

	// Inventory decremented by exactly the ordered amount.
	assert.Equal(t, 2, products.products[product.ID].Quantity)
	assert.True(t, products.products[product.ID].InStock)

	require.Len(t, orders.orders, 1)
}

func TestPlaceOrder_FreeShippingAtThreshold(t *testing.T) {
	product := newProduct("Wool Coat", 50, 10)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	order, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 8.0, order.Tax)
	assert.Equal(t, 0.0, order.Shipping)
	assert.Equal(t, 108.0, order.Total)
}

func TestPlaceOrder_TaxRoundedToCents(t *testing.T) {
	product := newProduct("Scarf", 11.11, 10)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	order, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 3}))
	require.NoError(t, err)

	// 33.33 * 0.08 = 2.6664, rounded to 2.67.
	assert.Equal(t, 33.33, order.Subtotal)
	assert.Equal(t, 2.67, order.Tax)
	assert.Equal(t, 51.0, order.Total)
}

func TestPlaceOrder_ExhaustsStock(t *testing.T) {
	product := newProduct("Leather Bag", 40, 2)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, 0, products.products[product.ID].Quantity)
	assert.False(t, products.products[product.ID].InStock)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	product := newProduct("Denim Jacket", 50, 5)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 6}))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Denim Jacket")

	// Nothing persisted, nothing decremented.
	assert.Empty(t, orders.orders)
	assert.Equal(t, 5, products.products[product.ID].Quantity)
}

func TestPlaceOrder_MidOrderFailureRestoresStock(t *testing.T) {
	first := newProduct("Linen Shirt", 25, 4)
	second := newProduct("Sun Hat", 18, 1)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{
		first.ID:  first,
		second.ID: second,
	}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest(
		ItemRequest{ProductID: first.ID, Quantity: 2},
		ItemRequest{ProductID: second.ID, Quantity: 3},
	))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	// The first item's decrement is compensated.
	assert.Empty(t, orders.orders)
	assert.Equal(t, 4, products.products[first.ID].Quantity)
	assert.Equal(t, 1, products.products[second.ID].Quantity)
}

func TestPlaceOrder_UnknownProductRestoresStock(t *testing.T) {
	product := newProduct("Trench Coat", 120, 3)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	missing := primitive.NewObjectID()
	_, err := svc.PlaceOrder(context.Background(), validRequest(
		ItemRequest{ProductID: product.ID, Quantity: 1},
		ItemRequest{ProductID: missing, Quantity: 1},
	))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), missing.Hex())

	assert.Empty(t, orders.orders)
	assert.Equal(t, 3, products.products[product.ID].Quantity)
}

func TestPlaceOrder_TakeStockErrorRestoresStock(t *testing.T) {
	first := newProduct("Silk Blouse", 45, 6)
	second := newProduct("Ankle Boots", 90, 4)
	products := &fakeProducts{
		products: map[primitive.ObjectID]*models.Product{
			first.ID:  first,
			second.ID: second,
		},
		takeErr:   errs.E(errs.KindInternal, "write timeout"),
		takeErrOn: second.ID,
	}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest(
		ItemRequest{ProductID: first.ID, Quantity: 2},
		ItemRequest{ProductID: second.ID, Quantity: 1},
	))
	require.Error(t, err)

	// A failed decrement leaves its product untouched; the earlier item's
	// decrement is compensated, so no quantity changed anywhere.
	assert.Empty(t, orders.orders)
	assert.Equal(t, 6, products.products[first.ID].Quantity)
	assert.Equal(t, 4, products.products[second.ID].Quantity)
}

func TestPlaceOrder_CompensatesAfterClientCancel(t *testing.T) {
	first := newProduct("Cardigan", 35, 3)
	second := newProduct("Beanie", 12, 0)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{
		first.ID:  first,
		second.ID: second,
	}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	products.cancelOnTake = cancel

	_, err := svc.PlaceOrder(ctx, validRequest(
		ItemRequest{ProductID: first.ID, Quantity: 1},
		ItemRequest{ProductID: second.ID, Quantity: 1},
	))
	require.Error(t, err)

	// The restore ran on a context detached from the canceled request.
	require.Len(t, products.restoreCtxErrs, 1)
	assert.NoError(t, products.restoreCtxErrs[0])
	assert.Equal(t, 3, products.products[first.ID].Quantity)
}

func TestPlaceOrder_Validation(t *testing.T) {
	product := newProduct("Belt", 20, 5)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	item := ItemRequest{ProductID: product.ID, Quantity: 1}

	tests := []struct {
		name    string
		mutate  func(*Request)
	}{
		{"missing customer name", func(r *Request) { r.Customer.Name = "" }},
		{"missing customer email", func(r *Request) { r.Customer.Email = "" }},
		{"missing shipping address", func(r *Request) { r.ShippingAddress = models.ShippingAddress{} }},
		{"no items", func(r *Request) { r.Items = nil }},
		{"zero quantity", func(r *Request) { r.Items[0].Quantity = 0 }},
		{"missing product id", func(r *Request) { r.Items[0].ProductID = primitive.NilObjectID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrders{}
			svc := newTestService(products, orders)

			req := validRequest(item)
			tt.mutate(req)

			_, err := svc.PlaceOrder(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Empty(t, orders.orders)
			assert.Equal(t, 5, products.products[product.ID].Quantity)
		})
	}
}

func TestPlaceOrder_IgnoresClientPrice(t *testing.T) {
	product := newProduct("Evening Gown", 200, 5)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{}
	svc := newTestService(products, orders)

	// The request carries no price field at all; the snapshot must use the
	// catalog price.
	order, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 200.0, order.Items[0].Price)
}

func TestPlaceOrder_RetriesOrderNumberConflict(t *testing.T) {
	product := newProduct("Clutch", 60, 5)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{conflicts: 1}
	svc := newTestService(products, orders)

	order, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)
	require.Len(t, orders.orders, 1)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestPlaceOrder_PersistFailureRestoresStock(t *testing.T) {
	product := newProduct("Loafers", 80, 5)
	products := &fakeProducts{products: map[primitive.ObjectID]*models.Product{product.ID: product}}
	orders := &fakeOrders{conflicts: insertAttempts}
	svc := newTestService(products, orders)

	_, err := svc.PlaceOrder(context.Background(), validRequest(ItemRequest{ProductID: product.ID, Quantity: 2}))
	require.Error(t, err)
	assert.Empty(t, orders.orders)
	assert.Equal(t, 5, products.products[product.ID].Quantity)
}

func TestOrderNumberFormat(t *testing.T) {
	svc := newTestService(&fakeProducts{}, &fakeOrders{})

	pattern := regexp.MustCompile(`^EVO-[0-9A-Z]+-[0-9A-Z]{5}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number := svc.orderNumber()
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	assert.Greater(t, len(seen), 1)
}
