package checkout

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/cart"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	orders []models.Order
}

func (n *recordingNotifier) OrderConfirmed(_ context.Context, o models.Order) error {
	n.orders = append(n.orders, o)
	return nil
}

func validRequest() Request {
	return Request{
		Shipping: models.ShippingInfo{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0100",
			Address: "1 Main St", City: "London", State: "LDN", ZipCode: "N1",
		},
		Payment: PaymentInfo{CardNumber: "4242 4242 4242 4242", ExpiryDate: "12/30", CVV: "123", NameOnCard: "Ada Lovelace"},
	}
}

type fixture struct {
	svc      *Service
	products *repo.InMemoryProductRepository
	orders   *repo.InMemoryOrderRepository
	sessions *repo.InMemorySessionStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		products: repo.NewInMemoryProductRepository(),
		orders:   repo.NewInMemoryOrderRepository(),
		sessions: repo.NewInMemorySessionStore(),
		notifier: &recordingNotifier{},
	}
	f.svc = NewService(f.products, f.orders, f.sessions, f.notifier)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f fixture) addToCart(t *testing.T, session string, p models.Product, qty int) {
	t.Helper()
	c, err := f.sessions.GetCart(context.Background(), session)
	require.NoError(t, err)
	require.NoError(t, c.AddItem(p, nil, qty))
	require.NoError(t, f.sessions.SaveCart(context.Background(), session, c))
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug, _ := f.products.Create(models.Product{Name: "Mug", Price: 10, Stock: 5})
	lamp, _ := f.products.Create(models.Product{Name: "Lamp", Price: 40, Stock: 1})
	f.addToCart(t, "s1", mug, 2)
	f.addToCart(t, "s1", lamp, 1)

	order, err := f.svc.PlaceOrder(ctx, "s1", validRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-2025-\d{6}$`), order.OrderID)
	assert.Regexp(t, regexp.MustCompile(`^TRK\d{9}$`), order.TrackingNumber)
	days := order.EstimatedDelivery.Sub(order.CreatedAt).Hours() / 24
	assert.GreaterOrEqual(t, days, 3.0)
	assert.LessOrEqual(t, days, 7.0)

	assert.Equal(t, 60.0, order.Subtotal)
	assert.Equal(t, 9.99, order.ShippingCost)
	assert.Equal(t, 4.8, order.Tax)
	assert.Equal(t, 74.79, order.Total)

	p, _ := f.products.GetByID(mug.ID)
	assert.Equal(t, 3, p.Stock)
	p, _ = f.products.GetByID(lamp.ID)
	assert.Equal(t, 0, p.Stock)

	c, _ := f.sessions.GetCart(ctx, "s1")
	assert.True(t, c.IsEmpty())

	stored, err := f.orders.GetByID(order.OrderID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	require.Len(t, f.notifier.orders, 1)
}

func TestPlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	mug, _ := f.products.Create(models.Product{Name: "Mug", Price: 10, Stock: 5})
	lamp, _ := f.products.Create(models.Product{Name: "Lamp", Price: 40, Stock: 1})
	f.addToCart(t, "s1", mug, 2)
	f.addToCart(t, "s1", lamp, 3)

	_, err := f.svc.PlaceOrder(context.Background(), "s1", validRequest())
	assert.ErrorIs(t, err, repo.ErrInsufficientStock)

	p, _ := f.products.GetByID(mug.ID)
	assert.Equal(t, 5, p.Stock)

	c, _ := f.sessions.GetCart(context.Background(), "s1")
	assert.False(t, c.IsEmpty())
	assert.Empty(t, f.notifier.orders)
}

func TestPlaceOrder_DoubleSubmitPlacesOneOrder(t *testing.T) {
	f := newFixture(t)
	mug, _ := f.products.Create(models.Product{Name: "Mug", Price: 10, Stock: 5})
	f.addToCart(t, "s1", mug, 2)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(context.Background(), "s1", validRequest())
		}()
	}
	wg.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		assert.ErrorIs(t, err, ErrCartEmpty)
	}
	assert.Equal(t, 1, placed)

	p, _ := f.products.GetByID(mug.ID)
	assert.Equal(t, 3, p.Stock)
	_, total, _ := f.orders.List(repo.OrderFilter{})
	assert.Equal(t, 1, total)
}

func TestPlaceOrder_FailureKeepsLinesAddedMeanwhile(t *testing.T) {
	f := newFixture(t)
	mug, _ := f.products.Create(models.Product{Name: "Mug", Price: 10, Stock: 1})
	lamp, _ := f.products.Create(models.Product{Name: "Lamp", Price: 40, Stock: 4})
	f.addToCart(t, "s1", mug, 3)

	c, err := f.svc.claimCart(context.Background(), "s1")
	require.NoError(t, err)
	f.addToCart(t, "s1", lamp, 1)

	_, err = f.svc.takeStock(c)
	require.ErrorIs(t, err, repo.ErrInsufficientStock)
	f.svc.restoreCart(context.Background(), "s1", c)

	got, _ := f.sessions.GetCart(context.Background(), "s1")
	assert.Equal(t, 4, got.Count())
	assert.Len(t, got.Items, 2)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PlaceOrder(context.Background(), "nobody", validRequest())
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPlaceOrder_RetriesDuplicateOrderID(t *testing.T) {
	f := newFixture(t)
	mug, _ := f.products.Create(models.Product{Name: "Mug", Price: 10, Stock: 5})
	_, _ = f.orders.Create(models.Order{OrderID: "ORD-2025-100000"})
	f.addToCart(t, "s1", mug, 1)

	calls := 0
	f.svc.intN = func(n int) int {
		calls++
		if calls <= 3 {
			return 0
		}
		return 1
	}

	order, err := f.svc.PlaceOrder(context.Background(), "s1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-100001", order.OrderID)
}

func TestPlaceOrder_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Shipping.Email = "not-an-email"
	req.Shipping.City = " "
	req.Payment.CardNumber = "4242 4242"
	req.Payment.CVV = "12345"

	_, err := f.svc.PlaceOrder(context.Background(), "s1", req)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, e := range verrs {
		fields[e.Field] = e.Description
	}
	assert.Equal(t, "Please enter a valid email address", fields["email"])
	assert.Equal(t, "City is required", fields["city"])
	assert.Equal(t, "Please enter a valid card number", fields["card_number"])
	assert.Equal(t, "Please enter a valid CVV", fields["cvv"])
	assert.Len(t, verrs, 4)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a b@c.io"))
	assert.False(t, ValidEmail("a@b"))
}

func TestOrderItemsCarryVariant(t *testing.T) {
	c := cart.Cart{}
	p := models.Product{ID: 1, Name: "Shirt", Price: 20, Variants: []models.ProductVariant{{Name: "size", Options: []string{"M"}}}}
	require.NoError(t, c.AddItem(p, &cart.Variant{Name: "size", Value: "M"}, 1))

	items := orderItems(c)
	require.Len(t, items, 1)
	assert.Equal(t, "size", items[0].VariantName)
	assert.Equal(t, "M", items[0].VariantValue)
}
