package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/cart"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCustomerRepository_EmailUnique(t *testing.T) {
	r := NewInMemoryCustomerRepository()

	first, err := r.Create(models.Customer{FirstName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	_, err = r.Create(models.Customer{FirstName: "Other", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	second, err := r.Create(models.Customer{FirstName: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	second.Email = "ada@example.com"
	_, err = r.Update(second)
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	got, err := r.GetByEmail("Grace@Example.com")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestInMemoryCustomerRepository_UpdateKeepsDateCreated(t *testing.T) {
	r := NewInMemoryCustomerRepository()
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	c, err := r.Create(models.Customer{Email: "a@b.co", DateCreated: created})
	require.NoError(t, err)

	c.DateCreated = time.Time{}
	c.Company = "Acme"
	updated, err := r.Update(c)
	require.NoError(t, err)
	assert.Equal(t, created, updated.DateCreated)

	_, err = r.Update(models.Customer{ID: 99})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestInMemoryCustomerRepository_BulkOperations(t *testing.T) {
	r := NewInMemoryCustomerRepository()
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		_, err := r.Create(models.Customer{Email: email, Status: models.StatusPending})
		require.NoError(t, err)
	}

	n, err := r.SetStatus([]int{1, 3, 42}, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c, _ := r.GetByID(3)
	assert.Equal(t, models.StatusActive, c.Status)

	n, err = r.DeleteMany([]int{1, 2, 42})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := r.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, 3, all[0].ID)

	assert.ErrorIs(t, r.Delete(1), ErrCustomerNotFound)
}

func TestInMemoryProductRepository_AdjustStock(t *testing.T) {
	r := NewInMemoryProductRepository()
	p, err := r.Create(models.Product{Name: "Lamp", Stock: 2})
	require.NoError(t, err)

	p, err = r.AdjustStock(p.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	_, err = r.AdjustStock(p.ID, -1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = r.AdjustStock(404, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryProductRepository_UpsertKeepsIDs(t *testing.T) {
	r := NewInMemoryProductRepository()
	_, err := r.Upsert(models.Product{ID: 7, Name: "Phone"})
	require.NoError(t, err)
	_, err = r.Upsert(models.Product{ID: 7, Name: "Phone 2"})
	require.NoError(t, err)

	created, err := r.Create(models.Product{Name: "Case"})
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID)

	got, err := r.GetByID(7)
	require.NoError(t, err)
	assert.Equal(t, "Phone 2", got.Name)
}

func TestInMemoryUserRepository(t *testing.T) {
	r := NewInMemoryUserRepository()
	admin, err := r.CreateUser(models.User{Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, admin.ID)
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.CreatedAt.IsZero())
	assert.Equal(t, admin.CreatedAt, admin.UpdatedAt)

	_, err = r.CreateUser(models.User{Username: "admin", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	_, err = r.CreateUser(models.User{Username: "clerk", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	clerk, err := r.CreateUser(models.User{Username: "clerk", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, 2, clerk.ID)
	assert.False(t, clerk.IsAdmin())

	got, err := r.GetByUsername("clerk")
	require.NoError(t, err)
	assert.Equal(t, clerk, got)

	_, err = r.GetByUsername("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInMemoryOrderRepository_List(t *testing.T) {
	r := NewInMemoryOrderRepository()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"ORD-2025-000001", "ORD-2025-000002", "ORD-2025-000003"} {
		_, err := r.Create(models.Order{OrderID: id, CreatedAt: base.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	_, err := r.Create(models.Order{OrderID: "ORD-2025-000001"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	orders, total, err := r.List(OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "ORD-2025-000003", orders[0].OrderID)

	since := base.AddDate(0, 0, 1)
	limit := 1
	orders, total, err = r.List(OrderFilter{Since: &since, Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-2025-000003", orders[0].OrderID)

	offset := 10
	orders, _, err = r.List(OrderFilter{Offset: &offset})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = r.GetByID("ORD-0000-000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestInMemoryOrderRepository_ListCapsLimit(t *testing.T) {
	r := NewInMemoryOrderRepository()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range defaultOrderLimit + 5 {
		_, err := r.Create(models.Order{OrderID: fmt.Sprintf("ORD-2025-%06d", i+1), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	orders, total, err := r.List(OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultOrderLimit+5, total)
	assert.Len(t, orders, defaultOrderLimit)

	huge := 1000
	orders, _, err = r.List(OrderFilter{Limit: &huge})
	require.NoError(t, err)
	assert.Len(t, orders, defaultOrderLimit)

	zero := 0
	orders, _, err = r.List(OrderFilter{Limit: &zero})
	require.NoError(t, err)
	assert.Len(t, orders, defaultOrderLimit)

	offset := 100
	orders, _, err = r.List(OrderFilter{Offset: &offset})
	require.NoError(t, err)
	assert.Len(t, orders, 5)
}

func TestInMemorySessionStore_IsolatesCopies(t *testing.T) {
	s := NewInMemorySessionStore()
	ctx := context.Background()

	empty, err := s.GetCart(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	c := cart.Cart{}
	require.NoError(t, c.AddItem(models.Product{ID: 1, Name: "Mug", Price: 5}, nil, 2))
	require.NoError(t, s.SaveCart(ctx, "s1", c))

	c.Items[0].Quantity = 99
	got, err := s.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)

	w := cart.Wishlist{}
	w.Add(models.Product{ID: 3, Name: "Desk"}, time.Now())
	require.NoError(t, s.SaveWishlist(ctx, "s1", w))
	gotW, err := s.GetWishlist(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, gotW.Contains(3))
}

func TestInMemorySessionStore_UpdateCartIsAtomic(t *testing.T) {
	s := NewInMemorySessionStore()
	ctx := context.Background()
	mug := models.Product{ID: 1, Name: "Mug", Price: 5, Stock: 100}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateCart(ctx, "s1", func(c *cart.Cart) error {
				time.Sleep(time.Millisecond)
				return c.AddItem(mug, nil, 1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 20, got.Items[0].Quantity)
}

func TestInMemorySessionStore_UpdateErrorWritesNothing(t *testing.T) {
	s := NewInMemorySessionStore()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := s.UpdateCart(ctx, "s1", func(c *cart.Cart) error {
		_ = c.AddItem(models.Product{ID: 1, Name: "Mug", Price: 5}, nil, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := s.GetCart(ctx, "s1")
	assert.True(t, got.IsEmpty())
}

func TestInMemorySessionStore_UpdateSession(t *testing.T) {
	s := NewInMemorySessionStore()
	ctx := context.Background()
	desk := models.Product{ID: 3, Name: "Desk", Price: 80, Stock: 2}

	_, err := s.UpdateWishlist(ctx, "s1", func(w *cart.Wishlist) error {
		w.Add(desk, time.Now())
		return nil
	})
	require.NoError(t, err)

	c, w, err := s.UpdateSession(ctx, "s1", func(c *cart.Cart, w *cart.Wishlist) error {
		return cart.MoveToCart(w, c, desk)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count())
	assert.False(t, w.Contains(desk.ID))

	stored, _ := s.GetWishlist(ctx, "s1")
	assert.Empty(t, stored.Items)
}

func TestInMemoryMetricsRepository(t *testing.T) {
	customers := NewInMemoryCustomerRepository()
	products := NewInMemoryProductRepository()
	orders := NewInMemoryOrderRepository()

	seed := []models.Customer{
		{Email: "a@x.io", Company: "Acme", Status: models.StatusActive, Revenue: 100.5},
		{Email: "b@x.io", Company: "Globex", Status: models.StatusActive, Revenue: 50},
		{Email: "c@x.io", Company: "Globex", Status: models.StatusPending, Revenue: 0.25},
		{Email: "d@x.io", Company: "Acme", Status: models.StatusInactive},
	}
	for _, c := range seed {
		_, err := customers.Create(c)
		require.NoError(t, err)
	}
	_, _ = products.Create(models.Product{Name: "In", Stock: 3})
	_, _ = products.Create(models.Product{Name: "Out", Stock: 0})
	_, _ = orders.Create(models.Order{OrderID: "ORD-1", Total: 10.1})
	_, _ = orders.Create(models.Order{OrderID: "ORD-2", Total: 20.2})

	m := NewInMemoryMetricsRepository()
	m.SetRepositories(customers, products, orders)

	got, err := m.GetDashboardMetrics()
	require.NoError(t, err)
	assert.Equal(t, 4, got.Customers.Total)
	assert.Equal(t, map[string]int{"active": 2, "inactive": 1, "pending": 1}, got.Customers.ByStatus)
	assert.Equal(t, 150.75, got.Customers.TotalRevenue)
	assert.Equal(t, TopCompany{Name: "Acme", CustomerCount: 2}, got.Customers.TopCompany)
	assert.Equal(t, ProductMetrics{Total: 2, OutOfStock: 1}, got.Products)
	assert.Equal(t, 2, got.Orders.Total)
	assert.Equal(t, 30.3, got.Orders.Revenue)
}
