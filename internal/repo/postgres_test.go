package repo

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var customerRowColumns = []string{"id", "first_name", "last_name", "email", "phone", "company", "position", "status",
	"street", "city", "state", "zip_code", "revenue", "tags", "date_created", "last_updated"}

func TestPostgresCustomerRepository_GetAll(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .* FROM customers ORDER BY id").
		WillReturnRows(sqlmock.NewRows(customerRowColumns).
			AddRow(1, "Ada", "Lovelace", "ada@example.com", "555", "Acme", "CTO", "active",
				"1 Main St", "London", "LDN", "N1", 1200.5, `["vip","beta"]`, created, created).
			AddRow(2, "Alan", "Turing", "alan@example.com", "", "", "", "pending",
				"", "", "", "", 0.0, `[]`, created, created))

	customers, err := NewPostgresCustomerRepository(db).GetAll()
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, models.StatusActive, customers[0].Status)
	assert.Equal(t, []string{"vip", "beta"}, customers[0].Tags)
	assert.Equal(t, "London", customers[0].Address.City)
	assert.Empty(t, customers[1].Tags)
}

func TestPostgresCustomerRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO customers").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := NewPostgresCustomerRepository(db).Create(models.Customer{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
}

func TestPostgresCustomerRepository_GetByEmailNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM customers WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(customerRowColumns))

	_, err := NewPostgresCustomerRepository(db).GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPostgresCustomerRepository_SetStatus(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`UPDATE customers SET status = \$1, last_updated = \$2 WHERE id IN \(\$3, \$4\)`).
		WithArgs("inactive", sqlmock.AnyArg(), 4, 9).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewPostgresCustomerRepository(db).SetStatus([]int{4, 9}, models.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPostgresCustomerRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("DELETE FROM customers WHERE id").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewPostgresCustomerRepository(db).Delete(3), ErrCustomerNotFound)
}

var productRowColumns = []string{"id", "name", "description", "price", "original_price", "category", "brand",
	"rating", "review_count", "stock", "image", "thumbnail", "variants", "created_at", "updated_at"}

func TestPostgresProductRepository_AdjustStockInsufficient(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE products SET stock = stock").
		WithArgs(-5, sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows(productRowColumns))
	mock.ExpectQuery("SELECT .* FROM products WHERE id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(1, "Lamp", "", 20.0, nil, "home", "Lumen", 4.5, 10, 2, "", "", `[]`, now, now))

	_, err := NewPostgresProductRepository(db).AdjustStock(1, -5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestPostgresProductRepository_GetByIDDecodesVariants(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .* FROM products WHERE id").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(2, "Shirt", "Cotton", 19.99, 25.0, "clothing", "Basic", 4.0, 3, 8, "img", "thumb",
				`[{"name":"size","options":["S","M"]}]`, now, now))

	p, err := NewPostgresProductRepository(db).GetByID(2)
	require.NoError(t, err)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 25.0, *p.OriginalPrice)
	assert.True(t, p.HasVariantOption("size", "M"))
}

func TestPostgresOrderRepository_List(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	limit := 5

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM orders WHERE 1=1 ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "tracking_number", "estimated_delivery", "items",
			"shipping", "promo_code", "subtotal", "discount", "shipping_cost", "tax", "total", "created_at"}).
			AddRow("ORD-2025-000001", "TRK000000001", now, `[{"product_id":1,"name":"Mug","price":5,"quantity":2}]`,
				`{"first_name":"Ada","email":"ada@example.com"}`, "SAVE10", 10.0, 1.0, 9.99, 0.8, 19.79, now))

	orders, total, err := NewPostgresOrderRepository(db).List(OrderFilter{Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, "Ada", orders[0].Shipping.FirstName)
}

func TestPostgresUserRepository_GetByUsernameNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at", "updated_at"}))

	_, err := NewPostgresUserRepository(db).GetByUsername("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
