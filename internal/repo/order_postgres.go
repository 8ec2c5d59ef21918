package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

const defaultOrderLimit = 100

const orderColumns = `order_id, tracking_number, estimated_delivery, items, shipping, promo_code,
	subtotal, discount, shipping_cost, tax, total, created_at`

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		o               models.Order
		items, shipping []byte
	)
	err := row.Scan(&o.OrderID, &o.TrackingNumber, &o.EstimatedDelivery, &items, &shipping, &o.PromoCode,
		&o.Subtotal, &o.Discount, &o.ShippingCost, &o.Tax, &o.Total, &o.CreatedAt)
	if err != nil {
		return models.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode items of order %s: %w", o.OrderID, err)
	}
	if err := json.Unmarshal(shipping, &o.Shipping); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode shipping of order %s: %w", o.OrderID, err)
	}
	return o, nil
}

func (r *PostgresOrderRepository) Create(o models.Order) (models.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return models.Order{}, err
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return models.Order{}, err
	}

	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err = r.db.ExecContext(ctx, query, o.OrderID, o.TrackingNumber, o.EstimatedDelivery, string(items),
		string(shipping), o.PromoCode, o.Subtotal, o.Discount, o.ShippingCost, o.Tax, o.Total, o.CreatedAt)
	if isUniqueViolation(err) {
		return models.Order{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

func (r *PostgresOrderRepository) GetByID(orderID string) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresOrderRepository) List(of OrderFilter) ([]models.Order, int, error) {
	if of.Offset != nil && *of.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	whereClause, args := buildOrderWhere(of)

	total, err := r.count(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}
	if (of.Limit != nil && *of.Limit == 0) || (of.Offset != nil && *of.Offset >= total) {
		return []models.Order{}, total, nil
	}

	query, queryArgs := buildOrderQuery(whereClause, args, of)
	orders, err := r.query(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	return orders, total, nil
}

func buildOrderWhere(of OrderFilter) (string, []any) {
	var args []any
	whereClause := "WHERE 1=1"
	argIndex := 1

	if of.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *of.Since)
		argIndex++
	}
	if of.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *of.Until)
	}
	return whereClause, args
}

func buildOrderQuery(whereClause string, baseArgs []any, of OrderFilter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY created_at DESC", orderColumns, whereClause)
	args := append([]any{}, baseArgs...)
	argIndex := len(baseArgs) + 1

	limit := defaultOrderLimit
	if of.Limit != nil && *of.Limit > 0 {
		limit = min(*of.Limit, defaultOrderLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if of.Offset != nil && *of.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *of.Offset)
	}
	return query, args
}

func (r *PostgresOrderRepository) count(whereClause string, args []any) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders "+whereClause, args...).Scan(&total)
	return total, err
}

func (r *PostgresOrderRepository) query(query string, args []any) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
