package repo

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	m := Metrics{Customers: CustomerMetrics{ByStatus: emptyStatusCounts()}}

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(revenue), 0) FROM customers`).
		Scan(&m.Customers.Total, &m.Customers.TotalRevenue)
	if err != nil {
		return m, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM customers GROUP BY status`)
	if err != nil {
		return m, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return m, err
		}
		m.Customers.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT company, COUNT(*) AS cnt
		FROM customers
		WHERE company <> ''
		GROUP BY company
		ORDER BY cnt DESC, MIN(id)
		LIMIT 1
	`).Scan(&m.Customers.TopCompany.Name, &m.Customers.TopCompany.CustomerCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE stock <= 0) FROM products`).
		Scan(&m.Products.Total, &m.Products.OutOfStock)
	if err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders`).
		Scan(&m.Orders.Total, &m.Orders.Revenue)
	if err != nil {
		return m, err
	}

	m.Customers.TotalRevenue = round2(m.Customers.TotalRevenue)
	m.Orders.Revenue = round2(m.Orders.Revenue)
	return m, nil
}
