package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

const customerColumns = `id, first_name, last_name, email, phone, company, position, status,
	street, city, state, zip_code, revenue, tags, date_created, last_updated`

func scanCustomer(row rowScanner) (models.Customer, error) {
	var (
		c    models.Customer
		tags []byte
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Company, &c.Position, &c.Status,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.ZipCode,
		&c.Revenue, &tags, &c.DateCreated, &c.LastUpdated)
	if err != nil {
		return models.Customer{}, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return models.Customer{}, fmt.Errorf("failed to decode tags of customer %d: %w", c.ID, err)
		}
	}
	return c, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

func (r *PostgresCustomerRepository) Create(c models.Customer) (models.Customer, error) {
	tags, err := encodeTags(c.Tags)
	if err != nil {
		return models.Customer{}, err
	}
	query := `INSERT INTO customers (first_name, last_name, email, phone, company, position, status,
		street, city, state, zip_code, revenue, tags, date_created, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err = r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.Position, string(c.Status),
		c.Address.Street, c.Address.City, c.Address.State, c.Address.ZipCode, c.Revenue, tags, c.DateCreated, c.LastUpdated).
		Scan(&c.ID)
	if isUniqueViolation(err) {
		return models.Customer{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

func (r *PostgresCustomerRepository) GetAll() ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PostgresCustomerRepository) getOne(where string, arg any) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + where
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (r *PostgresCustomerRepository) GetByID(id int) (models.Customer, error) {
	return r.getOne("id = $1", id)
}

func (r *PostgresCustomerRepository) GetByEmail(email string) (models.Customer, error) {
	return r.getOne("lower(email) = lower($1)", email)
}

func (r *PostgresCustomerRepository) Update(c models.Customer) (models.Customer, error) {
	tags, err := encodeTags(c.Tags)
	if err != nil {
		return models.Customer{}, err
	}
	query := `UPDATE customers SET first_name = $1, last_name = $2, email = $3, phone = $4, company = $5,
		position = $6, status = $7, street = $8, city = $9, state = $10, zip_code = $11, revenue = $12,
		tags = $13, last_updated = $14
		WHERE id = $15 RETURNING date_created`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err = r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.Position, string(c.Status),
		c.Address.Street, c.Address.City, c.Address.State, c.Address.ZipCode, c.Revenue, tags, c.LastUpdated, c.ID).
		Scan(&c.DateCreated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Customer{}, ErrCustomerNotFound
	case isUniqueViolation(err):
		return models.Customer{}, ErrDuplicatedValueUnique
	case err != nil:
		return models.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	return c, nil
}

func (r *PostgresCustomerRepository) Delete(id int) error {
	query := `DELETE FROM customers WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresCustomerRepository) DeleteMany(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM customers WHERE id IN (` + placeholders(1, len(ids)) + `)`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, intArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete customers: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *PostgresCustomerRepository) SetStatus(ids []int, status models.CustomerStatus) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE customers SET status = $1, last_updated = $2 WHERE id IN (` + placeholders(3, len(ids)) + `)`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	args := append([]any{string(status), time.Now().UTC()}, intArgs(ids)...)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update customer status: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
