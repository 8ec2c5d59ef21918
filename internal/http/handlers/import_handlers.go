package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/export"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

type csvCustomer struct {
	customer   models.Customer
	revenueSet bool
	revenueErr bool
}

func parseCustomersCSV(r io.Reader) ([]csvCustomer, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["email"]; !ok {
		return nil, errors.New("CSV header must include Email")
	}

	var rows []csvCustomer
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(export.UnguardFormula(record[i]))
		}

		row := csvCustomer{customer: models.Customer{
			FirstName: cell("first name"),
			LastName:  cell("last name"),
			Email:     cell("email"),
			Phone:     cell("phone"),
			Company:   cell("company"),
			Position:  cell("position"),
			Status:    models.CustomerStatus(strings.ToLower(cell("status"))),
			Address: models.Address{
				Street:  cell("street"),
				City:    cell("city"),
				State:   cell("state"),
				ZipCode: cell("zip code"),
			},
			Tags: []string{},
		}}
		if row.customer.Status == "" {
			row.customer.Status = models.StatusPending
		}
		if s := cell("revenue"); s != "" {
			row.revenueSet = true
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				row.revenueErr = true
			}
			row.customer.Revenue = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowError(row int, errs []ValidationError) ValidationError {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Description
	}
	return ValidationError{Field: errs[0].Field, Description: fmt.Sprintf("row %d: %s", row, strings.Join(parts, "; "))}
}

// ImportCustomersHandler godoc
// @Summary Import customers via CSV
// @Description Accepts the export format. Rows are matched on email; mode decides whether existing customers are skipped or updated.
// @Tags customers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportCustomersResult
// @Failure 400 {string} string "Invalid file"
// @Router /customers/import [post]
func ImportCustomersHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip"
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := parseCustomersCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportCustomersResult{Errors: []ValidationError{}}
	now := time.Now().UTC()

	for i, row := range rows {
		rowNum := i + 2 // header is row 1
		c := row.customer

		errs := validateCustomer(c, row.revenueSet)
		if row.revenueErr {
			errs = append(errs, ValidationError{Field: "revenue", Description: "Revenue must be a number"})
		}
		if len(errs) > 0 {
			result.Errors = append(result.Errors, rowError(rowNum, errs))
			continue
		}

		existing, err := customerRepo.GetByEmail(c.Email)
		switch {
		case err == nil && mode == "skip":
			result.Skipped++
			continue
		case err == nil:
			c.ID = existing.ID
			c.DateCreated = existing.DateCreated
			c.Tags = existing.Tags
			c.LastUpdated = now
			if _, err := customerRepo.Update(c); err != nil {
				result.Errors = append(result.Errors, ValidationError{Field: "email", Description: fmt.Sprintf("row %d: failed to update '%s'", rowNum, c.Email)})
				continue
			}
			result.Updated++
			continue
		case !errors.Is(err, repo.ErrCustomerNotFound):
			result.Errors = append(result.Errors, ValidationError{Field: "email", Description: fmt.Sprintf("row %d: failed to look up '%s'", rowNum, c.Email)})
			continue
		}

		c.DateCreated = now
		c.LastUpdated = now
		if _, err := customerRepo.Create(c); err != nil {
			result.Errors = append(result.Errors, ValidationError{Field: "email", Description: fmt.Sprintf("row %d: failed to create '%s'", rowNum, c.Email)})
			continue
		}
		result.Created++
	}

	logx.Info().
		Str("mode", mode).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("customer import finished")
	respond(w, http.StatusOK, result)
}
