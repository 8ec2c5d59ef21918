package view

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

// CustomerFilter is the dashboard filter state. Empty fields are no-ops.
type CustomerFilter struct {
	Search     string     `json:"search,omitempty"`
	Status     string     `json:"status,omitempty"`
	Company    string     `json:"company,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	RevenueMin *float64   `json:"revenue_min,omitempty"`
	RevenueMax *float64   `json:"revenue_max,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

// StatusAll is the status filter value that disables status filtering.
const StatusAll = "all"

func (f CustomerFilter) Predicates() []Predicate[models.Customer] {
	var preds []Predicate[models.Customer]

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		preds = append(preds, func(c models.Customer) bool {
			return strings.Contains(strings.ToLower(c.FirstName), term) ||
				strings.Contains(strings.ToLower(c.LastName), term) ||
				strings.Contains(strings.ToLower(c.Email), term)
		})
	}

	if f.Status != "" && f.Status != StatusAll {
		status := models.CustomerStatus(f.Status)
		preds = append(preds, func(c models.Customer) bool { return c.Status == status })
	}

	if company := strings.ToLower(strings.TrimSpace(f.Company)); company != "" {
		preds = append(preds, func(c models.Customer) bool {
			return strings.Contains(strings.ToLower(c.Company), company)
		})
	}

	// both ends are needed; a half-open range is ignored
	if f.DateFrom != nil && f.DateTo != nil {
		from, to := *f.DateFrom, *f.DateTo
		preds = append(preds, func(c models.Customer) bool {
			return !c.DateCreated.Before(from) && !c.DateCreated.After(to)
		})
	}

	if f.RevenueMin != nil || f.RevenueMax != nil {
		lo, hi := 0.0, math.Inf(1)
		if f.RevenueMin != nil {
			lo = *f.RevenueMin
		}
		if f.RevenueMax != nil {
			hi = *f.RevenueMax
		}
		preds = append(preds, func(c models.Customer) bool {
			return c.Revenue >= lo && c.Revenue <= hi
		})
	}

	if len(f.Tags) > 0 {
		tags := slices.Clone(f.Tags)
		preds = append(preds, func(c models.Customer) bool {
			return slices.ContainsFunc(tags, c.HasTag)
		})
	}

	return preds
}

// CustomerSortFields lists the sortable customer columns.
var CustomerSortFields = []string{
	"id", "first_name", "last_name", "email", "phone", "company",
	"position", "status", "revenue", "date_created", "last_updated",
}

var CustomerComparators = Comparators[models.Customer]{
	"id":         func(a, b models.Customer) int { return cmp.Compare(a.ID, b.ID) },
	"first_name": func(a, b models.Customer) int { return compareFold(a.FirstName, b.FirstName) },
	"last_name":  func(a, b models.Customer) int { return compareFold(a.LastName, b.LastName) },
	"email":      func(a, b models.Customer) int { return compareFold(a.Email, b.Email) },
	"phone":      func(a, b models.Customer) int { return strings.Compare(a.Phone, b.Phone) },
	"company":    func(a, b models.Customer) int { return compareFold(a.Company, b.Company) },
	"position":   func(a, b models.Customer) int { return compareFold(a.Position, b.Position) },
	"status":     func(a, b models.Customer) int { return strings.Compare(string(a.Status), string(b.Status)) },
	"revenue":    func(a, b models.Customer) int { return cmp.Compare(a.Revenue, b.Revenue) },
	"date_created": func(a, b models.Customer) int {
		return a.DateCreated.Compare(b.DateCreated)
	},
	"last_updated": func(a, b models.Customer) int {
		return a.LastUpdated.Compare(b.LastUpdated)
	},
}
