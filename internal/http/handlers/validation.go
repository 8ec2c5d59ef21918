package handlers

import (
	"strings"

	"github.com/rogerio-castellano/storefront-crm/internal/checkout"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func requireField(errs []ValidationError, field, value, label string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{Field: field, Description: label + " is required"})
	}
	return errs
}

func validateCustomer(c models.Customer, revenueSet bool) []ValidationError {
	errs := []ValidationError{}
	errs = requireField(errs, "first_name", c.FirstName, "First name")
	errs = requireField(errs, "last_name", c.LastName, "Last name")
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, ValidationError{Field: "email", Description: "Email is required"})
	} else if !checkout.ValidEmail(c.Email) {
		errs = append(errs, ValidationError{Field: "email", Description: "Invalid email format"})
	}
	errs = requireField(errs, "phone", c.Phone, "Phone")
	errs = requireField(errs, "company", c.Company, "Company")
	errs = requireField(errs, "position", c.Position, "Position")
	errs = requireField(errs, "street", c.Address.Street, "Street")
	errs = requireField(errs, "city", c.Address.City, "City")
	errs = requireField(errs, "state", c.Address.State, "State")
	errs = requireField(errs, "zip_code", c.Address.ZipCode, "Zip code")
	if !revenueSet {
		errs = append(errs, ValidationError{Field: "revenue", Description: "Revenue is required"})
	}
	if !c.Status.Valid() {
		errs = append(errs, ValidationError{Field: "status", Description: "Status must be one of active, inactive, pending"})
	}
	return errs
}

func validateProduct(p models.Product) []ValidationError {
	errs := []ValidationError{}
	errs = requireField(errs, "name", p.Name, "Name")
	if p.Price <= 0 {
		errs = append(errs, ValidationError{Field: "price", Description: "Price must be greater than zero"})
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		errs = append(errs, ValidationError{Field: "original_price", Description: "Original price cannot be below price"})
	}
	if p.Stock < 0 {
		errs = append(errs, ValidationError{Field: "stock", Description: "Stock cannot be negative"})
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, ValidationError{Field: "rating", Description: "Rating must be between 0 and 5"})
	}
	for _, v := range p.Variants {
		if strings.TrimSpace(v.Name) == "" || len(v.Options) == 0 {
			errs = append(errs, ValidationError{Field: "variants", Description: "Each variant needs a name and at least one option"})
			break
		}
	}
	return errs
}

func fromCheckoutErrors(v checkout.ValidationErrors) []ValidationError {
	errs := make([]ValidationError, len(v))
	for i, e := range v {
		errs[i] = ValidationError{Field: e.Field, Description: e.Description}
	}
	return errs
}
