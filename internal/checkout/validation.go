package checkout

import (
	"regexp"
	"strings"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an e-mail address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

type PaymentInfo struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"name_on_card"`
}

type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationErrors lists every invalid field of a checkout request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Description
	}
	return "invalid checkout: " + strings.Join(parts, "; ")
}

func required(errs ValidationErrors, field, value, label string) ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, FieldError{Field: field, Description: label + " is required"})
	}
	return errs
}

func ValidateShipping(s models.ShippingInfo) ValidationErrors {
	errs := ValidationErrors{}
	errs = required(errs, "first_name", s.FirstName, "First name")
	errs = required(errs, "last_name", s.LastName, "Last name")
	errs = required(errs, "email", s.Email, "Email")
	errs = required(errs, "phone", s.Phone, "Phone number")
	errs = required(errs, "address", s.Address, "Address")
	errs = required(errs, "city", s.City, "City")
	errs = required(errs, "state", s.State, "State")
	errs = required(errs, "zip_code", s.ZipCode, "ZIP code")

	if s.Email != "" && !ValidEmail(s.Email) {
		errs = replace(errs, FieldError{Field: "email", Description: "Please enter a valid email address"})
	}
	return errs
}

func ValidatePayment(p PaymentInfo) ValidationErrors {
	errs := ValidationErrors{}
	errs = required(errs, "card_number", p.CardNumber, "Card number")
	errs = required(errs, "expiry_date", p.ExpiryDate, "Expiry date")
	errs = required(errs, "cvv", p.CVV, "CVV")
	errs = required(errs, "name_on_card", p.NameOnCard, "Name on card")

	if p.CardNumber != "" && len(strings.Join(strings.Fields(p.CardNumber), "")) < 16 {
		errs = replace(errs, FieldError{Field: "card_number", Description: "Please enter a valid card number"})
	}
	if p.CVV != "" && (len(p.CVV) < 3 || len(p.CVV) > 4) {
		errs = replace(errs, FieldError{Field: "cvv", Description: "Please enter a valid CVV"})
	}
	return errs
}

// replace keeps a single message per field, the later check winning.
func replace(errs ValidationErrors, e FieldError) ValidationErrors {
	for i := range errs {
		if errs[i].Field == e.Field {
			errs[i] = e
			return errs
		}
	}
	return append(errs, e)
}
