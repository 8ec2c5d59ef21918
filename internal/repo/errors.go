package repo

import "errors"

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidRole           = errors.New("invalid role")
	ErrOrderNotFound         = errors.New("order not found")
	ErrDuplicatedValueUnique = errors.New("duplicated value violates unique constraint")
	ErrInsufficientStock     = errors.New("insufficient stock")
)
