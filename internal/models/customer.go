package models

import "time"

type CustomerStatus string

const (
	StatusActive   CustomerStatus = "active"
	StatusInactive CustomerStatus = "inactive"
	StatusPending  CustomerStatus = "pending"
)

// Valid reports whether s is one of the known customer statuses.
func (s CustomerStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Customer is a CRM record. ID is assigned by the repository and never changes.
type Customer struct {
	ID          int            `json:"id"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Company     string         `json:"company"`
	Position    string         `json:"position"`
	Status      CustomerStatus `json:"status"`
	Address     Address        `json:"address"`
	Revenue     float64        `json:"revenue"`
	Tags        []string       `json:"tags"`
	DateCreated time.Time      `json:"date_created"`
	LastUpdated time.Time      `json:"last_updated"`
}

func (c Customer) RecordID() int {
	return c.ID
}

func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
