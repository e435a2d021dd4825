package domain

import (
	"errors"
	"time"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerAddress is an address on file for a customer.
type CustomerAddress struct {
	Type       string `json:"type"` // "shipping" or "billing"
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default,omitempty"`
}

// Customer is a buyer record keyed by email, accumulated from checkouts.
type Customer struct {
	ID            string
	Email         string
	Name          string
	Phone         string
	Addresses     []CustomerAddress
	TotalOrders   int
	TotalSpent    int64
	LastOrderDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecordOrder folds one completed order into the customer's totals.
func (c *Customer) RecordOrder(total int64, at time.Time) {
	c.TotalOrders++
	c.TotalSpent += total
	ts := at
	c.LastOrderDate = &ts
	c.UpdatedAt = at
}
