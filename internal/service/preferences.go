package service

import (
	"context"
	"strconv"
)

// CustomerListLimitKey is the plain local storage key for the customer list page size.
const CustomerListLimitKey = "customer-list-limit"

// Bounds for the customer list page size.
const (
	DefaultCustomerListLimit = 10
	MaxCustomerListLimit     = 100
)

// Preferences reads and writes per-browser UI preferences from plain local storage.
type Preferences struct {
	storage ItemStorage
}

// NewPreferences constructs Preferences over storage.
func NewPreferences(storage ItemStorage) *Preferences {
	return &Preferences{storage: storage}
}

// CustomerListLimit returns the stored page size or the default when unset or invalid.
func (p *Preferences) CustomerListLimit(ctx context.Context, clientID string) int {
	if clientID == "" {
		return DefaultCustomerListLimit
	}
	raw, ok := p.storage.GetItem(ctx, clientID, CustomerListLimitKey)
	if !ok {
		return DefaultCustomerListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultCustomerListLimit
	}
	return ClampCustomerListLimit(n)
}

// SetCustomerListLimit clamps n and stores it. The stored value is returned.
func (p *Preferences) SetCustomerListLimit(ctx context.Context, clientID string, n int) int {
	n = ClampCustomerListLimit(n)
	if clientID != "" {
		p.storage.SetItem(ctx, clientID, CustomerListLimitKey, strconv.Itoa(n))
	}
	return n
}

// ClampCustomerListLimit bounds n to 1..MaxCustomerListLimit; non-positive values yield the default.
func ClampCustomerListLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultCustomerListLimit
	case n > MaxCustomerListLimit:
		return MaxCustomerListLimit
	default:
		return n
	}
}
