package domain

import "errors"

var (
	// ErrNotFound covers any missing user/role/restaurant/order lookup.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a status change is requested
	// from a state that does not allow it (e.g. approving a restaurant
	// that is no longer PENDING). The record is left untouched.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyExists covers uniqueness conflicts such as a second
	// shipping record for the same order.
	ErrAlreadyExists = errors.New("already exists")
)
