package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrSwapNotPending signals a resolution attempt on a swap that has
	// already been resolved (a concurrent responder won the race).
	ErrSwapNotPending = errors.New("repository: swap is not pending")
	// ErrInsufficientPoints signals a settlement-time balance shortfall; the
	// swap has been rejected in the same transaction.
	ErrInsufficientPoints = errors.New("repository: insufficient points")
	// ErrItemUnavailable signals a settlement-time item check failure (item
	// gone, deactivated or no longer approved); the swap has been rejected
	// in the same transaction.
	ErrItemUnavailable = errors.New("repository: item unavailable")
)
