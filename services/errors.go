package services

import "errors"

// Service errors, grouped by the taxonomy controllers map onto HTTP codes:
// not-found errors reject without mutation, conflict errors leave existing
// state untouched.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrStageNotFound  = errors.New("production stage not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoActiveSession = errors.New("no active session found for this order and stage")

	ErrActiveSessionExists  = errors.New("an active session already exists for this order and stage")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrStageInUse           = errors.New("stage is referenced by time logs and cannot be deleted")
)
