package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrCastleNotFound = errors.New("castle not found")

	ErrCastleInactive = errors.New("castle is not available for hire")

	ErrSlotTaken = errors.New("requested slot is already booked")

	ErrLockHeld = errors.New("another booking for this slot is in progress")

	ErrInvalidManageToken = errors.New("manage token is invalid or expired")

	ErrNotCancellable = errors.New("booking can no longer be cancelled")
)
