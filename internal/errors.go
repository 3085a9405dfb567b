package internal

import "errors"

var (
	ErrOrderNotFound     = errors.New("order is not in the live set")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status can only move forward")
	ErrAlreadyPaid       = errors.New("order is already paid")

	ErrBackendUnavailable = errors.New("backend request failed")
	ErrTooManyRequests    = errors.New("backend rate limit hit")

	ErrChannelClosed   = errors.New("push channel closed")
	ErrRetriesExceeded = errors.New("push channel retry budget exhausted")
)
