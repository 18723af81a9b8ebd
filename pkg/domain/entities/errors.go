package entities

import "errors"

var (
	// ErrInvalidRequest marks malformed picking requests; they are rejected before any stock read
	ErrInvalidRequest = errors.New("invalid picking request")
)
