package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Callers wrap these so main can map them to exit codes without inspecting messages.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrDispatchFailed = errors.New("dispatch failed")
)
