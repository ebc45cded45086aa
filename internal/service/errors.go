package service

import "fmt"

// The error taxonomy the handler boundary maps to HTTP statuses. Every
// error is rendered as {success:false, error:message}; nothing is retried
// automatically anywhere in the stack.

// ValidationError: missing or malformed input (400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// DuplicateOrderError: the email already has an order (400).
type DuplicateOrderError struct {
	Email string
}

func (e *DuplicateOrderError) Error() string {
	return "Email sudah pernah digunakan untuk pembelian"
}

// NotFoundError: unknown order id (404).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// GatewayError: the payment gateway rejected the request or was
// unreachable (500). Message carries the gateway's own wording.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }

// StoreError: key-value read or write failure (500).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
