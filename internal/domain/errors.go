package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// Verification outcomes. Only ErrMailDelivery and ErrGrantIssue come from
// collaborators; the others describe ordinary transitions.
var (
	ErrPolicyRejected    = errors.New("email domain not allowed")
	ErrMailDelivery      = errors.New("mail delivery failed")
	ErrGrantIssue        = errors.New("grant issuance failed")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrInvalidTransition = errors.New("invalid session transition")
)
