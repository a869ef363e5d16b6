package service

import "errors"

var (
	// ErrValidation indicates missing or malformed input; wrap it with the
	// field-level detail.
	ErrValidation = errors.New("invalid input")
	// ErrEmailTaken is returned when registration hits the unique email constraint.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")
	// ErrTokenNotFoundOrExpired is returned when a reset/confirmation secret
	// matches no stored hash or its window has passed.
	ErrTokenNotFoundOrExpired = errors.New("token invalid or expired")
	// ErrAlreadyConfirmed signals a resend request for an already confirmed email.
	ErrAlreadyConfirmed = errors.New("email already confirmed")
	// ErrMailDelivery is returned when an awaited email send fails or the
	// server accepts no recipients.
	ErrMailDelivery = errors.New("could not deliver email")
)
