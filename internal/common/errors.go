// Package common defines shared constants and sentinel errors used across
// the storage, service and HTTP layers of coursehub. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors. They never reach a response body.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential errors.
	ErrDuplicateIdentity = errors.New("email already exists")
	ErrBadCredentials    = errors.New("wrong credentials")

	// ErrUnknownIdentity wraps ErrBadCredentials so callers that only care
	// about "signin failed" can match a single value.
	ErrUnknownIdentity = fmt.Errorf("%w: unknown identity", ErrBadCredentials)

	// Auth guard errors.
	ErrUnauthenticated = errors.New("missing token")
	ErrInvalidToken    = errors.New("invalid token")

	// ErrMalformedID marks a path id that is not a UUID.
	ErrMalformedID = errors.New("malformed id")

	// Course errors.
	ErrNotFoundOrForbidden = errors.New("course not found or not owned by caller")
	ErrCourseNotFound      = errors.New("course not found")

	// Purchase errors.
	ErrAlreadyPurchased = errors.New("course already purchased")
)
