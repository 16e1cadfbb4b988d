// Package auth provides token issuance/verification and password
// hashing for the API's stateless session model.
package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has an
	// invalid signature, or carries unusable claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before time is
	// in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrMissingSecret is returned when the signing secret is absent or
	// too short. This is a fatal startup condition.
	ErrMissingSecret = errors.New("jwt secret missing or too short")
)
