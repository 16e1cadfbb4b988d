package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/domain"
)

// Claims is the decoded identity information carried by a verified
// session token: the subject's ID and role plus standard metadata.
// It is derived, never persisted; the server holds no session table.
type Claims struct {
	UserID    uuid.UUID
	Role      domain.Role
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService defines the interface for session token operations.
type JWTService interface {
	// GenerateToken creates a signed token embedding the user's ID and
	// role, expiring after the configured lifetime.
	GenerateToken(ctx context.Context, userID uuid.UUID, role domain.Role) (string, error)

	// ValidateToken verifies a token's signature and expiry and returns
	// its claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// TokenLifetime reports the configured token validity window,
	// used to align the session cookie's max age with token expiry.
	TokenLifetime() time.Duration
}
