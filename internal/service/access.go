package service

import (
	"context"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/security"
)

// AccessChecker resolves a session token to a moderator identity. Every
// state-mutating moderation operation sits behind it; failures happen
// before any blob or record is touched.
type AccessChecker struct {
	secret     string
	moderators ModeratorStore
}

func NewAccessChecker(secret string, moderators ModeratorStore) *AccessChecker {
	return &AccessChecker{secret: secret, moderators: moderators}
}

// Verify returns the caller's email when the session resolves to an
// allow-listed moderator.
func (c *AccessChecker) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.New(apperr.Unauthorized, "no session")
	}

	claims, err := security.ParseSessionToken(token, c.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthorized, "no session", err)
	}

	ok, err := c.moderators.Exists(ctx, claims.Email)
	if err != nil {
		return "", apperr.Wrap(apperr.Dependency, "moderator lookup", err)
	}
	if !ok {
		return "", apperr.New(apperr.Unauthorized, "not a moderator")
	}

	return claims.Email, nil
}
