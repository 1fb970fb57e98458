package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"greenspark-backend/internal/models"
	"greenspark-backend/internal/storage"
)

var (
	ErrUnknownUser  = errors.New("session user no longer exists")
	ErrTokenRevoked = errors.New("session token revoked")
)

type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// RevocationList is a denylist of token IDs. Entries only need to live until
// the token would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator resolves the session cookie on a request to a user.
type Authenticator struct {
	tokens  *TokenIssuer
	users   UserLookup
	revoked RevocationList
}

// NewAuthenticator builds an Authenticator. revoked may be nil, in which case
// tokens stay valid until they expire.
func NewAuthenticator(tokens *TokenIssuer, users UserLookup, revoked RevocationList) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, revoked: revoked}
}

// Authenticate returns ErrNoSession, ErrInvalidToken, ErrTokenExpired,
// ErrTokenRevoked or ErrUnknownUser for the "not logged in" cases. Any other
// error is a server failure.
func (a *Authenticator) Authenticate(r *http.Request) (*models.User, *Claims, error) {
	raw, err := ReadToken(r)
	if err != nil {
		return nil, nil, err
	}

	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, nil, err
	}

	ctx := r.Context()
	if a.revoked != nil && claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil, ErrTokenRevoked
		}
	}

	user, err := a.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, fmt.Errorf("load session user: %w", err)
	}

	return user, claims, nil
}

// Unauthenticated reports whether err means the caller is simply not logged in.
func Unauthenticated(err error) bool {
	return errors.Is(err, ErrNoSession) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrUnknownUser)
}
