package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
)

// Identity is the verified actor behind a request.
type Identity struct {
	UserID  uuid.UUID
	Role    model.Role
	TokenID string
	Claims  *Claims
}

// IsAdmin reports whether the identity carries the admin capability.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// Authenticator turns a bearer token into a verified identity.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Identity, error)
}

// UserFinder loads users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TokenAuthenticator validates access tokens issued by JWTService.
type TokenAuthenticator struct {
	jwt    *JWTService
	tokens TokenStoreInterface
	users  UserFinder
}

var _ Authenticator = (*TokenAuthenticator)(nil)

// NewTokenAuthenticator creates an authenticator backed by JWTs, the token store and user storage.
func NewTokenAuthenticator(jwtService *JWTService, tokens TokenStoreInterface, users UserFinder) *TokenAuthenticator {
	return &TokenAuthenticator{jwt: jwtService, tokens: tokens, users: users}
}

// Authenticate validates the token, rejects blacklisted ones and reloads the
// user so role changes apply to tokens already issued.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, bearerToken string) (Identity, error) {
	if bearerToken == "" {
		return Identity{}, apperrors.Unauthenticated("missing token")
	}
	claims, err := a.jwt.ValidateAccessToken(bearerToken)
	if err != nil {
		return Identity{}, apperrors.Unauthenticated("invalid or expired token")
	}

	blacklisted, err := a.tokens.IsAccessTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return Identity{}, apperrors.Internal(err)
	}
	if blacklisted {
		return Identity{}, apperrors.Unauthenticated("token has been revoked")
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Identity{}, apperrors.Unauthenticated("user no longer exists")
		}
		return Identity{}, err
	}

	return Identity{
		UserID:  user.ID,
		Role:    user.Role,
		TokenID: claims.ID,
		Claims:  claims,
	}, nil
}
