package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/storefront/internal/domain"
)

// claims mirrors the payload the remote API signs into its tokens.
type claims struct {
	jwt.RegisteredClaims

	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Decode extracts the claims of a bearer token without verifying its signature:
// - splits the token into its three segments
// - base64url-decodes and parses the JSON payload
// - resolves the subject from the "id" claim, falling back to "sub".
// The remote API stays authoritative over validity; this is only used for local
// expiry checks and to learn the user id.
// Returns domain.ErrInvalidAuthToken for any malformed token.
func Decode(tokenString string) (domain.AuthToken, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return domain.AuthToken{}, domain.ErrInvalidAuthToken
	}

	var parsed claims

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &parsed); err != nil {
		return domain.AuthToken{}, errors.Join(domain.ErrInvalidAuthToken, fmt.Errorf("parse token: %w", err))
	}

	token := domain.AuthToken{
		UserID: parsed.UserID,
		Name:   parsed.Name,
		Role:   parsed.Role,
	}

	if token.UserID == "" {
		token.UserID = parsed.Subject
	}

	if token.UserID == "" {
		return domain.AuthToken{}, fmt.Errorf("%w: no subject", domain.ErrInvalidAuthToken)
	}

	if parsed.IssuedAt != nil {
		token.IssuedAt = parsed.IssuedAt.Unix()
	}

	if parsed.ExpiresAt != nil {
		token.ExpiresAt = parsed.ExpiresAt.Unix()
	}

	return token, nil
}

// DecodeValid decodes the token and rejects it when its expiry lies before now.
// Returns domain.ErrAuthTokenExpired for expired tokens.
func DecodeValid(tokenString string, now time.Time) (domain.AuthToken, error) {
	token, err := Decode(tokenString)
	if err != nil {
		return domain.AuthToken{}, err
	}

	if token.Expired(now.Unix()) {
		return domain.AuthToken{}, domain.ErrAuthTokenExpired
	}

	return token, nil
}
