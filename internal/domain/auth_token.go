package domain

import "errors"

var (
	// ErrInvalidAuthToken is returned when a token cannot be decoded or carries no subject.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrAuthTokenExpired is returned when a token's expiry claim lies in the past.
	ErrAuthTokenExpired = errors.New("auth token expired")
)

// AuthToken holds the claims decoded from a bearer token.
// The signature is never checked client-side; the remote API stays authoritative.
type AuthToken struct {
	UserID    string `json:"id"`   // Subject identifier of the authenticated user
	Name      string `json:"name"` // Display name embedded by the issuer
	Role      string `json:"role"` // Role embedded by the issuer
	IssuedAt  int64  `json:"iat"`  // Unix timestamp when the token was created, 0 if absent
	ExpiresAt int64  `json:"exp"`  // Unix timestamp when the token expires, 0 if absent
}

// Expired reports whether the token carries an expiry claim that lies before now (unix seconds).
func (t AuthToken) Expired(now int64) bool {
	return t.ExpiresAt != 0 && t.ExpiresAt < now
}

// AuthResponse is returned by the sign-in and sign-up endpoints.
type AuthResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
	Token   string      `json:"token"`
}

// VerifyTokenResponse is returned by the token verification endpoint.
type VerifyTokenResponse struct {
	Message string    `json:"message"`
	Decoded AuthToken `json:"decoded"`
}

// MessageResponse is the generic acknowledgement envelope of mutating endpoints.
type MessageResponse struct {
	Status     string `json:"status"`
	StatusMsg  string `json:"statusMsg"`
	Message    string `json:"message"`
	Token      string `json:"token,omitempty"`
	NumOfItems int    `json:"numOfCartItems,omitempty"`
}

// Succeeded reports whether the envelope signals success in any of the shapes the API uses.
func (r MessageResponse) Succeeded() bool {
	return r.Status == "success" || r.StatusMsg == "success" || r.Message == "success"
}

// Text returns the most descriptive message the envelope carries.
func (r MessageResponse) Text() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.StatusMsg != "":
		return r.StatusMsg
	default:
		return r.Status
	}
}
