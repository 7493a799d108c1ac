package domain

import (
	"fmt"
	"strings"
)

// UserProfile is the profile of the signed-in user as returned by the remote API.
// It is persisted JSON-encoded under StoreKeyUser.
type UserProfile struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Credentials are used to sign in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupData is used to register a new account.
type SignupData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
	Phone      string `json:"phone,omitempty"`
}

// Validate checks the signup data before it is sent.
func (d SignupData) Validate() error {
	if strings.TrimSpace(d.Email) == "" || d.Password == "" {
		return newValidationError("email and password are required")
	}

	if d.Password != d.RePassword {
		return newValidationError("passwords do not match")
	}

	return nil
}

// ProfileUpdate carries the editable profile fields. Empty fields are left untouched.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Apply merges the update into the profile.
func (u ProfileUpdate) Apply(profile UserProfile) UserProfile {
	if u.Name != "" {
		profile.Name = u.Name
	}

	if u.Email != "" {
		profile.Email = u.Email
	}

	if u.Phone != "" {
		profile.Phone = u.Phone
	}

	return profile
}

// PasswordChange carries a password change request. Confirm never leaves the client.
type PasswordChange struct {
	CurrentPassword string
	Password        string
	Confirm         string
}

// Validate checks the password change before it is sent.
func (c PasswordChange) Validate() error {
	if c.CurrentPassword == "" || c.Password == "" {
		return newValidationError("current and new password are required")
	}

	if c.Password != c.Confirm {
		return newValidationError("new passwords do not match")
	}

	return nil
}

// ProfileResponse is returned by the profile update endpoint.
type ProfileResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

func newValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
