package apiclient

import (
	"context"
	"net/http"

	"github.com/mkrupp/storefront/internal/domain"
)

// SignIn exchanges credentials for a token and the user profile.
func (c *Client) SignIn(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error) {
	var resp domain.AuthResponse

	err := c.Do(ctx, Request{Method: http.MethodPost, Path: PathSignin, Body: creds}, &resp)

	return resp, err
}

// SignUp registers an account and returns its token and profile.
func (c *Client) SignUp(ctx context.Context, data domain.SignupData) (domain.AuthResponse, error) {
	var resp domain.AuthResponse

	err := c.Do(ctx, Request{Method: http.MethodPost, Path: PathSignup, Body: data}, &resp)

	return resp, err
}

// ForgotPassword asks the API to mail a reset code to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (domain.MessageResponse, error) {
	var resp domain.MessageResponse

	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathForgotPassword,
		Body:   map[string]string{"email": email},
	}, &resp)

	return resp, err
}

// VerifyResetCode checks a mailed reset code.
func (c *Client) VerifyResetCode(ctx context.Context, code string) (domain.MessageResponse, error) {
	var resp domain.MessageResponse

	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathVerifyResetCode,
		Body:   map[string]string{"resetCode": code},
	}, &resp)

	return resp, err
}

// ResetPassword sets a new password after the reset code was verified.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (domain.MessageResponse, error) {
	var resp domain.MessageResponse

	err := c.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   PathResetPassword,
		Body:   map[string]string{"email": email, "newPassword": newPassword},
	}, &resp)

	return resp, err
}

// VerifyToken asks the API whether the stored token is still valid.
func (c *Client) VerifyToken(ctx context.Context) (domain.VerifyTokenResponse, error) {
	var resp domain.VerifyTokenResponse

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathVerifyToken, RequireAuth: true}, &resp)

	return resp, err
}

// UpdateMe updates the profile of the signed-in user.
func (c *Client) UpdateMe(ctx context.Context, update domain.ProfileUpdate) (domain.ProfileResponse, error) {
	var resp domain.ProfileResponse

	err := c.Do(ctx, Request{Method: http.MethodPut, Path: PathUpdateMe, Body: update, RequireAuth: true}, &resp)

	return resp, err
}

// ChangeMyPassword changes the password of the signed-in user. The response carries a fresh token.
func (c *Client) ChangeMyPassword(ctx context.Context, change domain.PasswordChange) (domain.MessageResponse, error) {
	var resp domain.MessageResponse

	err := c.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   PathChangePassword,
		Body: map[string]string{
			"currentPassword": change.CurrentPassword,
			"password":        change.Password,
			"rePassword":      change.Confirm,
		},
		RequireAuth: true,
	}, &resp)

	return resp, err
}
