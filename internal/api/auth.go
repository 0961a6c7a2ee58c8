package api

import (
	"context"
	"fmt"
	"net/url"
)

// Login exchanges credentials for a session token and profile.
func (c *Client) Login(
	ctx context.Context, username, password string,
) (*LoginResponse, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}

	var resp LoginResponse
	if err := c.Post(ctx, "/api/auth/login", payload, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if resp.Token.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &resp, nil
}

// Register creates a new account.
func (c *Client) Register(
	ctx context.Context, payload RegisterPayload,
) (string, error) {
	var resp GeneralResponse
	if err := c.Post(ctx, "/api/auth/register", payload, &resp); err != nil {
		return "", fmt.Errorf("registering: %w", err)
	}
	return resp.Message, nil
}

// ForgotPassword requests a password-recovery email for the account.
func (c *Client) ForgotPassword(ctx context.Context, gmail string) (string, error) {
	payload := map[string]string{"gmail": gmail}

	var resp GeneralResponse
	if err := c.Post(ctx, "/api/auth/forgot-password", payload, &resp); err != nil {
		return "", fmt.Errorf("requesting password reset: %w", err)
	}
	return resp.Message, nil
}

// ResetPassword sets a new password using a recovery token.
func (c *Client) ResetPassword(
	ctx context.Context, token, newPassword, confirmPassword string,
) (string, error) {
	payload := ResetPasswordPayload{
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}

	path := "/api/auth/reset-password/" + url.PathEscape(token)

	var resp GeneralResponse
	if err := c.Post(ctx, path, payload, &resp); err != nil {
		return "", fmt.Errorf("resetting password: %w", err)
	}
	return resp.Message, nil
}
