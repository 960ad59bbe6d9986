package clients

import (
	"context"

	"github.com/woiladev/marketplace-client/internal/domain/session"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
)

type AuthClient struct {
	api *api.Client
}

func NewAuthClient(apiClient *api.Client) *AuthClient {
	return &AuthClient{api: apiClient}
}

type VerifyOTPResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

func (c *AuthClient) Register(ctx context.Context, name, email, password string) api.Result {
	return c.api.Request(ctx, "POST", "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *AuthClient) Login(ctx context.Context, email, password string) api.Result {
	return c.api.Request(ctx, "POST", "/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *AuthClient) VerifyOTP(ctx context.Context, email, otp string) api.Result {
	return c.api.Request(ctx, "POST", "/verify-otp", map[string]string{
		"email": email,
		"otp":   otp,
	})
}

func (c *AuthClient) ForgotPassword(ctx context.Context, email string) api.Result {
	return c.api.Request(ctx, "POST", "/forgot-password", map[string]string{
		"email": email,
	})
}

func (c *AuthClient) VerifyResetOTP(ctx context.Context, email, otp string) api.Result {
	return c.api.Request(ctx, "POST", "/verify-otp-password", map[string]string{
		"email": email,
		"otp":   otp,
	})
}

func (c *AuthClient) ResetPassword(ctx context.Context, email, newPassword string) api.Result {
	return c.api.Request(ctx, "POST", "/reset-password", map[string]string{
		"email":        email,
		"new_password": newPassword,
	})
}
