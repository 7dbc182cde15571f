// Package auth covers the auth service endpoints and the session lifecycle
// built on top of them.
package auth

import (
	"context"
	"fmt"

	"github.com/aayushpawar07/devblocker-go/internal/jsontime"
	"github.com/aayushpawar07/devblocker-go/session"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// OTPType selects the purpose of a one-time passcode.
type OTPType string

// OTPRegistration verifies a new account's email address.
const OTPRegistration OTPType = "REGISTRATION"

// User is an account as reported by the auth service.
type User struct {
	UserID    string        `json:"userId"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      session.Role  `json:"role,omitempty"`
	OrgID     string        `json:"orgId,omitempty"`
	CreatedAt jsontime.Time `json:"createdAt"`
}

// RegisterRequest creates an individual account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the token pair issued on successful login.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId,omitempty"`
}

// Client is the raw auth service client. Each method is a single HTTP call;
// use Session for the stateful login/logout flow.
type Client struct {
	api *transport.Client
}

// NewClient creates an auth client over the given transport client.
func NewClient(api *transport.Client) *Client {
	return &Client{api: api}
}

// Register creates an individual account. The account must verify its email
// via the OTP flow before logging in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var out User
	if err := c.api.Post(ctx, "/auth/register", req, &out); err != nil {
		return User{}, fmt.Errorf("devblocker/auth: register: %w", err)
	}
	return out, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	if err := c.api.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return LoginResult{}, fmt.Errorf("devblocker/auth: login: %w", err)
	}
	return out, nil
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// SendOTP emails a one-time passcode. An empty typ defaults to REGISTRATION.
func (c *Client) SendOTP(ctx context.Context, email string, typ OTPType) error {
	if typ == "" {
		typ = OTPRegistration
	}
	if err := c.api.Post(ctx, "/auth/send-otp", sendOTPRequest{Email: email, Type: string(typ)}, nil); err != nil {
		return fmt.Errorf("devblocker/auth: send otp: %w", err)
	}
	return nil
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Type  string `json:"type"`
}

// VerifyOTP verifies a one-time passcode. An empty typ defaults to
// REGISTRATION.
func (c *Client) VerifyOTP(ctx context.Context, email, code string, typ OTPType) error {
	if typ == "" {
		typ = OTPRegistration
	}
	err := c.api.Post(ctx, "/auth/verify-otp", verifyOTPRequest{Email: email, Code: code, Type: string(typ)}, nil)
	if err != nil {
		return fmt.Errorf("devblocker/auth: verify otp: %w", err)
	}
	return nil
}

// Me returns the account behind the current access token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	if err := c.api.Get(ctx, "/auth/me", nil, &out); err != nil {
		return User{}, fmt.Errorf("devblocker/auth: me: %w", err)
	}
	return out, nil
}
