// Package auth defines the authentication contract. Two implementations
// exist: a remote client for the hosted auth service, and an in-memory
// authenticator used in demo mode and tests.
package auth

import "context"

// Principal is an authenticated account.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Credentials are the email/password pair presented at signup or signin.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Session is an issued access token and its owner.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	Principal   Principal `json:"user"`
}

// Authenticator creates accounts, opens sessions, and verifies tokens.
// Errors carry domain codes: CodeConflict for a duplicate signup,
// CodeUnauthorized for bad credentials or invalid tokens, CodeValidation for
// malformed input.
type Authenticator interface {
	SignUp(ctx context.Context, creds Credentials) (Session, error)
	SignIn(ctx context.Context, creds Credentials) (Session, error)
	Verify(ctx context.Context, token string) (Principal, error)
}
