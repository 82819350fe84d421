package handler

import (
	"strings"

	"helpy/internal/auth"
	dErrors "helpy/pkg/domain-errors"
)

// SignUpRequest is the account creation payload.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Normalize trims whitespace from the identity fields.
func (r *SignUpRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks the payload before it reaches the authenticator.
func (r *SignUpRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

func (r *SignUpRequest) credentials() auth.Credentials {
	return auth.Credentials{Email: r.Email, Password: r.Password, Name: r.Name}
}

// SignInRequest is the password grant payload.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims whitespace from the email.
func (r *SignInRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks the payload before it reaches the authenticator.
func (r *SignInRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

func (r *SignInRequest) credentials() auth.Credentials {
	return auth.Credentials{Email: r.Email, Password: r.Password}
}
