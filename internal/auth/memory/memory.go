// Package memory implements the authenticator against an in-process account
// table. It backs demo mode and tests: bcrypt-hashed passwords, HS256-signed
// access tokens, no persistence.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"helpy/internal/auth"
	dErrors "helpy/pkg/domain-errors"
)

const (
	defaultTokenTTL   = time.Hour
	minPasswordLength = 6
)

type account struct {
	id           string
	email        string
	name         string
	passwordHash []byte
}

// Authenticator is an in-memory auth.Authenticator. Safe for concurrent use.
type Authenticator struct {
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	accounts map[string]*account
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTokenTTL sets the access token lifetime. Default is one hour.
func WithTokenTTL(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.tokenTTL = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an in-memory authenticator signing tokens with the given key.
func New(signingKey []byte, opts ...Option) *Authenticator {
	a := &Authenticator{
		signingKey: signingKey,
		tokenTTL:   defaultTokenTTL,
		now:        time.Now,
		accounts:   make(map[string]*account),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignUp creates an account and opens a session for it.
func (a *Authenticator) SignUp(_ context.Context, creds auth.Credentials) (auth.Session, error) {
	email, err := validate(creds)
	if err != nil {
		return auth.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.accounts[email]; exists {
		return auth.Session{}, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
	}

	acct := &account{
		id:           uuid.NewString(),
		email:        email,
		name:         strings.TrimSpace(creds.Name),
		passwordHash: hash,
	}
	a.accounts[email] = acct

	return a.openSession(acct)
}

// SignIn opens a session for an existing account. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (a *Authenticator) SignIn(_ context.Context, creds auth.Credentials) (auth.Session, error) {
	email := normalizeEmail(creds.Email)

	a.mu.RLock()
	acct, ok := a.accounts[email]
	a.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(creds.Password)) != nil {
		return auth.Session{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	return a.openSession(acct)
}

// Verify parses and validates an access token.
func (a *Authenticator) Verify(_ context.Context, token string) (auth.Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.signingKey, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return auth.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return auth.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}

	return auth.Principal{ID: sub, Email: email, Name: name}, nil
}

func (a *Authenticator) openSession(acct *account) (auth.Session, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub":   acct.id,
		"email": acct.email,
		"iat":   now.Unix(),
		"exp":   now.Add(a.tokenTTL).Unix(),
	}
	if acct.name != "" {
		claims["name"] = acct.name
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return auth.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	return auth.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(a.tokenTTL.Seconds()),
		Principal:   auth.Principal{ID: acct.id, Email: acct.email, Name: acct.name},
	}, nil
}

func validate(creds auth.Credentials) (string, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "", dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(creds.Password) < minPasswordLength {
		return "", dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return email, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
