package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the settings the auth core reads at construction time.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetTokenTTL() time.Duration
	GetPasswordResetTTL() time.Duration
	GetAdminRegistrationCode() string
}

// PasswordHasher produces and checks salted password digests
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenService issues and verifies bearer tokens for a subject id
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
	DefaultTTL() time.Duration
}

// IdentityStore resolves users for the authorization gate
type IdentityStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// ResetNotifier delivers a plaintext password reset token out of band.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, user *User, token string, expiresAt time.Time) error
}

// Clock returns the current instant
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func resolveLogger(logger Logger) Logger {
	if logger == nil {
		return defLogger{}
	}
	return logger
}
