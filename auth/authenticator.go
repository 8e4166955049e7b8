package auth

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Authenticator implements the login flow
type Authenticator struct {
	users   Users
	hasher  PasswordHasher
	tokens  TokenService
	timeout time.Duration
	logger  Logger

	decoyOnce sync.Once
	decoyHash string
}

type AuthenticatorOption func(*Authenticator)

func WithAuthenticatorLogger(logger Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		a.logger = resolveLogger(logger)
	}
}

func WithAuthenticatorTimeout(d time.Duration) AuthenticatorOption {
	return func(a *Authenticator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func NewAuthenticator(users Users, hasher PasswordHasher, tokens TokenService, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		timeout: 10 * time.Second,
		logger:  defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Login verifies credentials and issues a session for approved users.
// Unknown emails and wrong passwords both fail with ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during login")
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if !isUserNotFound(err) {
			return nil, internalError(err, "failed to load user")
		}
		// unknown emails pay the same hashing cost as wrong passwords
		a.hasher.Verify(password, a.decoy())
		return nil, ErrInvalidCredentials
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if user.Status != UserStatusApproved {
		return nil, ErrPendingApproval
	}

	token, err := a.tokens.Issue(user.ID.String(), 0)
	if err != nil {
		return nil, internalError(err, "failed to issue access token")
	}

	a.logger.Debug("user %s logged in", user.ID)

	return newSession(user, token), nil
}

func (a *Authenticator) decoy() string {
	a.decoyOnce.Do(func() {
		if h, err := a.hasher.Hash("decoy-password"); err == nil {
			a.decoyHash = h
		}
	})
	return a.decoyHash
}
