package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Gate turns a bearer token into an authorized user:
// token verified, identity resolved, then the policy evaluated.
type Gate struct {
	tokens     TokenService
	identities IdentityStore
	logger     Logger
}

type GateOption func(*Gate)

func WithGateLogger(logger Logger) GateOption {
	return func(g *Gate) {
		g.logger = resolveLogger(logger)
	}
}

func NewGate(tokens TokenService, identities IdentityStore, opts ...GateOption) *Gate {
	g := &Gate{
		tokens:     tokens,
		identities: identities,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Authenticate verifies token and loads its subject.
func (g *Gate) Authenticate(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	subject, err := g.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := g.identities.FindByID(ctx, subject)
	if err != nil {
		if goerrors.Is(err, ErrUserNotFound) {
			g.logger.Debug("token subject %s does not resolve to a user", subject)
			return nil, ErrUnknownSubject
		}
		return nil, internalError(err, "failed to resolve identity")
	}

	return user, nil
}

// Authorize authenticates token and evaluates policy against the user.
func (g *Gate) Authorize(ctx context.Context, token string, policy Policy) (*User, error) {
	user, err := g.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := policy.Evaluate(user); err != nil {
		g.logger.Debug("user %s denied by policy %s", user.ID, policy)
		return nil, err
	}

	return user, nil
}
