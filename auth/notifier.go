package auth

import (
	"context"
	"time"
)

type noopResetNotifier struct{}

func (noopResetNotifier) SendPasswordReset(context.Context, *User, string, time.Time) error {
	return nil
}

// DiscardResetNotifier drops reset tokens. Users cannot complete a reset
// while it is installed.
func DiscardResetNotifier() ResetNotifier {
	return noopResetNotifier{}
}

func normalizeResetNotifier(n ResetNotifier) ResetNotifier {
	if n == nil {
		return noopResetNotifier{}
	}
	return n
}

// ResetNotifierFunc adapts a function to ResetNotifier
type ResetNotifierFunc func(ctx context.Context, user *User, token string, expiresAt time.Time) error

func (f ResetNotifierFunc) SendPasswordReset(ctx context.Context, user *User, token string, expiresAt time.Time) error {
	return f(ctx, user, token, expiresAt)
}
