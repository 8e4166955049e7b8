package notify

import (
	"context"
	"time"

	"github.com/goliatone/go-enroll/auth"
)

// LogNotifier writes reset links to the log. It is meant for local
// development where no mail server is available.
type LogNotifier struct {
	logger   auth.Logger
	linkBase string
}

func NewLogNotifier(logger auth.Logger, linkBase string) *LogNotifier {
	return &LogNotifier{logger: logger, linkBase: linkBase}
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, user *auth.User, token string, expiresAt time.Time) error {
	n.logger.Info("password reset for %s: %s (expires %s)", user.Email, ResetLink(n.linkBase, token), expiresAt.UTC().Format(time.RFC3339))
	return nil
}
