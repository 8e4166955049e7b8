package auth

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultPasswordResetTTL is how long a reset token stays redeemable
const DefaultPasswordResetTTL = time.Hour

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset.request" }

// InitializePasswordResetHandler issues reset tokens. It succeeds whether or
// not the email belongs to a user. The token is stored before Execute
// returns; delivery runs in the background under its own deadline.
type InitializePasswordResetHandler struct {
	repo            RepositoryManager
	notifier        ResetNotifier
	ttl             time.Duration
	clock           Clock
	timeout         time.Duration
	deliveryTimeout time.Duration
	deliveries      sync.WaitGroup
	logger          Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, notifier ResetNotifier, cfg Config) *InitializePasswordResetHandler {
	ttl := cfg.GetPasswordResetTTL()
	if ttl <= 0 {
		ttl = DefaultPasswordResetTTL
	}
	return &InitializePasswordResetHandler{
		repo:            repo,
		notifier:        normalizeResetNotifier(notifier),
		ttl:             ttl,
		clock:           systemClock,
		timeout:         10 * time.Second,
		deliveryTimeout: 30 * time.Second,
		logger:          defLogger{},
	}
}

func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	h.logger = resolveLogger(logger)
	return h
}

func (h *InitializePasswordResetHandler) WithClock(clock Clock) *InitializePasswordResetHandler {
	if clock != nil {
		h.clock = clock
	}
	return h
}

func (h *InitializePasswordResetHandler) WithTimeout(d time.Duration) *InitializePasswordResetHandler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

// WithDeliveryTimeout bounds each background notifier call
func (h *InitializePasswordResetHandler) WithDeliveryTimeout(d time.Duration) *InitializePasswordResetHandler {
	if d > 0 {
		h.deliveryTimeout = d
	}
	return h
}

// Wait blocks until every pending delivery has finished
func (h *InitializePasswordResetHandler) Wait() {
	h.deliveries.Wait()
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	user, err := h.repo.Users().FindByEmail(ctx, event.Email)
	if err != nil {
		if isUserNotFound(err) {
			h.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return internalError(err, "failed to retrieve user for password reset")
	}

	token, hash, err := NewResetToken()
	if err != nil {
		return err
	}

	expiresAt := h.clock().Add(h.ttl)
	if err := h.repo.Users().SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return internalError(err, "failed to store password reset")
	}

	h.deliver(ctx, user, token, expiresAt)

	return nil
}

// deliver hands the token to the notifier without holding up the caller.
// The delivery context keeps request values but not its cancellation.
func (h *InitializePasswordResetHandler) deliver(ctx context.Context, user *User, token string, expiresAt time.Time) {
	base := context.WithoutCancel(ctx)

	h.deliveries.Add(1)
	go func() {
		defer h.deliveries.Done()

		ctx, cancel := context.WithTimeout(base, h.deliveryTimeout)
		defer cancel()

		if err := h.notifier.SendPasswordReset(ctx, user, token, expiresAt); err != nil {
			h.logger.Error("failed to deliver password reset for user %s: %v", user.ID, err)
		}
	}()
}
