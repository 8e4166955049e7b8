package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type FinalizePasswordResetMessage struct {
	Token    string `json:"token"`
	Password string `json:"new_password"`
}

func (p FinalizePasswordResetMessage) Type() string { return "user.password_reset.finalize" }

// FinalizePasswordResetHandler redeems a reset token exactly once
type FinalizePasswordResetHandler struct {
	repo    RepositoryManager
	hasher  PasswordHasher
	clock   Clock
	timeout time.Duration
	logger  Logger
}

func NewFinalizePasswordResetHandler(repo RepositoryManager, hasher PasswordHasher) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:    repo,
		hasher:  hasher,
		clock:   systemClock,
		timeout: 10 * time.Second,
		logger:  defLogger{},
	}
}

func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	h.logger = resolveLogger(logger)
	return h
}

func (h *FinalizePasswordResetHandler) WithClock(clock Clock) *FinalizePasswordResetHandler {
	if clock != nil {
		h.clock = clock
	}
	return h
}

func (h *FinalizePasswordResetHandler) WithTimeout(d time.Duration) *FinalizePasswordResetHandler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	token := strings.TrimSpace(event.Token)
	if token == "" {
		return ErrInvalidResetToken
	}

	passwordHash, err := h.hasher.Hash(event.Password)
	if err != nil {
		return internalError(err, "failed to hash password")
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	consumed, err := h.repo.Users().ConsumeResetToken(ctx, HashResetToken(token), passwordHash, h.clock())
	if err != nil {
		return internalError(err, "failed to finalize password reset")
	}

	if !consumed {
		return ErrInvalidResetToken
	}

	h.logger.Info("password reset completed")
	return nil
}
