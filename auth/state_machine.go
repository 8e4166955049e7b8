package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ActorRef identifies who triggered a transition.
type ActorRef struct {
	ID   string
	Role UserRole
}

// ActorFromUser builds an ActorRef for an authenticated user
func ActorFromUser(u *User) ActorRef {
	if u == nil {
		return ActorRef{}
	}
	return ActorRef{ID: u.ID.String(), Role: u.Role}
}

// TransitionOption customizes a single transition.
type TransitionOption func(*transitionOptions)

type transitionOptions struct {
	reason string
}

// WithTransitionReason records why the status changed.
func WithTransitionReason(reason string) TransitionOption {
	return func(opts *transitionOptions) {
		opts.reason = reason
	}
}

// UserStateMachine moves users between approval statuses. Role is never
// touched.
type UserStateMachine interface {
	Transition(ctx context.Context, actor ActorRef, userID string, target UserStatus, opts ...TransitionOption) (*User, error)
	CanTransition(from, to UserStatus) bool
}

type StateMachineOption func(*userStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock Clock) StateMachineOption {
	return func(sm *userStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *userStateMachine) {
		sm.logger = resolveLogger(logger)
	}
}

type userStateMachine struct {
	repo        RepositoryManager
	transitions map[UserStatus]map[UserStatus]struct{}
	now         Clock
	timeout     time.Duration
	logger      Logger
}

// NewUserStateMachine returns the approval workflow backed by repo.
func NewUserStateMachine(repo RepositoryManager, opts ...StateMachineOption) UserStateMachine {
	sm := &userStateMachine{
		repo: repo,
		transitions: map[UserStatus]map[UserStatus]struct{}{
			UserStatusPending: {
				UserStatusApproved: {},
				UserStatusRejected: {},
			},
			UserStatusApproved: {
				UserStatusRejected: {},
			},
			UserStatusRejected: {
				UserStatusApproved: {},
			},
		},
		now:     systemClock,
		timeout: 10 * time.Second,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

func (sm *userStateMachine) CanTransition(from, to UserStatus) bool {
	targets, ok := sm.transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

func (sm *userStateMachine) Transition(ctx context.Context, actor ActorRef, userID string, target UserStatus, opts ...TransitionOption) (*User, error) {
	if !target.IsValid() {
		return nil, ErrUnknownStatus
	}

	options := transitionOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, sm.timeout)
	defer cancel()

	var user *User
	err := sm.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = sm.repo.Users().FindByIDTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := sm.authorize(actor, user); err != nil {
			return err
		}

		if user.Status == target {
			return nil
		}

		if !sm.CanTransition(user.Status, target) {
			return ErrInvalidTransition
		}

		at := sm.now()
		if err := sm.repo.Users().UpdateStatusTx(ctx, tx, user.ID, target, at); err != nil {
			return err
		}

		sm.logger.Info("user %s status %s -> %s by %s (%s)", user.ID, user.Status, target, actor.ID, options.reason)

		user.Status = target
		user.UpdatedAt = at.UTC()
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, internalError(err, "user status transition failed")
	}

	return user, nil
}

// authorize keeps admins from acting on themselves or on other administrators.
func (sm *userStateMachine) authorize(actor ActorRef, user *User) error {
	if actor.ID == user.ID.String() {
		return ErrInsufficientRole
	}

	switch user.Role {
	case RoleStudent:
		if !actor.Role.IsAdministrative() {
			return ErrInsufficientRole
		}
	case RoleAdmin, RoleSuperAdmin:
		if actor.Role != RoleSuperAdmin {
			return ErrInsufficientRole
		}
	default:
		return ErrInsufficientRole
	}
	return nil
}
