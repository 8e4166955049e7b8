package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-enroll/auth"
)

func TestStateMachine_CanTransition(t *testing.T) {
	sm := auth.NewUserStateMachine(nil)

	tests := []struct {
		from auth.UserStatus
		to   auth.UserStatus
		want bool
	}{
		{auth.UserStatusPending, auth.UserStatusApproved, true},
		{auth.UserStatusPending, auth.UserStatusRejected, true},
		{auth.UserStatusApproved, auth.UserStatusRejected, true},
		{auth.UserStatusRejected, auth.UserStatusApproved, true},
		{auth.UserStatusApproved, auth.UserStatusPending, false},
		{auth.UserStatusRejected, auth.UserStatusPending, false},
		{auth.UserStatus("unknown"), auth.UserStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, sm.CanTransition(tt.from, tt.to))
		})
	}
}

func TestStateMachine_Transition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sm := auth.NewUserStateMachine(f.repo,
		auth.WithStateMachineLogger(quietLogger{}),
		auth.WithStateMachineClock(func() time.Time { return at }),
	)

	admin := f.seedUser(t, "admin@x.com", "pw", auth.RoleAdmin, auth.UserStatusApproved)
	student := f.seedUser(t, "s@x.com", "pw", auth.RoleStudent, auth.UserStatusPending)

	updated, err := sm.Transition(ctx, auth.ActorFromUser(admin), student.ID.String(), auth.UserStatusApproved,
		auth.WithTransitionReason("verified"))
	require.NoError(t, err)
	assert.Equal(t, auth.UserStatusApproved, updated.Status)
	assert.Equal(t, auth.RoleStudent, updated.Role)
	assert.True(t, updated.UpdatedAt.Equal(at))

	stored, err := f.repo.Users().FindByID(ctx, student.ID.String())
	require.NoError(t, err)
	assert.Equal(t, auth.UserStatusApproved, stored.Status)

	again, err := sm.Transition(ctx, auth.ActorFromUser(admin), student.ID.String(), auth.UserStatusApproved)
	require.NoError(t, err, "same status is a no-op")
	assert.Equal(t, auth.UserStatusApproved, again.Status)

	_, err = sm.Transition(ctx, auth.ActorFromUser(admin), student.ID.String(), auth.UserStatusPending)
	assert.ErrorIs(t, err, auth.ErrInvalidTransition)

	_, err = sm.Transition(ctx, auth.ActorFromUser(admin), student.ID.String(), auth.UserStatus("banned"))
	assert.ErrorIs(t, err, auth.ErrUnknownStatus)

	_, err = sm.Transition(ctx, auth.ActorFromUser(admin), uuid.NewString(), auth.UserStatusApproved)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestStateMachine_ActorRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sm := auth.NewUserStateMachine(f.repo, auth.WithStateMachineLogger(quietLogger{}))

	super := f.seedUser(t, "root@x.com", "pw", auth.RoleSuperAdmin, auth.UserStatusApproved)
	admin := f.seedUser(t, "admin@x.com", "pw", auth.RoleAdmin, auth.UserStatusApproved)
	other := f.seedUser(t, "admin2@x.com", "pw", auth.RoleAdmin, auth.UserStatusApproved)
	student := f.seedUser(t, "s@x.com", "pw", auth.RoleStudent, auth.UserStatusApproved)

	_, err := sm.Transition(ctx, auth.ActorFromUser(admin), other.ID.String(), auth.UserStatusRejected)
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	_, err = sm.Transition(ctx, auth.ActorFromUser(admin), admin.ID.String(), auth.UserStatusRejected)
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	_, err = sm.Transition(ctx, auth.ActorFromUser(student), student.ID.String(), auth.UserStatusRejected)
	assert.ErrorIs(t, err, auth.ErrInsufficientRole)

	updated, err := sm.Transition(ctx, auth.ActorFromUser(super), other.ID.String(), auth.UserStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, auth.UserStatusRejected, updated.Status)
}
