package api

import (
	"net/http"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/middleware/jwtware"
)

// UsersController handles the admin approval queue
type UsersController struct {
	svc *Services
}

func NewUsersController(svc *Services) *UsersController {
	return &UsersController{svc: svc}
}

// List returns users, optionally filtered by ?status=
func (u *UsersController) List(c router.Context) error {
	var status auth.UserStatus
	if raw := c.Query("status", ""); raw != "" {
		parsed, err := auth.ParseUserStatus(raw)
		if err != nil {
			return err
		}
		status = parsed
	}

	users, err := u.svc.Repo.Users().ListByStatus(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (u *UsersController) Approve(c router.Context) error {
	return u.transition(c, auth.UserStatusApproved)
}

func (u *UsersController) Reject(c router.Context) error {
	return u.transition(c, auth.UserStatusRejected)
}

func (u *UsersController) transition(c router.Context, target auth.UserStatus) error {
	actor, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}

	user, err := u.svc.Approvals.Transition(
		c.Context(),
		auth.ActorFromUser(actor),
		c.Param("id", ""),
		target,
		auth.WithTransitionReason(c.Query("reason", "")),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
