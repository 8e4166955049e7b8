package api

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/middleware/jwtware"
)

// PasswordResetRequestedMessage is returned whether or not the email is known
const PasswordResetRequestedMessage = "If the email is registered, a password reset link has been sent"

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type AuthController struct {
	svc *Services
}

func NewAuthController(svc *Services) *AuthController {
	return &AuthController{svc: svc}
}

func (a *AuthController) Register(c router.Context) error {
	var p RegisterPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	res, err := a.svc.Registration.Execute(c.Context(), p.message())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, res)
}

func (a *AuthController) Login(c router.Context) error {
	var p LoginPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	session, err := a.svc.Authenticator.Login(c.Context(), p.Email, p.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}

// RequestPasswordReset answers the same way for known and unknown emails.
// Store failures are logged and not reported, since only known emails can
// reach the store write.
func (a *AuthController) RequestPasswordReset(c router.Context) error {
	var p PasswordResetRequestPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	err := a.svc.ResetRequest.Execute(c.Context(), auth.InitializePasswordResetMessage{Email: p.Email})
	if err != nil {
		a.svc.Logger.Error("password reset request failed: %v", err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: PasswordResetRequestedMessage})
}

func (a *AuthController) ResetPassword(c router.Context) error {
	var p PasswordResetPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	err := a.svc.ResetFinalize.Execute(c.Context(), auth.FinalizePasswordResetMessage{
		Token:    p.Token,
		Password: p.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "password has been reset"})
}

// Me returns the authenticated user, whatever their approval status
func (a *AuthController) Me(c router.Context) error {
	user, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}
	return c.JSON(http.StatusOK, user)
}

func bind(c router.Context, p payload) error {
	if err := parseBody(c, p); err != nil {
		return err
	}
	return p.Validate()
}

// parseBody decodes the raw JSON body. An empty body is malformed.
func parseBody(c router.Context, out any) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		return errMalformedBody
	}
	return nil
}
