package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeMissingToken       = "MISSING_TOKEN"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeNotApproved        = "ACCOUNT_NOT_APPROVED"
	TextCodePendingApproval    = "PENDING_APPROVAL"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeInvalidAdminCode   = "INVALID_ADMIN_CODE"
	TextCodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	TextCodeInvalidTransition  = "INVALID_TRANSITION"
)

var (
	// ErrInvalidCredentials is shared by the unknown email and wrong password paths
	ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode(TextCodeInvalidCredentials)

	// ErrInvalidToken covers bad signatures, malformed payloads and expired tokens alike
	ErrInvalidToken = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode(TextCodeInvalidToken)

	ErrMissingToken = goerrors.New("not authenticated", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode(TextCodeMissingToken)

	// ErrUnknownSubject is returned when a valid token names a user that no
	// longer exists. Clients see the same message as ErrInvalidToken.
	ErrUnknownSubject = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode(TextCodeInvalidToken)

	ErrInsufficientRole = goerrors.New("not enough permissions", goerrors.CategoryAuthz).
				WithCode(goerrors.CodeForbidden).
				WithTextCode(TextCodeForbidden)

	ErrAccountNotApproved = goerrors.New("account not approved", goerrors.CategoryAuthz).
				WithCode(goerrors.CodeForbidden).
				WithTextCode(TextCodeNotApproved)

	ErrPendingApproval = goerrors.New("pending approval", goerrors.CategoryAuthz).
				WithCode(goerrors.CodeForbidden).
				WithTextCode(TextCodePendingApproval)

	ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeEmailTaken)

	ErrInvalidAdminCode = goerrors.New("invalid admin code", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest).
				WithTextCode(TextCodeInvalidAdminCode)

	ErrRoleNotRegistrable = goerrors.New("role cannot be self-registered", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest).
				WithTextCode("ROLE_NOT_REGISTRABLE")

	ErrUnknownRole = goerrors.New("invalid role", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("INVALID_ROLE")

	ErrUnknownStatus = goerrors.New("invalid status", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest).
				WithTextCode("INVALID_STATUS")

	// ErrInvalidResetToken does not distinguish unknown, consumed and expired tokens
	ErrInvalidResetToken = goerrors.New("invalid or expired token", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest).
				WithTextCode(TextCodeInvalidResetToken)

	ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithTextCode("USER_NOT_FOUND")

	ErrInvalidTransition = goerrors.New("invalid status transition", goerrors.CategoryConflict).
				WithCode(goerrors.CodeConflict).
				WithTextCode(TextCodeInvalidTransition)

	ErrMissingSigningKey = goerrors.New("signing key must not be empty", goerrors.CategoryInternal).
				WithCode(goerrors.CodeInternal).
				WithTextCode("MISSING_SIGNING_KEY")
)

// internalError wraps a store or crypto failure. The message is the only
// text that may reach a client.
func internalError(err error, message string) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Category != goerrors.CategoryInternal {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(goerrors.CodeInternal)
}
