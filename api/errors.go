package api

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-enroll/auth"
)

const (
	internalMessage  = "internal server error"
	textCodeInternal = "INTERNAL"
)

// ErrorResponse is the body of every failed request. The front end reads
// detail.
type ErrorResponse struct {
	Detail    string         `json:"detail"`
	Code      string         `json:"code,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

var errMalformedBody = goerrors.New("malformed request body", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("MALFORMED_BODY")

// RenderError renders errors raised by route handlers and the auth guard.
// Internal failures are logged with their metadata and never leak their
// text to the client.
func RenderError(logger auth.Logger) router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		status, body := errorResponse(err)

		if rid, ok := ctx.Locals("requestid").(string); ok {
			body.RequestID = rid
		}

		logFailure(logger, ctx.Method(), ctx.OriginalURL(), status, body, err)

		return ctx.JSON(status, body)
	}
}

// ErrorHandler renders failures raised by fiber itself, such as unmatched
// routes and recovered panics, in the same shape as RenderError.
func ErrorHandler(logger auth.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)

		if rid, ok := c.Locals("requestid").(string); ok {
			body.RequestID = rid
		}

		logFailure(logger, c.Method(), c.OriginalURL(), status, body, err)

		return c.Status(status).JSON(body)
	}
}

func logFailure(logger auth.Logger, method, url string, status int, body ErrorResponse, err error) {
	if status < http.StatusInternalServerError {
		logger.Debug("%s %s rejected with %d: %s", method, url, status, body.Detail)
		return
	}

	var richErr *goerrors.Error
	details := ""
	if goerrors.As(err, &richErr) {
		details = print.MaybePrettyJSON(richErr.Metadata)
	}
	logger.Error("%s %s failed: %v %s", method, url, err, details)
}

func errorResponse(err error) (int, ErrorResponse) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= http.StatusInternalServerError {
			return fiberErr.Code, ErrorResponse{Detail: internalMessage, Code: textCodeInternal}
		}
		return fiberErr.Code, ErrorResponse{Detail: fiberErr.Message}
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return http.StatusInternalServerError, ErrorResponse{Detail: internalMessage, Code: textCodeInternal}
	}

	status := richErr.Code
	if status == 0 {
		switch richErr.Category {
		case goerrors.CategoryValidation, goerrors.CategoryBadInput:
			status = http.StatusBadRequest
		case goerrors.CategoryAuth:
			status = http.StatusUnauthorized
		case goerrors.CategoryAuthz:
			status = http.StatusForbidden
		case goerrors.CategoryNotFound:
			status = http.StatusNotFound
		case goerrors.CategoryConflict:
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
		}
	}

	if status >= http.StatusInternalServerError || richErr.Category == goerrors.CategoryInternal {
		return http.StatusInternalServerError, ErrorResponse{Detail: internalMessage, Code: textCodeInternal}
	}

	body := ErrorResponse{Detail: richErr.Message, Code: richErr.TextCode}
	if fields, ok := richErr.Metadata["fields"].(map[string]any); ok {
		body.Fields = fields
	}
	return status, body
}
