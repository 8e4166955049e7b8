package catalog

import (
	goerrors "github.com/goliatone/go-errors"
)

func notFound(entity, textCode string) *goerrors.Error {
	return goerrors.New(entity+" not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(textCode)
}

var (
	ErrProgramNotFound    = notFound("program", "PROGRAM_NOT_FOUND")
	ErrEnrollmentNotFound = notFound("enrollment", "ENROLLMENT_NOT_FOUND")
	ErrProgramTabNotFound = notFound("program tab", "PROGRAM_TAB_NOT_FOUND")
	ErrStatTabNotFound    = notFound("stat tab", "STAT_TAB_NOT_FOUND")
	ErrContentNotFound    = notFound("content", "CONTENT_NOT_FOUND")

	ErrAlreadyEnrolled = goerrors.New("already enrolled in this program", goerrors.CategoryConflict).
				WithCode(goerrors.CodeConflict).
				WithTextCode("ALREADY_ENROLLED")

	ErrProgramInactive = goerrors.New("program is not accepting enrollments", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest).
				WithTextCode("PROGRAM_INACTIVE")

	ErrEnrollmentDecided = goerrors.New("enrollment already decided", goerrors.CategoryConflict).
				WithCode(goerrors.CodeConflict).
				WithTextCode("ENROLLMENT_DECIDED")

	ErrEmptyUpdate = goerrors.New("no fields to update", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("EMPTY_UPDATE")
)

func internalError(err error, message string) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Category != goerrors.CategoryInternal {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(goerrors.CodeInternal)
}
