package api

import (
	"context"
	"net/http"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/catalog"
	"github.com/goliatone/go-enroll/middleware/jwtware"
)

// CatalogController serves programs, enrollments, tabs, content and
// status checks.
type CatalogController struct {
	svc *Services
}

func NewCatalogController(svc *Services) *CatalogController {
	return &CatalogController{svc: svc}
}

func (cc *CatalogController) Hello(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"message": "Hello World"})
}

// programs

func (cc *CatalogController) ListPrograms(c router.Context) error {
	programs, err := cc.svc.Programs.List(c.Context(), false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, programs)
}

func (cc *CatalogController) ListAllPrograms(c router.Context) error {
	programs, err := cc.svc.Programs.List(c.Context(), true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, programs)
}

func (cc *CatalogController) GetProgram(c router.Context) error {
	program, err := cc.svc.Programs.Get(c.Context(), c.Param("id", ""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

func (cc *CatalogController) CreateProgram(c router.Context) error {
	user, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}

	var in catalog.ProgramInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	program, err := cc.svc.Programs.Create(c.Context(), user.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, program)
}

func (cc *CatalogController) UpdateProgram(c router.Context) error {
	var in catalog.ProgramInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	program, err := cc.svc.Programs.Update(c.Context(), c.Param("id", ""), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

func (cc *CatalogController) DeactivateProgram(c router.Context) error {
	if err := cc.svc.Programs.Deactivate(c.Context(), c.Param("id", "")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "program deactivated"})
}

// enrollments

func (cc *CatalogController) RequestEnrollment(c router.Context) error {
	user, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}

	var req catalog.EnrollmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	enrollment, err := cc.svc.Enrollments.Request(c.Context(), user.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, enrollment)
}

func (cc *CatalogController) MyEnrollments(c router.Context) error {
	user, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}

	enrollments, err := cc.svc.Enrollments.ListForStudent(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollments)
}

func (cc *CatalogController) ListEnrollments(c router.Context) error {
	enrollments, err := cc.svc.Enrollments.List(c.Context(), catalog.EnrollmentStatus(c.Query("status", "")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollments)
}

func (cc *CatalogController) ApproveEnrollment(c router.Context) error {
	return cc.decideEnrollment(c, cc.svc.Enrollments.Approve)
}

func (cc *CatalogController) RejectEnrollment(c router.Context) error {
	return cc.decideEnrollment(c, cc.svc.Enrollments.Reject)
}

type enrollmentDecision func(ctx context.Context, actor auth.ActorRef, id string) (*catalog.Enrollment, error)

func (cc *CatalogController) decideEnrollment(c router.Context, decide enrollmentDecision) error {
	user, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}

	enrollment, err := decide(c.Context(), auth.ActorFromUser(user), c.Param("id", ""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollment)
}

// program tabs

func (cc *CatalogController) ListProgramTabs(c router.Context) error {
	tabs, err := cc.svc.ProgramTabs.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tabs)
}

func (cc *CatalogController) CreateProgramTab(c router.Context) error {
	var in catalog.ProgramTabInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	tab, err := cc.svc.ProgramTabs.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tab)
}

func (cc *CatalogController) UpdateProgramTab(c router.Context) error {
	var in catalog.ProgramTabInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	tab, err := cc.svc.ProgramTabs.Update(c.Context(), c.Param("id", ""), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tab)
}

func (cc *CatalogController) DeleteProgramTab(c router.Context) error {
	if err := cc.svc.ProgramTabs.Delete(c.Context(), c.Param("id", "")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "program tab deleted"})
}

// stat tabs

func (cc *CatalogController) ListStatTabs(c router.Context) error {
	tabs, err := cc.svc.StatTabs.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tabs)
}

func (cc *CatalogController) CreateStatTab(c router.Context) error {
	var in catalog.StatTabInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	tab, err := cc.svc.StatTabs.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tab)
}

func (cc *CatalogController) UpdateStatTab(c router.Context) error {
	var in catalog.StatTabInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	tab, err := cc.svc.StatTabs.Update(c.Context(), c.Param("id", ""), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tab)
}

func (cc *CatalogController) DeleteStatTab(c router.Context) error {
	if err := cc.svc.StatTabs.Delete(c.Context(), c.Param("id", "")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "stat tab deleted"})
}

// content

func (cc *CatalogController) GetContent(c router.Context) error {
	item, err := cc.svc.Content.Get(c.Context(), c.Param("key", ""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (cc *CatalogController) ListContent(c router.Context) error {
	items, err := cc.svc.Content.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (cc *CatalogController) PutContent(c router.Context) error {
	user, ok := jwtware.CurrentUser(c)
	if !ok {
		return auth.ErrMissingToken
	}

	var in catalog.ContentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.Key = c.Param("key", "")

	item, err := cc.svc.Content.Upsert(c.Context(), user.ID.String(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (cc *CatalogController) DeleteContent(c router.Context) error {
	if err := cc.svc.Content.Delete(c.Context(), c.Param("key", "")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "content deleted"})
}

// status checks

func (cc *CatalogController) CreateStatusCheck(c router.Context) error {
	var in catalog.StatusCheckInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	check, err := cc.svc.StatusChecks.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, check)
}

func (cc *CatalogController) ListStatusChecks(c router.Context) error {
	checks, err := cc.svc.StatusChecks.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checks)
}
