package catalog

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/internal/persistence"
	"github.com/goliatone/go-enroll/internal/validators"
)

// EnrollmentRequest is the student payload for joining a program
type EnrollmentRequest struct {
	ProgramID string `json:"program_id"`
}

func (r EnrollmentRequest) Validate() error {
	return validators.ToError(validation.ValidateStruct(&r,
		validation.Field(&r.ProgramID, validation.Required, is.UUID),
	))
}

// Enrollments manages student enrollment requests and admin decisions
type Enrollments struct {
	store *Store
}

func NewEnrollments(store *Store) *Enrollments {
	return &Enrollments{store: store}
}

// Request creates a pending enrollment for studentID. The unique index on
// (student_id, program_id) decides duplicates.
func (s *Enrollments) Request(ctx context.Context, studentID uuid.UUID, req EnrollmentRequest) (*Enrollment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	program, err := getByID(ctx, s.store.programs, req.ProgramID, ErrProgramNotFound)
	if err != nil {
		return nil, err
	}
	if !program.IsActive {
		return nil, ErrProgramInactive
	}

	enrollment := &Enrollment{
		ID:          uuid.New(),
		StudentID:   studentID,
		ProgramID:   program.ID,
		Status:      EnrollmentPending,
		RequestedAt: now(),
		ProgramName: program.Name,
	}

	if _, err := s.store.db.NewInsert().Model(enrollment).Exec(ctx); err != nil {
		if persistence.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, internalError(err, "failed to create enrollment")
	}

	return enrollment, nil
}

// Get returns one enrollment with student and program names
func (s *Enrollments) Get(ctx context.Context, id string) (*Enrollment, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	enrollment, err := getByID(ctx, s.store.enrollments, id, ErrEnrollmentNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.fillNames(ctx, []*Enrollment{enrollment}); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ListForStudent returns the student's enrollments, newest first
func (s *Enrollments) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	enrollments := make([]*Enrollment, 0)
	err := s.store.db.NewSelect().
		Model(&enrollments).
		Where("?TableAlias.student_id = ?", studentID).
		OrderExpr("?TableAlias.requested_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}

	if err := s.fillNames(ctx, enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// List returns enrollments for review. An empty status lists everything.
func (s *Enrollments) List(ctx context.Context, status EnrollmentStatus) ([]*Enrollment, error) {
	if status != "" && !status.IsValid() {
		return nil, validators.ToError(validation.Errors{
			"status": errors.New("must be pending, approved or rejected"),
		})
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	enrollments := make([]*Enrollment, 0)
	q := s.store.db.NewSelect().
		Model(&enrollments).
		OrderExpr("?TableAlias.requested_at DESC")
	if status != "" {
		q = q.Where("?TableAlias.status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}

	if err := s.fillNames(ctx, enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Approve accepts a pending enrollment
func (s *Enrollments) Approve(ctx context.Context, actor auth.ActorRef, id string) (*Enrollment, error) {
	return s.decide(ctx, actor, id, EnrollmentApproved)
}

// Reject declines a pending enrollment
func (s *Enrollments) Reject(ctx context.Context, actor auth.ActorRef, id string) (*Enrollment, error) {
	return s.decide(ctx, actor, id, EnrollmentRejected)
}

// decide only moves enrollments out of pending. The status guard in the
// UPDATE keeps two concurrent decisions from both applying.
func (s *Enrollments) decide(ctx context.Context, actor auth.ActorRef, id string, target EnrollmentStatus) (*Enrollment, error) {
	parsed, err := parseID(id, ErrEnrollmentNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	at := now()
	var enrollment *Enrollment

	err = s.store.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*Enrollment)(nil)).
			Set("status = ?", target).
			Set("approved_at = ?", at).
			Set("approved_by = ?", actor.ID).
			Where("id = ?", parsed).
			Where("status = ?", EnrollmentPending).
			Exec(ctx)
		if err != nil {
			return internalError(err, "failed to update enrollment")
		}

		n, err := res.RowsAffected()
		if err != nil {
			return internalError(err, "failed to update enrollment")
		}

		enrollment = new(Enrollment)
		if err := tx.NewSelect().Model(enrollment).Where("?TableAlias.id = ?", parsed).Scan(ctx); err != nil {
			if persistence.IsNoRows(err) {
				return ErrEnrollmentNotFound
			}
			return internalError(err, "failed to load enrollment")
		}

		if n == 0 {
			return ErrEnrollmentDecided
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.fillNames(ctx, []*Enrollment{enrollment}); err != nil {
		return nil, err
	}
	return enrollment, nil
}

type nameRow struct {
	ID   uuid.UUID `bun:"id"`
	Name string    `bun:"name"`
}

func (s *Enrollments) fillNames(ctx context.Context, enrollments []*Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}

	studentIDs := make([]uuid.UUID, 0, len(enrollments))
	programIDs := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		studentIDs = append(studentIDs, e.StudentID)
		programIDs = append(programIDs, e.ProgramID)
	}

	students, err := s.names(ctx, (*auth.User)(nil), studentIDs)
	if err != nil {
		return err
	}
	programs, err := s.names(ctx, (*Program)(nil), programIDs)
	if err != nil {
		return err
	}

	for _, e := range enrollments {
		e.StudentName = students[e.StudentID]
		e.ProgramName = programs[e.ProgramID]
	}
	return nil
}

func (s *Enrollments) names(ctx context.Context, model any, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	rows := make([]nameRow, 0, len(ids))
	err := s.store.db.NewSelect().
		Model(model).
		ColumnExpr("?TableAlias.id AS id").
		ColumnExpr("?TableAlias.name AS name").
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, internalError(err, "failed to load names")
	}

	out := make(map[uuid.UUID]string, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Name
	}
	return out, nil
}
