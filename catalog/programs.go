package catalog

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/internal/validators"
)

// ProgramInput carries program fields. Nil fields are left unchanged on update.
type ProgramInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Tagline     *string `json:"tagline"`
	LogoURL     *string `json:"logo_url"`
	ThemeColor  *string `json:"theme_color"`
	Overview    *string `json:"overview"`
	IsActive    *bool   `json:"is_active"`
}

func (in ProgramInput) validateCreate() error {
	return validators.ToError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&in.Tagline, validation.Length(0, 200)),
		validation.Field(&in.LogoURL, is.URL),
		validation.Field(&in.ThemeColor, validators.HexColor),
		validation.Field(&in.Overview, validation.Length(0, 10000)),
	))
}

func (in ProgramInput) validateUpdate() error {
	if in.Name == nil && in.Description == nil && in.Tagline == nil && in.LogoURL == nil &&
		in.ThemeColor == nil && in.Overview == nil && in.IsActive == nil {
		return ErrEmptyUpdate
	}
	return validators.ToError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validators.IfSet(in.Name != nil, validation.Length(1, 120))...),
		validation.Field(&in.Description, validators.IfSet(in.Description != nil, validation.Length(1, 2000))...),
		validation.Field(&in.Tagline, validation.Length(0, 200)),
		validation.Field(&in.LogoURL, is.URL),
		validation.Field(&in.ThemeColor, validators.HexColor),
		validation.Field(&in.Overview, validation.Length(0, 10000)),
	))
}

func (in ProgramInput) apply(p *Program) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Tagline != nil {
		p.Tagline = *in.Tagline
	}
	if in.LogoURL != nil {
		p.LogoURL = strings.TrimSpace(*in.LogoURL)
	}
	if in.ThemeColor != nil && *in.ThemeColor != "" {
		p.ThemeColor = *in.ThemeColor
	}
	if in.Overview != nil {
		p.Overview = *in.Overview
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// Programs manages the program catalog
type Programs struct {
	store *Store
}

func NewPrograms(store *Store) *Programs {
	return &Programs{store: store}
}

// Create adds an active program owned by createdBy
func (s *Programs) Create(ctx context.Context, createdBy uuid.UUID, in ProgramInput) (*Program, error) {
	if err := in.validateCreate(); err != nil {
		return nil, err
	}

	ts := now()
	program := &Program{
		ID:         uuid.New(),
		ThemeColor: DefaultThemeColor,
		CreatedBy:  createdBy,
		IsActive:   true,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	in.apply(program)

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	if _, err := s.store.db.NewInsert().Model(program).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to create program")
	}
	return program, nil
}

// Get returns a program with its approved enrollment count
func (s *Programs) Get(ctx context.Context, id string) (*Program, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	program, err := getByID(ctx, s.store.programs, id, ErrProgramNotFound)
	if err != nil {
		return nil, err
	}

	if err := s.fillCounts(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// List returns programs ordered by name. Inactive programs are included
// only when includeInactive is set.
func (s *Programs) List(ctx context.Context, includeInactive bool) ([]*Program, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	programs := make([]*Program, 0)
	q := s.store.db.NewSelect().Model(&programs).OrderExpr("?TableAlias.name ASC")
	if !includeInactive {
		q = q.Where("?TableAlias.is_active = ?", true)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, internalError(err, "failed to list programs")
	}

	if err := s.fillCounts(ctx, programs...); err != nil {
		return nil, err
	}
	return programs, nil
}

// Update applies the supplied fields
func (s *Programs) Update(ctx context.Context, id string, in ProgramInput) (*Program, error) {
	if err := in.validateUpdate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	program, err := getByID(ctx, s.store.programs, id, ErrProgramNotFound)
	if err != nil {
		return nil, err
	}

	in.apply(program)
	program.UpdatedAt = now()

	if _, err := s.store.db.NewUpdate().Model(program).WherePK().Exec(ctx); err != nil {
		return nil, internalError(err, "failed to update program")
	}

	if err := s.fillCounts(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// Deactivate hides a program from the public catalog. Enrollments are kept.
func (s *Programs) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := s.Update(ctx, id, ProgramInput{IsActive: &inactive})
	return err
}

type programCount struct {
	ProgramID uuid.UUID `bun:"program_id"`
	Enrolled  int       `bun:"enrolled"`
}

func (s *Programs) fillCounts(ctx context.Context, programs ...*Program) error {
	if len(programs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.ID)
	}

	counts := make([]programCount, 0)
	err := s.store.db.NewSelect().
		Model((*Enrollment)(nil)).
		ColumnExpr("?TableAlias.program_id AS program_id").
		ColumnExpr("COUNT(*) AS enrolled").
		Where("?TableAlias.status = ?", EnrollmentApproved).
		Where("?TableAlias.program_id IN (?)", bun.In(ids)).
		GroupExpr("?TableAlias.program_id").
		Scan(ctx, &counts)
	if err != nil {
		return internalError(err, "failed to count enrollments")
	}

	byProgram := make(map[uuid.UUID]int, len(counts))
	for _, c := range counts {
		byProgram[c.ProgramID] = c.Enrolled
	}
	for _, p := range programs {
		p.EnrolledCount = byProgram[p.ID]
	}
	return nil
}
