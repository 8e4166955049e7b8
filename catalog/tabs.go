package catalog

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-enroll/internal/validators"
)

var tabTypes = []any{string(TabTypeInformational), string(TabTypeFeatured)}

// ProgramTabInput carries program tab fields. Nil fields are left unchanged
// on update.
type ProgramTabInput struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Image            *string `json:"image"`
	BorderColorLight *string `json:"border_color_light"`
	BorderColorDark  *string `json:"border_color_dark"`
	Type             *string `json:"type"`
	Position         *int    `json:"position"`
}

func (in ProgramTabInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Image == nil &&
		in.BorderColorLight == nil && in.BorderColorDark == nil && in.Type == nil && in.Position == nil
}

func (in ProgramTabInput) validate(create bool) error {
	if !create && in.empty() {
		return ErrEmptyUpdate
	}
	return validators.ToError(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validators.IfSet(create || in.Title != nil, validation.Length(1, 120))...),
		validation.Field(&in.Description, validators.IfSet(create || in.Description != nil, validation.Length(1, 2000))...),
		validation.Field(&in.Image, is.URL),
		validation.Field(&in.BorderColorLight, validators.IfSet(create || in.BorderColorLight != nil, validators.HexColor)...),
		validation.Field(&in.BorderColorDark, validators.IfSet(create || in.BorderColorDark != nil, validators.HexColor)...),
		validation.Field(&in.Type, validation.In(tabTypes...)),
		validation.Field(&in.Position, validation.Min(0)),
	))
}

func (in ProgramTabInput) apply(t *ProgramTab) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Image != nil {
		t.Image = strings.TrimSpace(*in.Image)
	}
	if in.BorderColorLight != nil {
		t.BorderColorLight = *in.BorderColorLight
	}
	if in.BorderColorDark != nil {
		t.BorderColorDark = *in.BorderColorDark
	}
	if in.Type != nil {
		t.Type = TabType(*in.Type)
	}
	if in.Position != nil {
		t.Position = *in.Position
	}
}

// StatTabInput carries stat tab fields. Nil fields are left unchanged on
// update.
type StatTabInput struct {
	Title            *string `json:"title"`
	Value            *string `json:"value"`
	BorderColorLight *string `json:"border_color_light"`
	BorderColorDark  *string `json:"border_color_dark"`
	Type             *string `json:"type"`
	Position         *int    `json:"position"`
}

func (in StatTabInput) empty() bool {
	return in.Title == nil && in.Value == nil && in.BorderColorLight == nil &&
		in.BorderColorDark == nil && in.Type == nil && in.Position == nil
}

func (in StatTabInput) validate(create bool) error {
	if !create && in.empty() {
		return ErrEmptyUpdate
	}
	return validators.ToError(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validators.IfSet(create || in.Title != nil, validation.Length(1, 120))...),
		validation.Field(&in.Value, validators.IfSet(create || in.Value != nil, validation.Length(1, 120))...),
		validation.Field(&in.BorderColorLight, validators.IfSet(create || in.BorderColorLight != nil, validators.HexColor)...),
		validation.Field(&in.BorderColorDark, validators.IfSet(create || in.BorderColorDark != nil, validators.HexColor)...),
		validation.Field(&in.Type, validation.In(tabTypes...)),
		validation.Field(&in.Position, validation.Min(0)),
	))
}

func (in StatTabInput) apply(t *StatTab) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Value != nil {
		t.Value = strings.TrimSpace(*in.Value)
	}
	if in.BorderColorLight != nil {
		t.BorderColorLight = *in.BorderColorLight
	}
	if in.BorderColorDark != nil {
		t.BorderColorDark = *in.BorderColorDark
	}
	if in.Type != nil {
		t.Type = TabType(*in.Type)
	}
	if in.Position != nil {
		t.Position = *in.Position
	}
}

// ProgramTabs manages the cards on the programs page
type ProgramTabs struct {
	store *Store
}

func NewProgramTabs(store *Store) *ProgramTabs {
	return &ProgramTabs{store: store}
}

// List returns tabs by position, then creation time
func (s *ProgramTabs) List(ctx context.Context) ([]*ProgramTab, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	tabs := make([]*ProgramTab, 0)
	err := s.store.db.NewSelect().
		Model(&tabs).
		OrderExpr("?TableAlias.position ASC").
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list program tabs")
	}
	return tabs, nil
}

func (s *ProgramTabs) Create(ctx context.Context, in ProgramTabInput) (*ProgramTab, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	ts := now()
	tab := &ProgramTab{
		ID:        uuid.New(),
		Type:      TabTypeInformational,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	in.apply(tab)

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	if _, err := s.store.db.NewInsert().Model(tab).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to create program tab")
	}
	return tab, nil
}

func (s *ProgramTabs) Update(ctx context.Context, id string, in ProgramTabInput) (*ProgramTab, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	tab, err := getByID(ctx, s.store.programTabs, id, ErrProgramTabNotFound)
	if err != nil {
		return nil, err
	}

	in.apply(tab)
	tab.UpdatedAt = now()

	if _, err := s.store.db.NewUpdate().Model(tab).WherePK().Exec(ctx); err != nil {
		return nil, internalError(err, "failed to update program tab")
	}
	return tab, nil
}

func (s *ProgramTabs) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	return deleteByID(ctx, s.store.db, (*ProgramTab)(nil), id, ErrProgramTabNotFound)
}

// StatTabs manages the figures on the landing page
type StatTabs struct {
	store *Store
}

func NewStatTabs(store *Store) *StatTabs {
	return &StatTabs{store: store}
}

// List returns tabs by position, then creation time
func (s *StatTabs) List(ctx context.Context) ([]*StatTab, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	tabs := make([]*StatTab, 0)
	err := s.store.db.NewSelect().
		Model(&tabs).
		OrderExpr("?TableAlias.position ASC").
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list stat tabs")
	}
	return tabs, nil
}

func (s *StatTabs) Create(ctx context.Context, in StatTabInput) (*StatTab, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	ts := now()
	tab := &StatTab{
		ID:        uuid.New(),
		Type:      TabTypeInformational,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	in.apply(tab)

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	if _, err := s.store.db.NewInsert().Model(tab).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to create stat tab")
	}
	return tab, nil
}

func (s *StatTabs) Update(ctx context.Context, id string, in StatTabInput) (*StatTab, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	tab, err := getByID(ctx, s.store.statTabs, id, ErrStatTabNotFound)
	if err != nil {
		return nil, err
	}

	in.apply(tab)
	tab.UpdatedAt = now()

	if _, err := s.store.db.NewUpdate().Model(tab).WherePK().Exec(ctx); err != nil {
		return nil, internalError(err, "failed to update stat tab")
	}
	return tab, nil
}

func (s *StatTabs) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	return deleteByID(ctx, s.store.db, (*StatTab)(nil), id, ErrStatTabNotFound)
}
