package catalog

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/internal/persistence"
	"github.com/goliatone/go-enroll/internal/validators"
)

var contentTypes = []any{string(ContentText), string(ContentHTML), string(ContentURL)}

// ContentInput is the admin payload for writing a content item
type ContentInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

func (in ContentInput) Validate() error {
	return validators.ToError(validation.ValidateStruct(&in,
		validation.Field(&in.Key, validation.Required, validators.Key),
		validation.Field(&in.Value, validation.Length(0, 20000)),
		validation.Field(&in.Type, validation.In(contentTypes...)),
	))
}

// Content manages admin-editable UI text addressed by key
type Content struct {
	store *Store
}

func NewContent(store *Store) *Content {
	return &Content{store: store}
}

func (s *Content) Get(ctx context.Context, key string) (*ContentItem, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	item := new(ContentItem)
	err := s.store.db.NewSelect().
		Model(item).
		Where("?TableAlias.? = ?", bun.Ident("key"), strings.TrimSpace(key)).
		Scan(ctx)
	if err != nil {
		if persistence.IsNoRows(err) {
			return nil, ErrContentNotFound
		}
		return nil, internalError(err, "failed to load content")
	}
	return item, nil
}

// List returns every content item ordered by key
func (s *Content) List(ctx context.Context) ([]*ContentItem, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	items := make([]*ContentItem, 0)
	err := s.store.db.NewSelect().
		Model(&items).
		OrderExpr("?TableAlias.? ASC", bun.Ident("key")).
		Scan(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list content")
	}
	return items, nil
}

// Upsert writes the value for key, creating the item when missing. The type
// defaults to text.
func (s *Content) Upsert(ctx context.Context, updatedBy string, in ContentInput) (*ContentItem, error) {
	in.Key = strings.TrimSpace(in.Key)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := &ContentItem{
		Key:       in.Key,
		Value:     in.Value,
		Type:      ContentType(in.Type),
		UpdatedBy: updatedBy,
		UpdatedAt: now(),
	}
	if item.Type == "" {
		item.Type = ContentText
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	_, err := s.store.db.NewInsert().
		Model(item).
		On("CONFLICT (?) DO UPDATE", bun.Ident("key")).
		Set("? = EXCLUDED.?", bun.Ident("value"), bun.Ident("value")).
		Set("? = EXCLUDED.?", bun.Ident("type"), bun.Ident("type")).
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, internalError(err, "failed to save content")
	}
	return item, nil
}

func (s *Content) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	res, err := s.store.db.NewDelete().
		Model((*ContentItem)(nil)).
		Where("? = ?", bun.Ident("key"), strings.TrimSpace(key)).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to delete content")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrContentNotFound
	}
	return nil
}
