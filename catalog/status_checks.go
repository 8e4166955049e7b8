package catalog

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/goliatone/go-enroll/internal/validators"
)

// StatusCheckLimit caps how many pings List returns
const StatusCheckLimit = 1000

type StatusCheckInput struct {
	ClientName string `json:"client_name"`
}

func (in StatusCheckInput) Validate() error {
	return validators.ToError(validation.ValidateStruct(&in,
		validation.Field(&in.ClientName, validation.Required, validation.Length(1, 200)),
	))
}

// StatusChecks records client pings
type StatusChecks struct {
	store *Store
}

func NewStatusChecks(store *Store) *StatusChecks {
	return &StatusChecks{store: store}
}

func (s *StatusChecks) Create(ctx context.Context, in StatusCheckInput) (*StatusCheck, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	check := &StatusCheck{
		ID:         uuid.New(),
		ClientName: in.ClientName,
		Timestamp:  now(),
	}

	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	if _, err := s.store.db.NewInsert().Model(check).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to record status check")
	}
	return check, nil
}

// List returns the latest pings, newest first
func (s *StatusChecks) List(ctx context.Context) ([]*StatusCheck, error) {
	ctx, cancel := s.store.bounded(ctx)
	defer cancel()

	checks := make([]*StatusCheck, 0)
	err := s.store.db.NewSelect().
		Model(&checks).
		OrderExpr("?TableAlias.timestamp DESC").
		Limit(StatusCheckLimit).
		Scan(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list status checks")
	}
	return checks, nil
}
