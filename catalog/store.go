package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/internal/persistence"
)

type record interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)
}

func newRepository[T record](db *bun.DB, newRecord func() T) repository.Repository[T] {
	return repository.NewRepository[T](db, repository.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID: func(r T) uuid.UUID {
			return r.GetID()
		},
		SetID: func(r T, id uuid.UUID) {
			r.SetID(id)
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

// Store groups the catalog repositories over one database
type Store struct {
	db          *bun.DB
	timeout     time.Duration
	programs    repository.Repository[*Program]
	enrollments repository.Repository[*Enrollment]
	programTabs repository.Repository[*ProgramTab]
	statTabs    repository.Repository[*StatTab]
}

func NewStore(db *bun.DB) *Store {
	return &Store{
		db:          db,
		timeout:     10 * time.Second,
		programs:    newRepository(db, func() *Program { return &Program{} }),
		enrollments: newRepository(db, func() *Enrollment { return &Enrollment{} }),
		programTabs: newRepository(db, func() *ProgramTab { return &ProgramTab{} }),
		statTabs:    newRepository(db, func() *StatTab { return &StatTab{} }),
	}
}

// WithTimeout bounds every store call made by the catalog services
func (s *Store) WithTimeout(d time.Duration) *Store {
	if d > 0 {
		s.timeout = d
	}
	return s
}

func (s *Store) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.db.RunInTx(ctx, opts, f)
	}
}

func (s *Store) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Tables is the catalog schema
func Tables() []persistence.Table {
	return []persistence.Table{
		{
			Model: (*Program)(nil),
			Indexes: []persistence.Index{
				{Name: "programs_active_idx", Columns: []string{"is_active"}},
			},
		},
		{
			Model: (*Enrollment)(nil),
			Indexes: []persistence.Index{
				{Name: "enrollments_student_program_uidx", Columns: []string{"student_id", "program_id"}, Unique: true},
				{Name: "enrollments_status_idx", Columns: []string{"status"}},
			},
		},
		{Model: (*ProgramTab)(nil)},
		{Model: (*StatTab)(nil)},
		{Model: (*ContentItem)(nil)},
		{
			Model: (*StatusCheck)(nil),
			Indexes: []persistence.Index{
				{Name: "status_checks_timestamp_idx", Columns: []string{"timestamp"}},
			},
		},
	}
}

func parseID(id string, notFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound
	}
	return parsed, nil
}

func getByID[T any](ctx context.Context, repo repository.Repository[T], id string, notFound error) (T, error) {
	var zero T
	parsed, err := parseID(id, notFound)
	if err != nil {
		return zero, err
	}

	rec, err := repo.GetByID(ctx, parsed.String())
	if err != nil {
		if repository.IsRecordNotFound(err) || persistence.IsNoRows(err) {
			return zero, notFound
		}
		return zero, internalError(err, "failed to load record")
	}
	return rec, nil
}

func deleteByID(ctx context.Context, db bun.IDB, model any, id string, notFound error) error {
	parsed, err := parseID(id, notFound)
	if err != nil {
		return err
	}

	res, err := db.NewDelete().Model(model).Where("id = ?", parsed).Exec(ctx)
	if err != nil {
		return internalError(err, "failed to delete record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
