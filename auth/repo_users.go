package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/internal/persistence"
)

// Users is the identity store
type Users interface {
	repository.Repository[*User]
	IdentityStore

	FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	ListByStatus(ctx context.Context, status UserStatus) ([]*User, error)
	UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status UserStatus, at time.Time) error

	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type users struct {
	repository.Repository[*User]
	db bun.IDB
}

var _ Users = (*users)(nil)

// UsersTable is the schema for the users table. Email uniqueness is
// enforced here, never by a prior read.
func UsersTable() persistence.Table {
	return persistence.Table{
		Model: (*User)(nil),
		Indexes: []persistence.Index{
			{Name: "users_email_uidx", Columns: []string{"email"}, Unique: true},
			{Name: "users_reset_token_hash_idx", Columns: []string{"reset_token_hash"}},
			{Name: "users_status_idx", Columns: []string{"status"}},
		},
	}
}

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// FindByID implements IdentityStore. Ids that are not uuids never match.
func (a *users) FindByID(ctx context.Context, id string) (*User, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := a.Repository.GetByID(ctx, parsed.String())
	if err != nil {
		if repository.IsRecordNotFound(err) || persistence.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to load user")
	}
	return user, nil
}

func (a *users) FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrUserNotFound
	}

	record := &User{}
	err = tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", parsed).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if persistence.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to load user")
	}
	return record, nil
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserNotFound
	}

	user, err := a.Repository.GetByIdentifier(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) || persistence.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to load user")
	}
	return user, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx inserts user. A duplicate email surfaces as ErrEmailTaken.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		if persistence.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, internalError(err, "failed to create user")
	}

	return user, nil
}

// ListByStatus returns users ordered by creation time, filtered by status when set.
func (a *users) ListByStatus(ctx context.Context, status UserStatus) ([]*User, error) {
	records := make([]*User, 0)

	q := a.db.NewSelect().Model(&records).OrderExpr("?TableAlias.created_at ASC")
	if status != "" {
		q = q.Where("?TableAlias.status = ?", status)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, internalError(err, "failed to list users")
	}
	return records, nil
}

func (a *users) UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status UserStatus, at time.Time) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", at.UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to update user status")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetResetToken stores a reset hash and expiry, replacing any pending reset.
func (a *users) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	expiresAt = expiresAt.UTC()
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("reset_token_hash = ?", tokenHash).
		Set("reset_token_expires_at = ?", expiresAt).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to store password reset")
	}
	return nil
}

// ConsumeResetToken sets the new password and clears the reset pair in a
// single conditional update. It reports false when no live token matched.
func (a *users) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	now = now.UTC()
	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("reset_token_hash = NULL").
		Set("reset_token_expires_at = NULL").
		Set("updated_at = ?", now).
		Where("reset_token_hash = ?", tokenHash).
		Where("reset_token_expires_at > ?", now).
		Exec(ctx)
	if err != nil {
		return false, internalError(err, "failed to reset password")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, internalError(err, "failed to reset password")
	}
	return n > 0, nil
}

// ClearExpiredResetTokens drops reset pairs whose expiry has passed.
func (a *users) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("reset_token_hash = NULL").
		Set("reset_token_expires_at = NULL").
		Where("reset_token_expires_at IS NOT NULL").
		Where("reset_token_expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, internalError(err, "failed to clear expired password resets")
	}
	return res.RowsAffected()
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Status == "" {
		record.Status = record.Role.InitialStatus()
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
}

func isUserNotFound(err error) bool {
	return goerrors.Is(err, ErrUserNotFound)
}
