package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/catalog"
	"github.com/goliatone/go-enroll/internal/persistence"
)

func newStore(t *testing.T) (*bun.DB, *catalog.Store) {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.NewInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables := append([]persistence.Table{auth.UsersTable()}, catalog.Tables()...)
	require.NoError(t, persistence.EnsureSchema(ctx, db, tables...))

	return db, catalog.NewStore(db)
}

func seedUser(t *testing.T, db *bun.DB, email, name string, role auth.UserRole) *auth.User {
	t.Helper()

	user, err := auth.NewUsersRepository(db).Register(context.Background(), &auth.User{
		Email:        email,
		Name:         name,
		Role:         role,
		Status:       auth.UserStatusApproved,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T { return &v }

func validProgram(name string) catalog.ProgramInput {
	return catalog.ProgramInput{
		Name:        ptr(name),
		Description: ptr("A program about " + name),
		Tagline:     ptr("learn " + name),
		Overview:    ptr("overview"),
	}
}
