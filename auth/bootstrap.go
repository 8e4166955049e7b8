package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// SuperAdminSeed describes the operator account created on first start
type SuperAdminSeed struct {
	Email    string
	Name     string
	Password string
}

// EnsureSuperAdmin creates the seed account when it does not exist yet.
// It reports whether a user was created. An empty seed is a no-op.
func EnsureSuperAdmin(ctx context.Context, users Users, hasher PasswordHasher, seed SuperAdminSeed, logger Logger) (bool, error) {
	logger = resolveLogger(logger)

	seed.Email = strings.TrimSpace(seed.Email)
	if seed.Email == "" || seed.Password == "" {
		logger.Debug("super admin seed not configured")
		return false, nil
	}

	if _, err := users.FindByEmail(ctx, seed.Email); err == nil {
		return false, nil
	} else if !isUserNotFound(err) {
		return false, internalError(err, "failed to look up super admin")
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, internalError(err, "failed to hash super admin password")
	}

	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Super Admin"
	}

	user := &User{
		Email:        seed.Email,
		Name:         name,
		Role:         RoleSuperAdmin,
		Status:       UserStatusApproved,
		PasswordHash: hash,
	}

	if _, err := users.Register(ctx, user); err != nil {
		// another instance won the race
		if goerrors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}

	logger.Info("created super admin %s", user.ID)
	return true, nil
}
