package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record. The reset hash and expiry are written and
// cleared together.
type User struct {
	bun.BaseModel       `bun:"table:users,alias:usr"`
	ID                  uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Email               string     `bun:"email,notnull,unique" json:"email"`
	Name                string     `bun:"name,notnull" json:"name"`
	Age                 *int       `bun:"age" json:"age,omitempty"`
	Phone               string     `bun:"phone_number" json:"phone,omitempty"`
	Role                UserRole   `bun:"user_role,notnull" json:"role"`
	Status              UserStatus `bun:"status,notnull" json:"status"`
	PasswordHash        string     `bun:"password_hash,notnull" json:"-"`
	ResetTokenHash      *string    `bun:"reset_token_hash" json:"-"`
	ResetTokenExpiresAt *time.Time `bun:"reset_token_expires_at" json:"-"`
	CreatedAt           time.Time  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt           time.Time  `bun:"updated_at,notnull" json:"updated_at"`
}

// IsApproved reports whether the user may hold a session
func (u *User) IsApproved() bool {
	return u != nil && u.Status == UserStatusApproved
}

// HasPendingReset reports whether a reset token was issued and has not expired at now.
func (u *User) HasPendingReset(now time.Time) bool {
	if u == nil || u.ResetTokenHash == nil || u.ResetTokenExpiresAt == nil {
		return false
	}
	return u.ResetTokenExpiresAt.After(now)
}

// Session is the outcome of a successful register or login
type Session struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenTypeBearer is the token_type reported with every access token
const TokenTypeBearer = "bearer"

func newSession(user *User, token string) *Session {
	return &Session{
		User:        user,
		AccessToken: token,
		TokenType:   TokenTypeBearer,
	}
}
