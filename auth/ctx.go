package auth

import "context"

type userCtxKey struct{}

// WithUser stores the authenticated user on ctx
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the authenticated user stored by WithUser
func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(userCtxKey{}).(*User)
	return user, ok && user != nil
}
