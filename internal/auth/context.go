package auth

import (
	"context"

	"github.com/zhouzirui/orgchat/backend/internal/model/user"
)

type contextKey struct{}

type identity struct {
	token string
	user  user.User
}

// WithUser returns ctx carrying the signed-in user and the token that proved it.
func WithUser(ctx context.Context, token string, u user.User) context.Context {
	return context.WithValue(ctx, contextKey{}, identity{token: token, user: u})
}

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (user.User, bool) {
	id, ok := ctx.Value(contextKey{}).(identity)
	return id.user, ok
}

// TokenFromContext returns the token of the signed-in user, or "".
func TokenFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(identity)
	return id.token
}
