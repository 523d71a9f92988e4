// Package auth resolves backend tokens to users and gates routes by role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/zhouzirui/orgchat/backend/internal/logging"
	"github.com/zhouzirui/orgchat/backend/internal/model/user"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInactive        = errors.New("account is inactive")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Resolver maps access tokens to users through the backend's /users/me, caching answers
// for a short while.
type Resolver struct {
	client *backend.Client
	cache  *expirable.LRU[string, user.User]
	group  singleflight.Group
	logger *slog.Logger
}

// NewResolver creates a resolver. size and ttl bound the cache; size <= 0 picks 1024.
func NewResolver(client *backend.Client, size int, ttl time.Duration, logger *slog.Logger) *Resolver {
	if size <= 0 {
		size = 1024
	}
	return &Resolver{
		client: client,
		cache:  expirable.NewLRU[string, user.User](size, nil, ttl),
		logger: logging.OrNop(logger),
	}
}

// Resolve returns the active user behind token. Concurrent calls for one token share a
// single backend request.
func (r *Resolver) Resolve(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, ErrUnauthenticated
	}
	if u, ok := r.cache.Get(token); ok {
		return u, nil
	}

	// shared by every caller waiting on token
	lookupCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(token, func() (any, error) {
		u, err := r.client.WithToken(token).CurrentUser(lookupCtx)
		if err != nil {
			switch backend.StatusCode(err) {
			case http.StatusUnauthorized, http.StatusForbidden:
				return user.User{}, ErrUnauthenticated
			}
			return user.User{}, fmt.Errorf("resolve user: %w", err)
		}
		if !u.IsActive {
			return user.User{}, ErrInactive
		}
		r.cache.Add(token, u)
		return u, nil
	})
	if err != nil {
		return user.User{}, err
	}
	return v.(user.User), nil
}

// Forget drops token from the cache.
func (r *Resolver) Forget(token string) {
	r.cache.Remove(token)
}
