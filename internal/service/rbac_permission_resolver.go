package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/security"
)

// PermissionNameSource lists the permission names a user holds through
// their roles.
type PermissionNameSource interface {
	NamesForUser(ctx context.Context, userID uint) ([]string, error)
}

// permissionLookupTimeout bounds a shared lookup, which no longer follows the
// cancellation of the request that started it.
const permissionLookupTimeout = 5 * time.Second

// DBPermissionResolver reads the caller's current grants from storage on
// every call. Lookups for the same user that are in flight at the same time
// share one query, so a request joining a lookup that began before a revoke
// committed can still see the old grants. Nothing is kept after it returns.
type DBPermissionResolver struct {
	source PermissionNameSource
	sf     singleflight.Group
}

func NewDBPermissionResolver(source PermissionNameSource) *DBPermissionResolver {
	return &DBPermissionResolver{source: source}
}

var _ PermissionNameSource = (repository.PermissionRepository)(nil)

func (r *DBPermissionResolver) ResolvePermissions(ctx context.Context, claims *security.Claims) ([]string, error) {
	if claims == nil || claims.UserID == 0 {
		return nil, fmt.Errorf("missing claims")
	}
	key := strconv.FormatUint(uint64(claims.UserID), 10)
	ch := r.sf.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), permissionLookupTimeout)
		defer cancel()
		return r.source.NamesForUser(lookupCtx, claims.UserID)
	})
	var result any
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result = res.Val
	}
	perms, ok := result.([]string)
	if !ok {
		return nil, fmt.Errorf("invalid permission result type")
	}
	return append([]string(nil), perms...), nil
}
