package repository

import (
	"errors"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/observability"
)

// ErrReferenceNotFound is returned when a sync names a grant id that does
// not exist. Nothing is written in that case.
var ErrReferenceNotFound = errors.New("referenced grant does not exist")

// syncGrants replaces the owner's association with exactly the grants named
// by ids. It must run inside a transaction so that a failed existence check
// leaves the current set untouched.
func syncGrants[G any](tx *gorm.DB, owner any, association string, ids []uint) (err error) {
	ids = uniqueIDs(ids)
	ctx, span := observability.StartSpan(tx.Statement.Context, "rbac.sync_grants",
		attribute.String("rbac.association", association),
		attribute.Int("rbac.grant_count", len(ids)),
	)
	defer func() { observability.EndSpan(span, err) }()
	tx = tx.WithContext(ctx)

	if len(ids) == 0 {
		return tx.Model(owner).Association(association).Clear()
	}
	var grants []G
	if err := tx.Where("id IN ?", ids).Find(&grants).Error; err != nil {
		return err
	}
	if len(grants) != len(ids) {
		return ErrReferenceNotFound
	}
	return tx.Model(owner).Association(association).Replace(grants)
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
