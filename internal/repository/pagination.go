package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyListFilters adds the search and exact-filter predicates of req to q.
// Search columns are OR'd and matched as a case-insensitive literal
// substring; filters are AND'd with each other and with the search group.
func applyListFilters(q *gorm.DB, req listing.ListRequest) *gorm.DB {
	if req.Search != "" && len(req.Resource.SearchFields) > 0 {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(req.Search)) + "%"
		clauses := make([]string, 0, len(req.Resource.SearchFields))
		args := make([]any, 0, len(req.Resource.SearchFields))
		for _, col := range req.Resource.SearchFields {
			clauses = append(clauses, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	for _, f := range req.Filters {
		q = q.Where(f.Column+" = ?", f.Value)
	}
	return q
}

// listPaged counts every row matching req before fetching the requested
// window, ordered by the request sort and the resource tie-break key.
func listPaged[T any](ctx context.Context, db *gorm.DB, req listing.ListRequest, preloads ...string) (listing.Page[T], error) {
	var model T
	q := applyListFilters(db.WithContext(ctx).Model(&model), req).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return listing.Page[T]{}, err
	}

	if req.PastEnd(total) {
		return listing.NewPage[T](nil, total, req), nil
	}

	find := q
	for _, p := range preloads {
		find = find.Preload(p)
	}
	for _, clause := range req.OrderClauses() {
		find = find.Order(clause)
	}
	var items []T
	if err := find.Offset(req.Offset()).Limit(req.PerPage).Find(&items).Error; err != nil {
		return listing.Page[T]{}, err
	}
	return listing.NewPage(items, total, req), nil
}

// record reports the outcome of a repository operation and returns err
// unchanged. notFound is the sentinel counted as a not_found outcome.
func record(ctx context.Context, entity, op string, err, notFound error) error {
	outcome := "success"
	switch {
	case err == nil:
	case notFound != nil && errors.Is(err, notFound):
		outcome = "not_found"
	case errors.Is(err, ErrReferenceNotFound):
		outcome = "invalid_reference"
	default:
		outcome = "error"
	}
	observability.RecordRepositoryOperation(ctx, entity, op, outcome)
	return err
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
