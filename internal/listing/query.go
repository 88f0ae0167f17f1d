// Package listing turns untrusted list query parameters into a safe, bounded
// list request and shapes paged results into the pagination envelope returned
// by every index endpoint.
//
// Nothing here reports an error for bad input: unknown sort fields, unknown
// directions, page sizes outside the allowlist and malformed page numbers are
// replaced by the resource defaults.
package listing

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	DefaultTieKey  = "id"

	ParamSearch    = "search"
	ParamSort      = "sort"
	ParamDirection = "direction"
	ParamPerPage   = "per_page"
	ParamPage      = "page"
)

var DefaultPerPageValues = []int{10, 20, 50, 100}

// FilterField maps a query parameter to the column it constrains.
type FilterField struct {
	Param  string
	Column string
}

// Resource is the per-resource listing configuration. Columns named here are
// the only identifiers that ever reach generated SQL.
type Resource struct {
	Name             string
	SearchFields     []string
	Filters          []FilterField
	SortFields       []string
	DefaultSort      string
	DefaultDirection Direction
	PerPageValues    []int
	DefaultPerPage   int
	TieBreaker       string
}

func (r Resource) perPageValues() []int {
	if len(r.PerPageValues) == 0 {
		return DefaultPerPageValues
	}
	return r.PerPageValues
}

func (r Resource) defaultPerPage() int {
	if r.DefaultPerPage <= 0 {
		return DefaultPerPage
	}
	return r.DefaultPerPage
}

func (r Resource) defaultDirection() Direction {
	if r.DefaultDirection == Desc {
		return Desc
	}
	return Asc
}

func (r Resource) tieBreaker() string {
	if r.TieBreaker == "" {
		return DefaultTieKey
	}
	return r.TieBreaker
}

// Params holds the raw list parameters exactly as the client sent them.
type Params struct {
	Search    string
	Filters   map[string]string
	Sort      string
	Direction string
	PerPage   string
	Page      string
}

// ParseParams extracts the parameters res understands from a query string.
func ParseParams(q url.Values, res Resource) Params {
	p := Params{
		Search:    q.Get(ParamSearch),
		Sort:      q.Get(ParamSort),
		Direction: q.Get(ParamDirection),
		PerPage:   q.Get(ParamPerPage),
		Page:      q.Get(ParamPage),
		Filters:   make(map[string]string, len(res.Filters)),
	}
	for _, f := range res.Filters {
		if v, ok := q[f.Param]; ok && len(v) > 0 {
			p.Filters[f.Param] = v[0]
		}
	}
	return p
}

type Filter struct {
	Param  string
	Column string
	Value  string
}

type ListRequest struct {
	Resource      Resource
	Search        string
	Filters       []Filter
	SortField     string
	SortDirection Direction
	PerPage       int
	Page          int
}

func (r ListRequest) Offset() int { return (r.Page - 1) * r.PerPage }

// PastEnd reports whether the requested page lies beyond the last page of
// total rows. Such a page is always empty.
func (r ListRequest) PastEnd(total int64) bool { return r.Page > lastPage(total, r.PerPage) }

// OrderClauses returns the ORDER BY terms, ending with the tie-break key so
// that rows with equal sort values keep a stable order across pages.
func (r ListRequest) OrderClauses() []string {
	out := []string{r.SortField + " " + string(r.SortDirection)}
	if tie := r.Resource.tieBreaker(); tie != r.SortField {
		out = append(out, tie+" "+string(Asc))
	}
	return out
}

// BuildQuery substitutes defaults for anything outside the resource's
// allowlists and never fails.
func BuildQuery(p Params, res Resource) ListRequest {
	req := ListRequest{
		Resource:      res,
		Search:        strings.TrimSpace(p.Search),
		SortField:     res.DefaultSort,
		SortDirection: res.defaultDirection(),
		PerPage:       res.defaultPerPage(),
		Page:          DefaultPage,
	}

	for _, f := range res.Filters {
		v := p.Filters[f.Param]
		if v == "" {
			continue
		}
		req.Filters = append(req.Filters, Filter{Param: f.Param, Column: f.Column, Value: v})
	}

	if p.Sort != "" && slices.Contains(res.SortFields, p.Sort) {
		req.SortField = p.Sort
	}
	switch Direction(p.Direction) {
	case Asc, Desc:
		req.SortDirection = Direction(p.Direction)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(p.PerPage)); err == nil && slices.Contains(res.perPageValues(), n) {
		req.PerPage = n
	}
	req.Page = min(coercePage(p.Page), maxPage(req.PerPage))
	return req
}

// maxPage is the largest page whose offset still fits in an int.
func maxPage(perPage int) int { return math.MaxInt / perPage }

func coercePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}
