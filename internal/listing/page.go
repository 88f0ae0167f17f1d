package listing

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	PreviousLabel = "&laquo; Previous"
	NextLabel     = "Next &raquo;"
)

// Page is one window of a list result. Total counts every matching row
// before the window was applied.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PerPage     int
	Total       int64
	LastPage    int
	From        *int
	To          *int
}

func NewPage[T any](items []T, total int64, req ListRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{
		Items:       items,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
		Total:       total,
		LastPage:    lastPage(total, req.PerPage),
	}
	if len(items) > 0 {
		from := req.Offset() + 1
		to := req.Offset() + len(items)
		p.From, p.To = &from, &to
	}
	return p
}

func lastPage(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

type Meta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	To          *int   `json:"to"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int64  `json:"total"`
	Path        string `json:"path"`
	Links       []Link `json:"links"`
}

// BuildMeta reshapes p into the client envelope. Link URLs keep every query
// parameter of the current request and only replace page. A positive
// perPageOverride is reported instead of the page's own size.
func BuildMeta[T any](p Page[T], path string, query url.Values, perPageOverride int) Meta {
	perPage := p.PerPage
	if perPageOverride > 0 {
		perPage = perPageOverride
	}
	return Meta{
		CurrentPage: p.CurrentPage,
		From:        p.From,
		To:          p.To,
		LastPage:    p.LastPage,
		PerPage:     perPage,
		Total:       p.Total,
		Path:        path,
		Links:       buildLinks(p.CurrentPage, p.LastPage, path, query),
	}
}

func buildLinks(current, last int, path string, query url.Values) []Link {
	links := make([]Link, 0, last+2)

	prev := Link{Label: PreviousLabel}
	if current > 1 {
		prev.URL = pageURL(path, query, current-1)
	}
	links = append(links, prev)

	for n := 1; n <= last; n++ {
		links = append(links, Link{URL: pageURL(path, query, n), Label: strconv.Itoa(n), Active: n == current})
	}

	next := Link{Label: NextLabel}
	if current < last {
		next.URL = pageURL(path, query, current+1)
	}
	return append(links, next)
}

func pageURL(path string, query url.Values, page int) *string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(ParamPage, strconv.Itoa(page))
	u := path + "?" + q.Encode()
	return &u
}

// RequestPath returns scheme, host and path of r without the query string.
func RequestPath(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0]); fwd == "http" || fwd == "https" {
		scheme = fwd
	}
	return scheme + "://" + r.Host + r.URL.Path
}
