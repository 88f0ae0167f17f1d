package listing

import "net/url"

type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

type Envelope[T any] struct {
	Data                 []T               `json:"data"`
	Meta                 Meta              `json:"meta"`
	Filters              map[string]string `json:"filters"`
	Sort                 Sort              `json:"sort"`
	AllowedPerPageValues []int             `json:"allowedPerPageValues"`
}

// NewEnvelope assembles the list response. Filters echo the raw search and
// filter parameters, with an empty string for those not sent.
func NewEnvelope[T any](p Page[T], req ListRequest, params Params, path string, query url.Values) Envelope[T] {
	filters := map[string]string{ParamSearch: params.Search}
	for _, f := range req.Resource.Filters {
		filters[f.Param] = params.Filters[f.Param]
	}
	return Envelope[T]{
		Data:                 p.Items,
		Meta:                 BuildMeta(p, path, query, 0),
		Filters:              filters,
		Sort:                 Sort{Field: req.SortField, Direction: req.SortDirection},
		AllowedPerPageValues: req.Resource.perPageValues(),
	}
}

// Map converts the items of p, keeping its window.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, fn(it))
	}
	return Page[U]{
		Items:       out,
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage,
		From:        p.From,
		To:          p.To,
	}
}
