package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCSRFMiddleware(t *testing.T) {
	h := CSRFMiddleware(http.HandlerFunc(noContent))

	cases := []struct {
		name    string
		method  string
		path    string
		cookies map[string]string
		header  string
		bearer  bool
		want    int
	}{
		{name: "safe method", method: http.MethodGet, path: "/api/v1/master-items", cookies: map[string]string{"access_token": "tok"}, want: http.StatusNoContent},
		{name: "bearer request", method: http.MethodDelete, path: "/api/v1/roles/1", bearer: true, want: http.StatusNoContent},
		{name: "missing csrf cookie", method: http.MethodPost, path: "/api/v1/master-items", cookies: map[string]string{"access_token": "tok"}, header: "x", want: http.StatusForbidden},
		{name: "missing header", method: http.MethodPost, path: "/api/v1/master-items", cookies: map[string]string{"access_token": "tok", "csrf_token": "match"}, want: http.StatusForbidden},
		{name: "mismatch", method: http.MethodPatch, path: "/api/v1/users/2", cookies: map[string]string{"access_token": "tok", "csrf_token": "cookie-value"}, header: "header-value", want: http.StatusForbidden},
		{name: "match", method: http.MethodPost, path: "/api/v1/master-items", cookies: map[string]string{"access_token": "tok", "csrf_token": "match"}, header: "match", want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for name, value := range tc.cookies {
				req.AddCookie(&http.Cookie{Name: name, Value: value})
			}
			if tc.header != "" {
				req.Header.Set(CSRFHeader, tc.header)
			}
			if tc.bearer {
				req.Header.Set("Authorization", "Bearer tok")
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("got %d want %d", rr.Code, tc.want)
			}
		})
	}
}
