package integration

import (
	"net/http"
	"net/http/cookiejar"
	"testing"
)

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, "", http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    superAdminEmail,
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected 401 UNAUTHORIZED, got %d %+v", resp.StatusCode, env.Error)
	}

	resp, env = s.do(t, "", http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed login, got %d", resp.StatusCode)
	}
	if _, ok := validationFields(t, env)["password"]; !ok {
		t.Fatal("expected password field error")
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, "", http.MethodGet, "/api/v1/master-items", nil)
	if resp.StatusCode != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected 401, got %d %+v", resp.StatusCode, env.Error)
	}
	resp, _ = s.do(t, "not-a-jwt", http.MethodGet, "/api/v1/me", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
}

func TestAuthLoginRateLimited(t *testing.T) {
	s := newTestServerWithOptions(t, testServerOptions{authRateLimitRPM: 3})
	body := map[string]string{"email": superAdminEmail, "password": "wrong-password"}

	for i := 0; i < 3; i++ {
		resp, _ := s.do(t, "", http.MethodPost, "/api/v1/auth/login", body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, resp.StatusCode)
		}
	}
	resp, env := s.do(t, "", http.MethodPost, "/api/v1/auth/login", body)
	if resp.StatusCode != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("expected 429 RATE_LIMITED, got %d %+v", resp.StatusCode, env.Error)
	}
}

func TestCookieSessionRequiresCSRFForWrites(t *testing.T) {
	s := newTestServer(t)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	s.client.Jar = jar
	s.login(t, superAdminEmail, superAdminPassword)

	resp, _ := s.do(t, "", http.MethodGet, "/api/v1/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cookie session should read /me, got %d", resp.StatusCode)
	}

	resp, env := s.do(t, "", http.MethodPost, "/api/v1/master-items", map[string]any{
		"item_code": "CSRF-1",
		"item_name": "No header",
	})
	if resp.StatusCode != http.StatusForbidden || env.Error == nil || env.Error.Message != "invalid csrf token" {
		t.Fatalf("expected csrf rejection, got %d %+v", resp.StatusCode, env.Error)
	}
}
