package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/http/handler"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/security"
	"github.com/sandeepkv93/master-items-admin/internal/service"
	servicegomock "github.com/sandeepkv93/master-items-admin/internal/service/gomock"
)

type routerFixture struct {
	handler  http.Handler
	jwt      *security.JWTManager
	items    *servicegomock.MockMasterItemService
	resolver *servicegomock.MockPermissionResolver
}

func newRouterFixture(t *testing.T, prefs bool) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	jwt := security.NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	items := servicegomock.NewMockMasterItemService(ctrl)
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	h := NewRouter(Dependencies{
		AuthHandler:            handler.NewAuthHandler(servicegomock.NewMockAuthService(ctrl), security.NewCookieManager("", false), time.Hour),
		UserHandler:            handler.NewUserHandler(servicegomock.NewMockUserService(ctrl)),
		RoleHandler:            handler.NewRoleHandler(servicegomock.NewMockRoleService(ctrl)),
		PermissionHandler:      handler.NewPermissionHandler(servicegomock.NewMockPermissionService(ctrl)),
		MasterItemHandler:      handler.NewMasterItemHandler(items),
		UserPreferenceHandler:  handler.NewUserPreferenceHandler(servicegomock.NewMockUserPreferenceService(ctrl)),
		TokenParser:            jwt,
		RBACService:            service.NewRBACService(),
		PermissionResolver:     resolver,
		AuthRateLimitRPM:       100,
		APIRateLimitRPM:        100,
		UserPreferencesEnabled: prefs,
	})
	return routerFixture{handler: h, jwt: jwt, items: items, resolver: resolver}
}

func (f routerFixture) do(t *testing.T, method, path, body string, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "10.1.1.1:1234"
	if userID != 0 {
		token, err := f.jwt.SignAccessToken(userID, "u@example.com", time.Hour)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthLive(t *testing.T) {
	f := newRouterFixture(t, false)
	if rr := f.do(t, http.MethodGet, "/health/live", "", 0); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr := f.do(t, http.MethodGet, "/health/ready", "", 0); rr.Code != http.StatusOK {
		t.Fatalf("expected ready without probes, got %d", rr.Code)
	}
}

func TestResourceRoutesRequireAuthentication(t *testing.T) {
	f := newRouterFixture(t, false)
	for _, path := range []string{"/api/v1/master-items", "/api/v1/users", "/api/v1/roles", "/api/v1/permissions", "/api/v1/me"} {
		if rr := f.do(t, http.MethodGet, path, "", 0); rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rr.Code)
		}
	}
}

func TestResourceRoutesCheckVerbPermission(t *testing.T) {
	f := newRouterFixture(t, false)
	f.resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return([]string{"view master items"}, nil).AnyTimes()
	f.items.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params listing.Params) (service.MasterItemIndex, error) {
			req := listing.BuildQuery(params, service.MasterItemsResource)
			return service.MasterItemIndex{Index: service.Index[domain.MasterItem]{Page: listing.NewPage[domain.MasterItem](nil, 0, req), Request: req}}, nil
		})

	if rr := f.do(t, http.MethodGet, "/api/v1/master-items", "", 7); rr.Code != http.StatusOK {
		t.Fatalf("expected list allowed, got %d %s", rr.Code, rr.Body.String())
	}

	denied := []struct{ method, path, want string }{
		{http.MethodGet, "/api/v1/master-items/create", "create master items"},
		{http.MethodPost, "/api/v1/master-items", "create master items"},
		{http.MethodGet, "/api/v1/master-items/1/edit", "edit master items"},
		{http.MethodPatch, "/api/v1/master-items/1", "edit master items"},
		{http.MethodDelete, "/api/v1/master-items/1", "delete master items"},
		{http.MethodGet, "/api/v1/users", "view users"},
		{http.MethodGet, "/api/v1/roles", "view roles"},
		{http.MethodGet, "/api/v1/permissions", "view permissions"},
	}
	for _, tc := range denied {
		rr := f.do(t, tc.method, tc.path, `{}`, 7)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", tc.method, tc.path, rr.Code)
		}
		var env struct {
			Error struct {
				Code    string            `json:"code"`
				Details map[string]string `json:"details"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Error.Code != "FORBIDDEN" || env.Error.Details["required"] != tc.want {
			t.Fatalf("%s %s: unexpected error %+v", tc.method, tc.path, env.Error)
		}
	}
}

func TestUserPreferenceRoutesFollowFlag(t *testing.T) {
	off := newRouterFixture(t, false)
	if rr := off.do(t, http.MethodGet, "/api/v1/user-preferences?preference_type=a&page=b", "", 7); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when disabled, got %d", rr.Code)
	}
}
