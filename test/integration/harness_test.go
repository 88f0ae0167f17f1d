package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/master-items-admin/internal/database"
	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/http/handler"
	"github.com/sandeepkv93/master-items-admin/internal/http/router"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/security"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

const (
	superAdminEmail    = "root@example.com"
	superAdminPassword = "Root#Pass1234"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type listLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

type listBody[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		CurrentPage int        `json:"current_page"`
		From        *int       `json:"from"`
		To          *int       `json:"to"`
		LastPage    int        `json:"last_page"`
		PerPage     int        `json:"per_page"`
		Total       int64      `json:"total"`
		Links       []listLink `json:"links"`
	} `json:"meta"`
	Filters map[string]string `json:"filters"`
	Sort    struct {
		Field     string `json:"field"`
		Direction string `json:"direction"`
	} `json:"sort"`
	AllowedPerPageValues []int `json:"allowedPerPageValues"`
}

type testServerOptions struct {
	authRateLimitRPM int
}

type testServer struct {
	baseURL string
	client  *http.Client
	db      *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithOptions(t, testServerOptions{})
}

func newTestServerWithOptions(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.Seed(db, database.SeedOptions{
		AdminEmail:    superAdminEmail,
		AdminPassword: superAdminPassword,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	authRPM := opts.authRateLimitRPM
	if authRPM == 0 {
		authRPM = 1000
	}

	jwtMgr := security.NewJWTManager("master-items-admin", "master-items-admin", "integration-secret-0123456789abcdef")
	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	perms := repository.NewPermissionRepository(db)
	items := repository.NewMasterItemRepository(db)

	r := router.NewRouter(router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(service.NewAuthService(users, perms, jwtMgr, 15*time.Minute), security.NewCookieManager("", false), 15*time.Minute),
		UserHandler:        handler.NewUserHandler(service.NewUserService(users, roles, perms)),
		RoleHandler:        handler.NewRoleHandler(service.NewRoleService(roles, perms)),
		PermissionHandler:  handler.NewPermissionHandler(service.NewPermissionService(perms)),
		MasterItemHandler:  handler.NewMasterItemHandler(service.NewMasterItemService(items)),
		TokenParser:        jwtMgr,
		RBACService:        service.NewRBACService(),
		PermissionResolver: service.NewDBPermissionResolver(perms),
		AuthRateLimitRPM:   authRPM,
		APIRateLimitRPM:    1000,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{baseURL: srv.URL, client: srv.Client(), db: db}
}

// login returns a bearer token for the account.
func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, env := s.do(t, "", http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login %s failed: status=%d", email, resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, env, &body)
	if body.AccessToken == "" {
		t.Fatal("login returned an empty access token")
	}
	return body.AccessToken
}

func (s *testServer) superAdminToken(t *testing.T) string {
	return s.login(t, superAdminEmail, superAdminPassword)
}

// createUserWithRole creates an account holding a single seeded role and
// returns its token.
func (s *testServer) createUserWithRole(t *testing.T, rootToken, email, roleName string) (uint, string) {
	t.Helper()
	roleID := s.roleID(t, roleName)
	const password = "Member#Pass1234"
	resp, env := s.do(t, rootToken, http.MethodPost, "/api/v1/users", map[string]any{
		"name":                  strings.Split(email, "@")[0],
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
		"roles":                 []uint{roleID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user %s: status=%d error=%+v", email, resp.StatusCode, env.Error)
	}
	var created struct {
		Data domain.User `json:"data"`
	}
	decodeData(t, env, &created)
	return created.Data.ID, s.login(t, email, password)
}

func (s *testServer) roleID(t *testing.T, name string) uint {
	t.Helper()
	var role domain.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		t.Fatalf("find role %s: %v", name, err)
	}
	return role.ID
}

func (s *testServer) permissionIDs(t *testing.T, names ...string) []uint {
	t.Helper()
	var perms []domain.Permission
	if err := s.db.Where("name IN ?", names).Order("id").Find(&perms).Error; err != nil {
		t.Fatalf("find permissions: %v", err)
	}
	if len(perms) != len(names) {
		t.Fatalf("expected %d permissions, found %d", len(names), len(perms))
	}
	ids := make([]uint, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *testServer) createItem(t *testing.T, token string, body map[string]any) domain.MasterItem {
	t.Helper()
	resp, env := s.do(t, token, http.MethodPost, "/api/v1/master-items", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item %v: status=%d error=%+v", body["item_code"], resp.StatusCode, env.Error)
	}
	var created struct {
		Data domain.MasterItem `json:"data"`
	}
	decodeData(t, env, &created)
	return created.Data
}

func (s *testServer) do(t *testing.T, token, method, path string, body any) (*http.Response, apiEnvelope) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var env apiEnvelope
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if buf.Len() > 0 {
		_ = json.Unmarshal(buf.Bytes(), &env)
	}
	return resp, env
}

func decodeData(t *testing.T, env apiEnvelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (raw=%s)", err, string(env.Data))
	}
}

func validationFields(t *testing.T, env apiEnvelope) map[string]any {
	t.Helper()
	if env.Error == nil || env.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %+v", env.Error)
	}
	fields, ok := env.Error.Details["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected details.fields, got %#v", env.Error.Details)
	}
	return fields
}

func strPtr(v string) *string { return &v }
