package integration

import (
	"fmt"
	"net/http"
	"slices"
	"testing"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
)

func TestRBACRoleGrantSyncIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	root := s.superAdminToken(t)
	ids := s.permissionIDs(t, "view master items", "create master items")

	resp, env := s.do(t, root, http.MethodPost, "/api/v1/roles", map[string]any{
		"name":        "clerk",
		"permissions": ids,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create role: status=%d error=%+v", resp.StatusCode, env.Error)
	}
	var created struct {
		Data domain.Role `json:"data"`
	}
	decodeData(t, env, &created)
	path := fmt.Sprintf("/api/v1/roles/%d", created.Data.ID)

	for i := 0; i < 2; i++ {
		resp, env = s.do(t, root, http.MethodPatch, path, map[string]any{
			"name":        "clerk",
			"permissions": ids,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("sync %d: status=%d error=%+v", i, resp.StatusCode, env.Error)
		}
	}

	var grants int64
	if err := s.db.Table("role_permissions").Where("role_id = ?", created.Data.ID).Count(&grants).Error; err != nil {
		t.Fatalf("count grants: %v", err)
	}
	if grants != 2 {
		t.Fatalf("repeated sync must not duplicate grants, got %d rows", grants)
	}
}

func TestRBACRoleSyncUnknownPermissionChangesNothing(t *testing.T) {
	s := newTestServer(t)
	root := s.superAdminToken(t)
	adminID := s.roleID(t, "admin")

	before := s.grantNames(t, adminID)
	valid := s.permissionIDs(t, "view master items")

	resp, env := s.do(t, root, http.MethodPatch, fmt.Sprintf("/api/v1/roles/%d", adminID), map[string]any{
		"name":        "admin",
		"permissions": append(valid, 99999),
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown permission id, got %d", resp.StatusCode)
	}
	if _, ok := validationFields(t, env)["permissions"]; !ok {
		t.Fatal("expected permissions field error")
	}

	after := s.grantNames(t, adminID)
	if !slices.Equal(before, after) {
		t.Fatalf("failed sync must leave grants untouched: before=%v after=%v", before, after)
	}
}

func TestRBACForbiddenCarriesRequiredPermission(t *testing.T) {
	s := newTestServer(t)
	root := s.superAdminToken(t)
	_, userToken := s.createUserWithRole(t, root, "viewer@example.com", "user")

	resp, _ := s.do(t, userToken, http.MethodGet, "/api/v1/master-items", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user role should list master items, got %d", resp.StatusCode)
	}

	resp, env := s.do(t, userToken, http.MethodPost, "/api/v1/master-items", map[string]any{
		"item_code": "NOPE",
		"item_name": "Denied",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "FORBIDDEN" || env.Error.Details["required"] != "create master items" {
		t.Fatalf("unexpected forbidden body: %+v", env.Error)
	}

	resp, _ = s.do(t, userToken, http.MethodGet, "/api/v1/users", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user role must not list users, got %d", resp.StatusCode)
	}
}

func TestRBACRevocationAppliesOnNextRequest(t *testing.T) {
	s := newTestServer(t)
	root := s.superAdminToken(t)
	_, adminToken := s.createUserWithRole(t, root, "ops@example.com", "admin")

	s.createItem(t, adminToken, map[string]any{"item_code": "REV-1", "item_name": "Allowed"})

	adminID := s.roleID(t, "admin")
	keep := s.permissionIDs(t, "view master items", "view users")
	resp, env := s.do(t, root, http.MethodPatch, fmt.Sprintf("/api/v1/roles/%d", adminID), map[string]any{
		"name":        "admin",
		"permissions": keep,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("narrow admin role: status=%d error=%+v", resp.StatusCode, env.Error)
	}

	resp, _ = s.do(t, adminToken, http.MethodPost, "/api/v1/master-items", map[string]any{
		"item_code": "REV-2",
		"item_name": "Revoked",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("revoked grant must apply to the same token, got %d", resp.StatusCode)
	}
	resp, _ = s.do(t, adminToken, http.MethodGet, "/api/v1/master-items", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("kept grant should still work, got %d", resp.StatusCode)
	}
}

func TestRBACUserRoleSyncAndMe(t *testing.T) {
	s := newTestServer(t)
	root := s.superAdminToken(t)
	userID, token := s.createUserWithRole(t, root, "member@example.com", "user")

	adminRole := s.roleID(t, "admin")
	resp, env := s.do(t, root, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", userID), map[string]any{
		"name":  "member",
		"email": "member@example.com",
		"roles": []uint{adminRole},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync user roles: status=%d error=%+v", resp.StatusCode, env.Error)
	}

	resp, env = s.do(t, token, http.MethodGet, "/api/v1/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status=%d", resp.StatusCode)
	}
	var me struct {
		Roles       []domain.Role `json:"roles"`
		Permissions []string      `json:"permissions"`
	}
	decodeData(t, env, &me)
	if len(me.Roles) != 1 || me.Roles[0].Name != "admin" {
		t.Fatalf("roles should be replaced by admin, got %+v", me.Roles)
	}
	if !slices.Contains(me.Permissions, "create users") || slices.Contains(me.Permissions, "delete users") {
		t.Fatalf("unexpected effective permissions: %v", me.Permissions)
	}

	resp, env = s.do(t, root, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", userID), map[string]any{
		"name":  "member",
		"email": "member@example.com",
		"roles": []uint{adminRole, 424242},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown role id, got %d", resp.StatusCode)
	}
	if _, ok := validationFields(t, env)["roles"]; !ok {
		t.Fatal("expected roles field error")
	}
}

func (s *testServer) grantNames(t *testing.T, roleID uint) []string {
	t.Helper()
	var names []string
	err := s.db.Table("permissions").
		Select("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	if err != nil {
		t.Fatalf("load grants: %v", err)
	}
	return names
}
