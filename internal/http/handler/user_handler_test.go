package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/http/middleware"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/security"
	"github.com/sandeepkv93/master-items-admin/internal/service"
	servicegomock "github.com/sandeepkv93/master-items-admin/internal/service/gomock"
)

func withClaims(h http.HandlerFunc, userID uint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.ClaimsContextKey, &security.Claims{UserID: userID})
		h(w, r.WithContext(ctx))
	})
}

func TestUserMeReturnsPermissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockUserService(ctrl)
	svc.EXPECT().Profile(gomock.Any(), uint(42)).Return(
		&domain.User{ID: 42, Name: "Ada", Email: "ada@example.com", PasswordHash: "secret-hash"},
		[]string{"view master items"},
		nil,
	)

	rr, env := doRequest(t, withClaims(NewUserHandler(svc).Me, 42), http.MethodGet, "/api/v1/me", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	decodeData(t, env, &body)
	if body["email"] != "ada@example.com" {
		t.Fatalf("expected flattened user, got %s", env.Data)
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Fatal("password hash must never be serialized")
	}
	perms, _ := body["permissions"].([]any)
	if len(perms) != 1 || perms[0] != "view master items" {
		t.Fatalf("unexpected permissions: %v", body["permissions"])
	}
}

func TestUserMeWithoutClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockUserService(ctrl)
	rr := httptest.NewRecorder()
	NewUserHandler(svc).Me(rr, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUserListSearchEcho(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockUserService(ctrl)
	svc.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params listing.Params) (service.Index[domain.User], error) {
			if params.Search != "ada" {
				t.Fatalf("expected search to reach service, got %q", params.Search)
			}
			return indexFor[domain.User](params, service.UsersResource, nil, 0), nil
		})

	rr, env := doRequest(t, resourceRouter(NewUserHandler(svc)), http.MethodGet, "/?search=ada", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Data    []domain.User     `json:"data"`
		Meta    listing.Meta      `json:"meta"`
		Filters map[string]string `json:"filters"`
	}
	decodeData(t, env, &body)
	if body.Data == nil || len(body.Data) != 0 {
		t.Fatalf("expected empty data array, got %s", env.Data)
	}
	if body.Meta.From != nil || body.Meta.To != nil || body.Meta.LastPage != 1 {
		t.Fatalf("unexpected empty meta: %+v", body.Meta)
	}
	if body.Filters["search"] != "ada" {
		t.Fatalf("expected search echo, got %+v", body.Filters)
	}
}

func TestUserCreateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockUserService(ctrl)
	svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, &service.ValidationError{Fields: map[string]string{
		"email":    "The email has already been taken.",
		"password": "The password confirmation does not match.",
	}})

	rr, env := doRequest(t, resourceRouter(NewUserHandler(svc)), http.MethodPost, "/", `{"name":"A","email":"a@b.c","password":"x"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if fields := fieldErrors(t, env); len(fields) != 2 {
		t.Fatalf("expected two field errors, got %+v", fields)
	}
}

func TestUserEditFormAndUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockUserService(ctrl)
	svc.EXPECT().EditForm(gomock.Any(), uint(3)).Return(service.UserEditForm{
		User:      &domain.User{ID: 3, Name: "Bob"},
		Roles:     []domain.Role{{ID: 1, Name: "admin"}, {ID: 2, Name: "user"}},
		UserRoles: []uint{2},
	}, nil)
	svc.EXPECT().Update(gomock.Any(), uint(3), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uint, in service.UpdateUserInput) (*domain.User, error) {
			if len(in.Roles) != 1 || in.Roles[0] != 1 || in.Password != "" {
				t.Fatalf("unexpected update input: %+v", in)
			}
			return &domain.User{ID: 3, Name: in.Name, Roles: []domain.Role{{ID: 1}}}, nil
		})
	h := resourceRouter(NewUserHandler(svc))

	_, env := doRequest(t, h, http.MethodGet, "/3/edit", "")
	var form service.UserEditForm
	decodeData(t, env, &form)
	if form.User == nil || len(form.Roles) != 2 || len(form.UserRoles) != 1 {
		t.Fatalf("unexpected edit form %s", env.Data)
	}

	rr, env := doRequest(t, h, http.MethodPatch, "/3", `{"name":"Bob","email":"bob@example.com","roles":[1]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	var res mutationResult
	decodeData(t, env, &res)
	if res.Message != "User updated successfully." {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestUserGetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockUserService(ctrl)
	svc.EXPECT().Get(gomock.Any(), uint(9)).Return(nil, repository.ErrUserNotFound)
	rr, _ := doRequest(t, resourceRouter(NewUserHandler(svc)), http.MethodGet, "/9", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
