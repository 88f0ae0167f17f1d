package handler

import (
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/service"
	servicegomock "github.com/sandeepkv93/master-items-admin/internal/service/gomock"
)

func TestPermissionCreateAndShow(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockPermissionService(ctrl)
	svc.EXPECT().Create(gomock.Any(), service.PermissionInput{Name: "export master items"}).
		Return(&domain.Permission{ID: 17, Name: "export master items"}, nil)
	svc.EXPECT().Get(gomock.Any(), uint(17)).Return(&domain.Permission{ID: 17, Name: "export master items"}, nil)
	h := resourceRouter(NewPermissionHandler(svc))

	rr, env := doRequest(t, h, http.MethodPost, "/", `{"name":"export master items"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rr.Code, rr.Body.String())
	}
	var created mutationResult
	decodeData(t, env, &created)
	if created.Message != "Permission created successfully." {
		t.Fatalf("unexpected message %q", created.Message)
	}

	rr, env = doRequest(t, h, http.MethodGet, "/17", "")
	var shown struct {
		Permission domain.Permission `json:"permission"`
	}
	decodeData(t, env, &shown)
	if rr.Code != http.StatusOK || shown.Permission.Name != "export master items" {
		t.Fatalf("unexpected show response: %d %s", rr.Code, env.Data)
	}
}

func TestPermissionUpdateErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockPermissionService(ctrl)
	svc.EXPECT().Update(gomock.Any(), uint(1), gomock.Any()).
		Return(nil, &service.ValidationError{Fields: map[string]string{"name": "The name has already been taken."}})
	svc.EXPECT().Update(gomock.Any(), uint(2), gomock.Any()).Return(nil, repository.ErrPermissionNotFound)
	h := resourceRouter(NewPermissionHandler(svc))

	rr, _ := doRequest(t, h, http.MethodPatch, "/1", `{"name":"view users"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	rr, _ = doRequest(t, h, http.MethodPatch, "/2", `{"name":"x"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	rr, _ = doRequest(t, h, http.MethodPatch, "/0", `{"name":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero id, got %d", rr.Code)
	}
}
