package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/http/middleware"
	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

const userEntity = "user"

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me returns the caller with their roles and effective permission names.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	u, perms, err := h.userSvc.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrUserNotFound, userEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, struct {
		*domain.User
		Permissions []string `json:"permissions"`
	}{User: u, Permissions: perms})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := listParams(r, service.UsersResource)
	idx, err := h.userSvc.List(r.Context(), params)
	recordList(r, service.UsersResource.Name, err, idx.Request.PerPage, start)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list users", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listEnvelope(r, idx, params))
}

func (h *UserHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.userSvc.CreateForm(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load roles", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, form)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body service.CreateUserInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	u, err := h.userSvc.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, nil, userEntity, "create")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.created",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "user",
		TargetID:    formatID(u.ID),
		Action:      "create",
		Outcome:     "success",
		Reason:      "user_created",
	}, "role_ids", u.RoleIDs())
	response.JSON(w, r, http.StatusCreated, mutationResult{Message: "User created successfully.", Data: u})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, userEntity)
		return
	}
	u, err := h.userSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrUserNotFound, userEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"user": u})
}

func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, userEntity)
		return
	}
	form, err := h.userSvc.EditForm(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrUserNotFound, userEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, form)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, userEntity)
		return
	}
	var body service.UpdateUserInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	u, err := h.userSvc.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrUserNotFound, userEntity, "update")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.roles.synced",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "user",
		TargetID:    formatID(id),
		Action:      "update",
		Outcome:     "success",
		Reason:      "user_updated",
	}, "role_ids", u.RoleIDs(), "password_changed", body.Password != "")
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "User updated successfully.", Data: u})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, userEntity)
		return
	}
	if err := h.userSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, repository.ErrUserNotFound, userEntity, "delete")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.deleted",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "user",
		TargetID:    formatID(id),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "user_deleted",
	})
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "User deleted successfully."})
}
