package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

const roleEntity = "role"

type RoleHandler struct {
	svc service.RoleService
}

func NewRoleHandler(svc service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := listParams(r, service.RolesResource)
	idx, err := h.svc.List(r.Context(), params)
	recordList(r, service.RolesResource.Name, err, idx.Request.PerPage, start)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list roles", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listEnvelope(r, idx, params))
}

func (h *RoleHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.CreateForm(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load permissions", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, form)
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body service.RoleInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	role, err := h.svc.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, nil, roleEntity, "create")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "role.created",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "role",
		TargetID:    formatID(role.ID),
		Action:      "create",
		Outcome:     "success",
		Reason:      "role_created",
	}, "role_name", role.Name, "permission_ids", role.PermissionIDs())
	response.JSON(w, r, http.StatusCreated, mutationResult{Message: "Role created successfully.", Data: role})
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, roleEntity)
		return
	}
	role, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrRoleNotFound, roleEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"role": role})
}

func (h *RoleHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, roleEntity)
		return
	}
	form, err := h.svc.EditForm(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrRoleNotFound, roleEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, form)
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, roleEntity)
		return
	}
	var body service.RoleInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	role, err := h.svc.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrRoleNotFound, roleEntity, "update")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "role.permissions.synced",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "role",
		TargetID:    formatID(id),
		Action:      "update",
		Outcome:     "success",
		Reason:      "role_updated",
	}, "role_name", role.Name, "permission_ids", role.PermissionIDs())
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Role updated successfully.", Data: role})
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, roleEntity)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, repository.ErrRoleNotFound, roleEntity, "delete")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "role.deleted",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "role",
		TargetID:    formatID(id),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "role_deleted",
	})
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Role deleted successfully."})
}
