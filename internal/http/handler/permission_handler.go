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

const permissionEntity = "permission"

type PermissionHandler struct {
	svc service.PermissionService
}

func NewPermissionHandler(svc service.PermissionService) *PermissionHandler {
	return &PermissionHandler{svc: svc}
}

func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := listParams(r, service.PermissionsResource)
	idx, err := h.svc.List(r.Context(), params)
	recordList(r, service.PermissionsResource.Name, err, idx.Request.PerPage, start)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list permissions", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listEnvelope(r, idx, params))
}

func (h *PermissionHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]any{})
}

func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body service.PermissionInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	perm, err := h.svc.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, nil, permissionEntity, "create")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "permission.created",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "permission",
		TargetID:    formatID(perm.ID),
		Action:      "create",
		Outcome:     "success",
		Reason:      "permission_created",
	}, "permission_name", perm.Name)
	response.JSON(w, r, http.StatusCreated, mutationResult{Message: "Permission created successfully.", Data: perm})
}

func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.show(w, r)
}

func (h *PermissionHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	h.show(w, r)
}

func (h *PermissionHandler) show(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, permissionEntity)
		return
	}
	perm, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrPermissionNotFound, permissionEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"permission": perm})
}

func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, permissionEntity)
		return
	}
	var body service.PermissionInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	perm, err := h.svc.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrPermissionNotFound, permissionEntity, "update")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "permission.updated",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "permission",
		TargetID:    formatID(id),
		Action:      "update",
		Outcome:     "success",
		Reason:      "permission_updated",
	}, "permission_name", perm.Name)
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Permission updated successfully.", Data: perm})
}

func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, permissionEntity)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, repository.ErrPermissionNotFound, permissionEntity, "delete")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "permission.deleted",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "permission",
		TargetID:    formatID(id),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "permission_deleted",
	})
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Permission deleted successfully."})
}
