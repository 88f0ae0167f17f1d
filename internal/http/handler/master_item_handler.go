package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/listing"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/repository"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

const masterItemEntity = "master item"

type MasterItemHandler struct {
	svc service.MasterItemService
}

func NewMasterItemHandler(svc service.MasterItemService) *MasterItemHandler {
	return &MasterItemHandler{svc: svc}
}

type masterItemIndexResponse struct {
	listing.Envelope[domain.MasterItem]
	Categories []string `json:"categories"`
	Buyers     []string `json:"buyers"`
}

func (h *MasterItemHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := listParams(r, service.MasterItemsResource)
	idx, err := h.svc.List(r.Context(), params)
	recordList(r, service.MasterItemsResource.Name, err, idx.Request.PerPage, start)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list master items", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, masterItemIndexResponse{
		Envelope:   listEnvelope(r, idx.Index, params),
		Categories: idx.Categories,
		Buyers:     idx.Buyers,
	})
}

// CreateForm has nothing to prefill; it exists so the create screen is gated
// like every other resource form.
func (h *MasterItemHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]any{})
}

func (h *MasterItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body service.MasterItemInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	item, err := h.svc.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, nil, masterItemEntity, "create")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "master_item.created",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "master_item",
		TargetID:    formatID(item.ID),
		Action:      "create",
		Outcome:     "success",
		Reason:      "master_item_created",
	}, "item_code", item.ItemCode)
	response.JSON(w, r, http.StatusCreated, mutationResult{Message: "Master item created successfully.", Data: item})
}

func (h *MasterItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "masterItem")
}

func (h *MasterItemHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "masterItem")
}

func (h *MasterItemHandler) show(w http.ResponseWriter, r *http.Request, key string) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, masterItemEntity)
		return
	}
	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrMasterItemNotFound, masterItemEntity, "load")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{key: item})
}

func (h *MasterItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, masterItemEntity)
		return
	}
	var body service.MasterItemInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	item, err := h.svc.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err, repository.ErrMasterItemNotFound, masterItemEntity, "update")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "master_item.updated",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "master_item",
		TargetID:    formatID(id),
		Action:      "update",
		Outcome:     "success",
		Reason:      "master_item_updated",
	}, "item_code", item.ItemCode)
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Master item updated successfully.", Data: item})
}

func (h *MasterItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeInvalidID(w, r, masterItemEntity)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, repository.ErrMasterItemNotFound, masterItemEntity, "delete")
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "master_item.deleted",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "master_item",
		TargetID:    formatID(id),
		Action:      "delete",
		Outcome:     "success",
		Reason:      "master_item_soft_deleted",
	})
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Master item deleted successfully."})
}
