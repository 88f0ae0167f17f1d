package handler

import (
	"net/http"

	"github.com/sandeepkv93/master-items-admin/internal/http/middleware"
	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

// UserPreferenceHandler stores per-page UI settings for the caller. Its
// routes are only mounted when USER_PREFERENCES_ENABLED is set.
type UserPreferenceHandler struct {
	svc service.UserPreferenceService
}

func NewUserPreferenceHandler(svc service.UserPreferenceService) *UserPreferenceHandler {
	return &UserPreferenceHandler{svc: svc}
}

func (h *UserPreferenceHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var body service.UserPreferenceInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	pref, err := h.svc.Save(r.Context(), claims.UserID, body)
	if err != nil {
		writeServiceError(w, r, err, nil, "preference", "save")
		return
	}
	response.JSON(w, r, http.StatusOK, mutationResult{Message: "Preferences saved successfully.", Data: pref})
}

func (h *UserPreferenceHandler) Show(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	q := r.URL.Query()
	pref, err := h.svc.Find(r.Context(), claims.UserID, service.UserPreferenceKey{
		PreferenceType: q.Get("preference_type"),
		Page:           q.Get("page"),
	})
	if err != nil {
		writeServiceError(w, r, err, nil, "preference", "load")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"preferences": pref})
}
