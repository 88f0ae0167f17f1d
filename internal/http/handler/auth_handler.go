package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/security"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

type AuthHandler struct {
	authSvc   service.AuthService
	cookieMgr *security.CookieManager
	accessTTL time.Duration
}

func NewAuthHandler(authSvc service.AuthService, cookieMgr *security.CookieManager, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookieMgr: cookieMgr, accessTTL: accessTTL}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body service.LoginInput
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidPayload(w, r, err)
		return
	}
	result, err := h.authSvc.Login(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			observability.EmitAudit(r, observability.AuditInput{
				EventName:  "auth.login.failed",
				TargetType: "user",
				Action:     "login",
				Outcome:    "failure",
				Reason:     "invalid_credentials",
			})
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", nil)
		default:
			writeServiceError(w, r, err, nil, "session", "create")
		}
		return
	}

	csrf, err := security.NewCSRFToken()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create session", nil)
		return
	}
	h.cookieMgr.SetAccessToken(w, result.AccessToken, h.accessTTL)
	h.cookieMgr.SetCSRFToken(w, csrf, h.accessTTL)
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.login.succeeded",
		ActorUserID: formatID(result.User.ID),
		TargetType:  "user",
		TargetID:    formatID(result.User.ID),
		Action:      "login",
		Outcome:     "success",
		Reason:      "password_verified",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{
		"user":         result.User,
		"permissions":  result.Permissions,
		"access_token": result.AccessToken,
		"expires_at":   result.ExpiresAt,
		"csrf_token":   csrf,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookieMgr.ClearAccessToken(w)
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.logout",
		ActorUserID: actorIDFromRequest(r),
		TargetType:  "user",
		TargetID:    actorIDFromRequest(r),
		Action:      "logout",
		Outcome:     "success",
		Reason:      "user_logout",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"logged_out": true})
}
