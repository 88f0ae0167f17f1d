package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/health"
	"github.com/sandeepkv93/master-items-admin/internal/http/handler"
	"github.com/sandeepkv93/master-items-admin/internal/http/middleware"
	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

type Dependencies struct {
	AuthHandler            *handler.AuthHandler
	UserHandler            *handler.UserHandler
	RoleHandler            *handler.RoleHandler
	PermissionHandler      *handler.PermissionHandler
	MasterItemHandler      *handler.MasterItemHandler
	UserPreferenceHandler  *handler.UserPreferenceHandler
	TokenParser            middleware.TokenParser
	RBACService            service.RBACAuthorizer
	PermissionResolver     service.PermissionResolver
	CORSOrigins            []string
	AuthRateLimitRPM       int
	APIRateLimitRPM        int
	GlobalRateLimiter      GlobalRateLimiterFunc
	AuthRateLimiter        AuthRateLimiterFunc
	Readiness              *health.ProbeRunner
	EnableOTelHTTP         bool
	UserPreferencesEnabled bool
}

type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

// resourceHandler is the controller shape shared by every CRUD resource.
type resourceHandler interface {
	List(http.ResponseWriter, *http.Request)
	CreateForm(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	EditForm(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	gate := func(verb, resource string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(dep.RBACService, dep.PermissionResolver, domain.PermissionName(verb, resource))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(middleware.AuthMiddleware(dep.TokenParser), middleware.CSRFMiddleware).Post("/logout", dep.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(dep.TokenParser))
			r.Use(middleware.CSRFMiddleware)

			r.Get("/me", dep.UserHandler.Me)

			mountResource(r, "/master-items", domain.ResourceMasterItems, dep.MasterItemHandler, gate)
			mountResource(r, "/users", domain.ResourceUsers, dep.UserHandler, gate)
			mountResource(r, "/roles", domain.ResourceRoles, dep.RoleHandler, gate)
			mountResource(r, "/permissions", domain.ResourcePermissions, dep.PermissionHandler, gate)

			if dep.UserPreferencesEnabled && dep.UserPreferenceHandler != nil {
				r.Post("/user-preferences", dep.UserPreferenceHandler.Save)
				r.Get("/user-preferences", dep.UserPreferenceHandler.Show)
			}
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}

// mountResource registers the seven CRUD routes of one resource, each gated
// by "<verb> <resource>".
func mountResource(r chi.Router, pattern, resource string, h resourceHandler, gate func(verb, resource string) func(http.Handler) http.Handler) {
	r.Route(pattern, func(r chi.Router) {
		r.With(gate(domain.VerbView, resource)).Get("/", h.List)
		r.With(gate(domain.VerbCreate, resource)).Get("/create", h.CreateForm)
		r.With(gate(domain.VerbCreate, resource)).Post("/", h.Create)
		r.With(gate(domain.VerbView, resource)).Get("/{id}", h.Get)
		r.With(gate(domain.VerbEdit, resource)).Get("/{id}/edit", h.EditForm)
		r.With(gate(domain.VerbEdit, resource)).Patch("/{id}", h.Update)
		r.With(gate(domain.VerbDelete, resource)).Delete("/{id}", h.Delete)
	})
}
