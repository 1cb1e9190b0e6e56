package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/memberbase/member-registry/internal/health"
	"github.com/memberbase/member-registry/internal/http/handler"
	"github.com/memberbase/member-registry/internal/http/middleware"
	"github.com/memberbase/member-registry/internal/http/response"
	"github.com/memberbase/member-registry/internal/session"
)

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	MemberHandler    *handler.MemberHandler
	VerifyHandler    *handler.VerifyHandler
	Sessions         *session.Manager
	CORSOrigins      []string
	AuthRateLimitRPM int
	APIRateLimitRPM  int
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool
}

// NewRouter wires the HTTP surface. Everything under /api sits behind the
// session guard except register, login, logout, and the health probes.
func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())

	authLimiter := middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	guard := middleware.SessionAuth(dep.Sessions)

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

	r.Route("/api", func(r chi.Router) {
		r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
		r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
		r.Post("/logout", dep.AuthHandler.Logout)
		r.With(guard).Get("/user", dep.AuthHandler.Me)

		r.With(guard).Post("/verify-ssn", dep.VerifyHandler.VerifySSN)

		r.Route("/members", func(r chi.Router) {
			r.Use(guard)
			r.Get("/", dep.MemberHandler.List)
			r.Get("/filter/verified", dep.MemberHandler.FilterByVerified)
			r.Get("/{id}", dep.MemberHandler.GetByID)
			r.Post("/", dep.MemberHandler.Create)
			r.Patch("/{id}", dep.MemberHandler.Update)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
