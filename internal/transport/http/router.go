package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/btggithub/DAM/internal/domain"
	obsmw "github.com/btggithub/DAM/internal/observability/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the full route tree with the shared middleware stack.
func (h *Handler) Router(corsOrigins string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	origins := strings.Split(corsOrigins, ",")
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(origins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(obsmw.WithRequestAndTrace)
	r.Use(obsmw.WithMetrics)

	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		// Credential-guessing endpoints get a tight per-IP budget.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(10, 1*time.Minute))
			r.Post("/login", h.login)
			r.Post("/forgot-password", h.forgotPassword)
		})

		r.With(h.OptionalAuth).Post("/register", h.register)
		r.Post("/reset-password/{secret}", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/me", h.me)
			r.Put("/update-profile", h.updateProfile)
			r.Post("/change-password", h.changePassword)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(domain.RoleAdmin))
				r.Get("/users", h.listUsers)
				r.Put("/users/role", h.updateUserRole)
			})
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Route("/providers", func(r chi.Router) {
			r.Post("/", h.createProvider)
			r.Get("/", h.listProviders)
			r.Get("/{id}", h.getProvider)
			r.Put("/{id}", h.updateProvider)
			r.Delete("/{id}", h.deleteProvider)
			r.Get("/{id}/domains", h.listProviderDomains)
			r.Get("/{id}/websites", h.listProviderWebsites)
		})

		r.Route("/domains", func(r chi.Router) {
			r.Post("/", h.createDomain)
			r.Get("/", h.listDomains)
			r.Get("/{id}", h.getDomain)
			r.Put("/{id}", h.updateDomain)
			r.Delete("/{id}", h.deleteDomain)
		})

		r.Route("/websites", func(r chi.Router) {
			r.Post("/", h.createWebsite)
			r.Get("/", h.listWebsites)
			r.Get("/{id}", h.getWebsite)
			r.Put("/{id}", h.updateWebsite)
			r.Delete("/{id}", h.deleteWebsite)
		})

		r.Get("/stats", h.stats)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(domain.RoleAdmin))
				r.Post("/check-domains", h.checkDomains)
				r.Post("/check-providers", h.checkProviders)
			})
		})
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeMessage(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func originsIfSet(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
