package api

import (
	"net/http"

	"github.com/Goofygiraffe06/portal/internal/mailer"
	"github.com/Goofygiraffe06/portal/internal/manager"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/store"
	"github.com/Goofygiraffe06/portal/store/ephemeral"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the routes need. Mail may be nil.
type Deps struct {
	Users        *store.SQLiteStore
	Attempts     *ephemeral.AttemptLimiter
	Work         *manager.WorkManager
	Mail         *mailer.Mailer
	AllowOrigins []string
	MaxBodyBytes int64
}

// NewRouter mounts the auth API under /api/auth plus /health.
func NewRouter(d Deps) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
	})

	router.Route("/api/auth", func(r chi.Router) {
		if d.MaxBodyBytes > 0 {
			r.Use(maxBody(d.MaxBodyBytes))
		}
		r.Post("/login", LoginHandler(d.Users, d.Attempts, d.Work))
		r.Post("/register", RegisterHandler(d.Users, d.Work))
		r.Post("/reset-password", ResetPasswordHandler(d.Users, d.Work, d.Mail))
	})

	return router
}

func maxBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
