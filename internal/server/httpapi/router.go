// Package httpapi exposes the backend over REST: account endpoints, a
// bearer-protected notes resource, a health check and Prometheus metrics.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/dmitrijs2005/mobilecore/internal/server/auth"
	"github.com/dmitrijs2005/mobilecore/internal/server/models"
	"github.com/dmitrijs2005/mobilecore/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Authenticate(token string) (*auth.Claims, error)
}

type NoteService interface {
	Create(ctx context.Context, userID, title, body string) (*models.Note, error)
	List(ctx context.Context, userID string) ([]models.Note, error)
}

// Handler holds the dependencies of the REST handlers.
type Handler struct {
	users    UserService
	notes    NoteService
	logger   logging.Logger
	validate *validator.Validate
}

func NewHandler(us UserService, ns NoteService, l logging.Logger) *Handler {
	return &Handler{
		users:    us,
		notes:    ns,
		logger:   logging.OrNop(l).With("module", "httpapi"),
		validate: validator.New(),
	}
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Logging(h.logger))
	r.Use(Metrics())
	r.Use(middleware.Timeout(30 * time.Second))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.users.Authenticate))

			r.Get("/auth/me", h.Me)
			r.Get("/notes", h.ListNotes)
			r.Post("/notes", h.CreateNote)
		})
	})

	return r
}
