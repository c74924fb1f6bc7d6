// Package rest is the HTTP boundary of coursehub: a chi router, the auth guard
// middleware, JSON handlers and the mapping from domain errors to responses.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/logging"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type TokenVerifier interface {
	Verify(token string, kind models.Kind) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, kind models.Kind, in services.SignupInput) (*models.Principal, error)
	Signin(ctx context.Context, kind models.Kind, in services.SigninInput) (string, error)
}

type CourseService interface {
	Create(ctx context.Context, creatorID string, in services.CourseInput) (*models.Course, error)
	Update(ctx context.Context, courseID, creatorID string, in services.CourseInput) (*models.Course, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error)
	ListAll(ctx context.Context) ([]models.Course, error)
	PresignImageUpload(ctx context.Context, creatorID string) (string, string, error)
}

type PurchaseService interface {
	Purchase(ctx context.Context, userID, courseID string) (*models.PurchaseDetails, error)
	ListPurchases(ctx context.Context, userID string) ([]models.PurchaseDetails, error)
}

type HTTPServer struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	metrics         *Metrics
	tokens          TokenVerifier
	auth            AuthService
	courses         CourseService
	purchases       PurchaseService
	router          chi.Router
}

func NewHTTPServer(address string, shutdownTimeout time.Duration, l logging.Logger, m *Metrics,
	tokens TokenVerifier, as AuthService, cs CourseService, ps PurchaseService) *HTTPServer {
	s := &HTTPServer{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		metrics:         m,
		tokens:          tokens,
		auth:            as,
		courses:         cs,
		purchases:       ps,
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(s.metrics.Middleware)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", s.handleSignup(models.KindUser))
			r.Post("/signin", s.handleSignin(models.KindUser))
			r.With(s.requireKind(models.KindUser)).Get("/purchases", s.handleListPurchases)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/signup", s.handleSignup(models.KindAdmin))
			r.Post("/signin", s.handleSignin(models.KindAdmin))

			r.Group(func(r chi.Router) {
				r.Use(s.requireKind(models.KindAdmin))
				r.Post("/course", s.handleCreateCourse)
				r.Put("/course/{courseId}", s.handleUpdateCourse)
				r.Get("/course/bulk", s.handleListOwnCourses)
				r.Post("/course/image", s.handlePresignImage)
			})
		})

		r.Route("/course", func(r chi.Router) {
			r.With(s.requireKind(models.KindUser)).Post("/purchase/{courseId}", s.handlePurchase)
			r.Get("/preview", s.handlePreview)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, messageBody{Message: "Not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
