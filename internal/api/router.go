package api

import (
	"net/http"
	"time"

	"sqltester/internal/api/handler"
	"sqltester/internal/api/middleware"
	"sqltester/internal/app/service"
	"sqltester/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	assignmentService *service.AssignmentService,
	gradingService *service.GradingService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// JWT Auth Middleware Setup
	// Verifies a token found in "Authorization: Bearer T" and puts the
	// claims in context; Authenticator below decides whether they count.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Everything else requires a session. Students and admins share
		// the assignment routes; the handlers and AdminOnly groups sort
		// out who sees what.
		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)

			assignmentHandler := handler.NewAssignmentHandler(assignmentService)
			gradeHandler := handler.NewGradeHandler(gradingService)

			protected.Route("/assignments", func(ar chi.Router) {
				assignmentHandler.RegisterRoutes(ar)
				gradeHandler.RegisterAssignmentRoutes(ar)
			})
			protected.Route("/grades", gradeHandler.RegisterGradeRoutes)
		})
	})

	return r
}
