package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otp-auth-api/internal/application/auth"
	"github.com/otp-auth-api/internal/application/user"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/transport/http/handler"
)

// Services holds the application services the router exposes. Tokens is
// optional.
type Services struct {
	Auth   auth.Service
	Users  user.Service
	Tokens handler.TokenIssuer
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(svcs.Auth, cfg.OTPChannel, svcs.Tokens)
	userH := handler.NewUserHandler(svcs.Users)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/verify-otp", authH.VerifyRegistration)
			r.Post("/login", authH.Login)
			r.Post("/login/verify", authH.CompleteLogin)

			r.Get("/users", userH.List)
			r.Post("/users", userH.GetByBody)
			r.Get("/users/{id}", userH.Get)
		})
	})

	return r
}
