// Package recipestreet собирает приложение: хранилище, реестр, контроллер
// сессии и HTTP-сервер с маршрутами.
package recipestreet

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recipestreet/recipe-street/internal/events"
	adminapprove "github.com/recipestreet/recipe-street/internal/http-server/handlers/admin/approve"
	adminexport "github.com/recipestreet/recipe-street/internal/http-server/handlers/admin/export"
	adminimport "github.com/recipestreet/recipe-street/internal/http-server/handlers/admin/importusers"
	adminlist "github.com/recipestreet/recipe-street/internal/http-server/handlers/admin/list"
	adminremove "github.com/recipestreet/recipe-street/internal/http-server/handlers/admin/remove"
	adminstats "github.com/recipestreet/recipe-street/internal/http-server/handlers/admin/stats"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/auth/emailcheck"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/auth/login"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/auth/logout"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/auth/session"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/auth/signup"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/contact"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/payment/submit"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/subscription/health"
	"github.com/recipestreet/recipe-street/internal/http-server/handlers/subscription/subscribe"
	"github.com/recipestreet/recipe-street/internal/http-server/middlewarectx"
	"github.com/recipestreet/recipe-street/internal/lib/jwt"
	authservice "github.com/recipestreet/recipe-street/internal/services/auth"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Админ-группа работает с реестром напрямую, минуя контроллер сессии,
// и защищена статическим ключом.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	authService *authservice.Service,
	users *registry.Registry,
	jwtMaker jwt.Maker,
	reporter *events.Reporter,
	adminKey string,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/signup", signup.New(logger, authService, reporter).ServeHTTP)
		r.Post("/login", login.New(logger, authService, reporter).ServeHTTP)
		r.Post("/check-email", emailcheck.New(logger, authService).ServeHTTP)
		r.Get("/session", session.New(logger, authService).ServeHTTP)
		r.Post("/logout", logout.New(logger, authService).ServeHTTP)
		r.Post("/contact", contact.New(logger, reporter).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscribe", subscribe.New(logger, authService, reporter).ServeHTTP)
			r.Post("/payment", submit.New(logger, users, reporter).ServeHTTP)
		})

		// Админ-группа, доступ по статическому ключу
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.AdminKeyMiddleware(adminKey, logger))
			r.Get("/users", adminlist.New(logger, users).ServeHTTP)
			r.Get("/users/stats", adminstats.New(logger, users).ServeHTTP)
			r.Post("/users/approve", adminapprove.NewPremium(logger, users).ServeHTTP)
			r.Post("/users/course-approve", adminapprove.NewCourse(logger, users).ServeHTTP)
			r.Delete("/users/{id}", adminremove.New(logger, users).ServeHTTP)
			r.Get("/users/export", adminexport.New(logger, users).ServeHTTP)
			r.Post("/users/import", adminimport.New(logger, users).ServeHTTP)
		})
	})

	r.Get("/health", health.Handler)
	r.Handle("/metrics", promhttp.Handler())
}
