// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// После успешной регистрации вход выполняется автоматически: в ответе
// возвращаются сессия и JWT. Занятая почта отклоняется с указанием
// выполнить вход вместо регистрации.
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/recipestreet/recipe-street/internal/events"
	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/models"
	"github.com/recipestreet/recipe-street/internal/services/auth"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

// Request — входные данные для регистрации.
type Request struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает контракт контроллера сессии для регистрации.
type Service interface {
	Signup(ctx context.Context, email, rawPassword, name string) (*models.SessionRecord, string, error)
}

// Reporter описывает внешний приёмник бизнес-событий.
type Reporter interface {
	Capture(eventType string, data any)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	reporter Reporter
	validate *validator.Validate
}

// New создает Handler с указанными логгером, сервисом и приёмником событий.
func New(log *slog.Logger, service Service, reporter Reporter) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		reporter: reporter,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, token, err := h.service.Signup(r.Context(), req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, registry.ErrEmailTaken):
		log.Info("email already registered", slog.String("email", req.Email))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("email already registered, please sign in"))
		return
	case errors.Is(err, auth.ErrMissingFields):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email, password and name are required"))
		return
	case err != nil:
		log.Error("signup failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to sign up"))
		return
	}

	h.reporter.Capture(events.TypeSignup, map[string]any{
		"email": session.Email,
		"name":  session.Name,
	})

	log.Info("signup success", slog.String("email", session.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":   token,
		"session": session,
	}))
}
