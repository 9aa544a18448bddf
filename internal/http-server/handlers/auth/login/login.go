// Package login реализует HTTP-обработчик входа пользователя.
//
// Неизвестная почта и неверный пароль неразличимы в ответе: оба случая
// дают 401 с одинаковым сообщением.
package login

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
)

// Request — входные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает контракт контроллера сессии для входа.
type Service interface {
	Login(ctx context.Context, email, rawPassword string) (*models.SessionRecord, string, error)
}

// Reporter описывает внешний приёмник бизнес-событий.
type Reporter interface {
	Capture(eventType string, data any)
}

// Handler обрабатывает HTTP-запросы входа.
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
	const op = "handlers.auth.login"

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

	session, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Info("login rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	h.reporter.Capture(events.TypeSignin, map[string]any{
		"email": session.Email,
	})

	log.Info("login success", slog.String("email", session.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":   token,
		"session": session,
	}))
}
