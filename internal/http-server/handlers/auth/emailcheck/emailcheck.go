// Package emailcheck реализует HTTP-обработчик предварительной проверки почты.
//
// Форма регистрации спрашивает до отправки, занята ли почта, и при занятой
// предлагает вход вместо регистрации.
package emailcheck

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
)

// Request — почта для проверки.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает контракт контроллера сессии для проверки почты.
type Service interface {
	IsEmailRegistered(email string) bool
}

// Handler обрабатывает запросы проверки почты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.emailcheck"

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

	registered := h.service.IsEmailRegistered(req.Email)
	log.Info("email checked", slog.Bool("registered", registered))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"registered": registered,
	}))
}
