// Package contact реализует HTTP-обработчик формы обратной связи:
// сообщение уходит во внешний приёмник событий, в реестре ничего не меняется.
package contact

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/recipestreet/recipe-street/internal/events"
	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
)

// Request — данные формы обратной связи.
type Request struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=2000"`
}

// Reporter описывает внешний приёмник бизнес-событий.
type Reporter interface {
	Capture(eventType string, data any)
}

// Handler обрабатывает запросы формы обратной связи.
type Handler struct {
	log      *slog.Logger
	reporter Reporter
	validate *validator.Validate
}

func New(log *slog.Logger, reporter Reporter) *Handler {
	return &Handler{
		log:      log,
		reporter: reporter,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact"

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

	h.reporter.Capture(events.TypeContact, map[string]any{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	})

	log.Info("contact form accepted", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
