// Package session реализует HTTP-обработчик чтения активной сессии,
// которым интерфейс инициализируется при загрузке.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/models"
)

// Service описывает контракт контроллера сессии для чтения текущего входа.
type Service interface {
	Current() *models.SessionRecord
}

// Handler обрабатывает запросы текущей сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.session"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	current := h.service.Current()
	if current == nil {
		log.Info("no active session")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no active session"))
		return
	}

	render.JSON(w, r, response.OKWithData(current))
}
