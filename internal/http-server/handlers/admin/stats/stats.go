// Package stats реализует админ-обработчик агрегированной статистики реестра.
package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/models"
)

// Registry описывает контракт реестра для подсчёта статистики.
type Registry interface {
	Stats() (*models.UserStats, error)
}

// Handler обрабатывает запросы статистики.
type Handler struct {
	log   *slog.Logger
	users Registry
}

func New(log *slog.Logger, users Registry) *Handler {
	return &Handler{log: log, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userStats, err := h.users.Stats()
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to compute stats"))
		return
	}

	render.JSON(w, r, response.OKWithData(userStats))
}
