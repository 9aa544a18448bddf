// Package remove реализует админ-обработчик удаления записи пользователя.
package remove

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
)

// Registry описывает контракт реестра для удаления записей.
type Registry interface {
	Delete(id string) (bool, error)
}

// Handler обрабатывает запросы удаления пользователя.
type Handler struct {
	log   *slog.Logger
	users Registry
}

func New(log *slog.Logger, users Registry) *Handler {
	return &Handler{log: log, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user id is required"))
		return
	}

	removed, err := h.users.Delete(id)
	if err != nil {
		log.Error("failed to delete user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete user"))
		return
	}
	if !removed {
		log.Info("user not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	log.Info("user deleted", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
