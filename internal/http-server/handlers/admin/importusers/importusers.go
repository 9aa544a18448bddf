// Package importusers реализует админ-обработчик восстановления реестра из
// снимка. Снимок применяется целиком или не применяется вовсе: некорректный
// файл не может испортить текущий список.
package importusers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

// снимки больше этого размера отклоняются до разбора
const maxSnapshotBytes = 16 << 20

// Registry описывает контракт реестра для восстановления из снимка.
type Registry interface {
	Import(snapshot []byte) error
}

// Handler обрабатывает запросы восстановления реестра.
type Handler struct {
	log   *slog.Logger
	users Registry
}

func New(log *slog.Logger, users Registry) *Handler {
	return &Handler{log: log, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.importusers"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read snapshot"))
		return
	}

	err = h.users.Import(snapshot)
	switch {
	case errors.Is(err, registry.ErrInvalidSnapshot):
		log.Info("snapshot rejected")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("snapshot must be a JSON array of users"))
		return
	case err != nil:
		log.Error("failed to import users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to import users"))
		return
	}

	log.Info("user list imported")
	render.JSON(w, r, response.OK())
}
