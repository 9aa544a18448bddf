// Package export реализует админ-обработчик выгрузки реестра: полный список
// записей отдается как JSON-файл, имя которого содержит текущую дату.
package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
)

// Registry описывает контракт реестра для выгрузки снимка.
type Registry interface {
	Export() ([]byte, error)
}

// Handler обрабатывает запросы выгрузки реестра.
type Handler struct {
	log   *slog.Logger
	users Registry
}

func New(log *slog.Logger, users Registry) *Handler {
	return &Handler{log: log, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot, err := h.users.Export()
	if err != nil {
		log.Error("failed to export users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export users"))
		return
	}

	filename := fmt.Sprintf("recipe-street-users-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(snapshot); err != nil {
		log.Error("failed to write snapshot", sl.Err(err))
		return
	}

	log.Info("user list exported", slog.String("filename", filename))
}
