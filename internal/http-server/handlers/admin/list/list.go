// Package list реализует админ-обработчик списка пользователей с вкладками
// all / pending / approved, повторяющими вкладки админ-панели.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/models"
)

// Registry описывает контракт реестра для выборки пользователей.
type Registry interface {
	All() ([]models.UserRecord, error)
	Pending() ([]models.UserRecord, error)
	Approved() ([]models.UserRecord, error)
}

// Handler обрабатывает запросы списка пользователей.
type Handler struct {
	log   *slog.Logger
	users Registry
}

func New(log *slog.Logger, users Registry) *Handler {
	return &Handler{log: log, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var (
		users []models.UserRecord
		err   error
	)
	tab := r.URL.Query().Get("tab")
	switch tab {
	case "pending":
		users, err = h.users.Pending()
	case "approved":
		users, err = h.users.Approved()
	case "", "all":
		users, err = h.users.All()
	default:
		log.Error("unknown tab", slog.String("tab", tab))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown tab"))
		return
	}
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	render.JSON(w, r, response.OKWithData(users))
}
