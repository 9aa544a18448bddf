// Package subscribe реализует HTTP-обработчик оформления подписки.
//
// Подписка доступна только при активной сессии: учетная запись без пароля
// как побочный эффект оформления не создается.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/events"
	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/models"
	"github.com/recipestreet/recipe-street/internal/services/auth"
)

// Service описывает контракт контроллера сессии для оформления подписки.
type Service interface {
	Subscribe(ctx context.Context) (*models.SessionRecord, error)
}

// Reporter описывает внешний приёмник бизнес-событий.
type Reporter interface {
	Capture(eventType string, data any)
}

// Handler обрабатывает запросы оформления подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	reporter Reporter
}

func New(log *slog.Logger, service Service, reporter Reporter) *Handler {
	return &Handler{log: log, service: service, reporter: reporter}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, err := h.service.Subscribe(r.Context())
	switch {
	case errors.Is(err, auth.ErrNoActiveSession):
		log.Info("subscribe without active session rejected")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sign up before subscribing"))
		return
	case err != nil:
		log.Error("subscribe failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to subscribe"))
		return
	}

	h.reporter.Capture(events.TypeSubscribe, map[string]any{
		"email": session.Email,
		"name":  session.Name,
	})

	log.Info("subscription activated", slog.String("email", session.Email))
	render.JSON(w, r, response.OKWithData(session))
}
