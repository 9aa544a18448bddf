// Package approve реализует админ-обработчики одобрения премиум-доступа и
// доступа к курсу. Оба флага меняются только через методы реестра, поэтому
// инвариант флаг/дата соблюдается в одном месте.
package approve

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

// Request — входные данные решения администратора. Approved=false снимает
// одобрение (reject), вместе с парной датой.
type Request struct {
	UserID   string `json:"user_id" validate:"required"`
	Approved *bool  `json:"approved" validate:"required"`
}

// Registry описывает контракт реестра для смены одобрений.
type Registry interface {
	SetApproval(id string, approved bool) error
	SetCourseApproval(id string, approved bool) error
}

// Handler обрабатывает решения администратора по одному из двух одобрений.
type Handler struct {
	log      *slog.Logger
	users    Registry
	validate *validator.Validate
	apply    func(Registry, string, bool) error
	opName   string
}

// NewPremium создает обработчик одобрения премиум-доступа.
func NewPremium(log *slog.Logger, users Registry) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validator.New(),
		apply:    func(r Registry, id string, on bool) error { return r.SetApproval(id, on) },
		opName:   "handlers.admin.approve",
	}
}

// NewCourse создает обработчик одобрения доступа к курсу.
func NewCourse(log *slog.Logger, users Registry) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validator.New(),
		apply:    func(r Registry, id string, on bool) error { return r.SetCourseApproval(id, on) },
		opName:   "handlers.admin.courseapprove",
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.opName),
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

	err := h.apply(h.users, req.UserID, *req.Approved)
	switch {
	case errors.Is(err, registry.ErrUserNotFound):
		log.Info("user not found", slog.String("user_id", req.UserID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to update approval", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update approval"))
		return
	}

	log.Info("approval updated",
		slog.String("user_id", req.UserID),
		slog.Bool("approved", *req.Approved),
	)
	render.JSON(w, r, response.OK())
}
