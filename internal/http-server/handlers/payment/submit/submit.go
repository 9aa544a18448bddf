// Package submit реализует HTTP-обработчик формы оплаты подписки.
//
// В реестр сохраняются только платёжные метаданные: последние четыре цифры
// номера, срок действия и адрес. Полный номер карты и CVV не сохраняются
// и не пересылаются во внешние события. Сам платёж не проводится — запись
// уходит на ручную проверку администратору.
package submit

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/recipestreet/recipe-street/internal/events"
	"github.com/recipestreet/recipe-street/internal/http-server/middlewarectx"
	"github.com/recipestreet/recipe-street/internal/http-server/response"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/models"
)

// Request — данные платёжной формы.
type Request struct {
	CardNumber     string `json:"card_number" validate:"required,numeric,min=13,max=19"`
	ExpiryDate     string `json:"expiry_date" validate:"required"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	CardholderName string `json:"cardholder_name" validate:"required"`
	BillingAddress string `json:"billing_address" validate:"required"`
	City           string `json:"city" validate:"required"`
	PostalCode     string `json:"postal_code" validate:"required"`
	Country        string `json:"country" validate:"required"`
}

// Registry описывает контракт реестра для сохранения платёжных метаданных.
type Registry interface {
	SaveCardInfo(id string, card models.CardInfo) error
}

// Reporter описывает внешний приёмник бизнес-событий.
type Reporter interface {
	Capture(eventType string, data any)
}

// Handler обрабатывает запросы платёжной формы.
type Handler struct {
	log      *slog.Logger
	users    Registry
	reporter Reporter
	validate *validator.Validate
}

func New(log *slog.Logger, users Registry, reporter Reporter) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		reporter: reporter,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}
	email, _ := r.Context().Value(middlewarectx.UserEmail).(string)

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

	card := models.CardInfo{
		Last4:          req.CardNumber[len(req.CardNumber)-4:],
		ExpiryDate:     req.ExpiryDate,
		CardholderName: req.CardholderName,
		BillingAddress: req.BillingAddress,
		City:           req.City,
		PostalCode:     req.PostalCode,
		Country:        req.Country,
	}
	if err := h.users.SaveCardInfo(userID, card); err != nil {
		log.Error("failed to save card info", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit payment"))
		return
	}

	h.reporter.Capture(events.TypePayment, map[string]any{
		"action": "subscription_payment",
		"user": map[string]any{
			"id":    userID,
			"email": email,
		},
		"payment": map[string]any{
			"last4":           card.Last4,
			"expiry_date":     card.ExpiryDate,
			"cardholder_name": card.CardholderName,
			"city":            card.City,
			"country":         card.Country,
		},
		"subscription": map[string]any{
			"plan":          "Premium Subscription",
			"amount":        29.99,
			"currency":      "USD",
			"billing_cycle": "monthly",
		},
	})

	log.Info("payment submitted for review", slog.String("user_id", userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "payment is being reviewed, access opens after approval",
	}))
}
