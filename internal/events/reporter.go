// Package events отправляет бизнес-события (вход, регистрация, оплата,
// обращение из формы контактов) во внешний webhook в режиме fire-and-forget.
//
// Ядро сервиса не зависит от успеха доставки: ошибка отправки только
// логируется.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/recipestreet/recipe-street/internal/lib/sl"
)

// Типы отправляемых событий.
const (
	TypeSignin    = "signin"
	TypeSignup    = "signup"
	TypeSubscribe = "subscribe"
	TypePayment   = "payment"
	TypeContact   = "contact"
)

// Event — полезная нагрузка webhook-а.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Reporter публикует события по HTTP. Пустой URL отключает отправку.
type Reporter struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// New создает Reporter с собственным таймаутом HTTP-клиента.
func New(url string, timeout time.Duration, log *slog.Logger) *Reporter {
	return &Reporter{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Capture отправляет событие в фоне и сразу возвращает управление.
func (r *Reporter) Capture(eventType string, data any) {
	if r.url == "" {
		return
	}
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	go func() {
		if err := r.send(context.Background(), event); err != nil {
			r.log.Warn("failed to deliver event",
				slog.String("type", eventType), sl.Err(err))
		}
	}()
}

func (r *Reporter) send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
