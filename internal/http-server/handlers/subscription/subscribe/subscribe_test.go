package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/recipestreet/recipe-street/internal/models"
	"github.com/recipestreet/recipe-street/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Subscribe(ctx context.Context) (*models.SessionRecord, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(*models.SessionRecord)
	return session, args.Error(1)
}

type ReporterStub struct {
	captured []string
}

func (r *ReporterStub) Capture(eventType string, _ any) {
	r.captured = append(r.captured, eventType)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSubscribeHandler_ServeHTTP(t *testing.T) {
	session := &models.SessionRecord{
		UserID:       "uid-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		IsSubscribed: true,
	}

	tests := []struct {
		name           string
		mockSession    *models.SessionRecord
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantEvent      bool
	}{
		{
			name:           "subscription activated",
			mockSession:    session,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantEvent:      true,
		},
		{
			name:           "no active session",
			mockErr:        auth.ErrNoActiveSession,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "sign up before subscribing",
		},
		{
			name:           "service error",
			mockErr:        errors.New("storage failure"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to subscribe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			reporter := &ReporterStub{}
			handler := New(newNoopLogger(), serviceMock, reporter)

			serviceMock.On("Subscribe", mock.Anything).
				Return(tt.mockSession, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, true, data["is_subscribed"])
			}

			if tt.wantEvent {
				assert.Equal(t, []string{"subscribe"}, reporter.captured)
			} else {
				assert.Empty(t, reporter.captured)
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
