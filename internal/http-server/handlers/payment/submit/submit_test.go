package submit

import (
	"bytes"
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
	"github.com/stretchr/testify/require"

	"github.com/recipestreet/recipe-street/internal/http-server/middlewarectx"
	"github.com/recipestreet/recipe-street/internal/models"
)

type RegistryMock struct {
	mock.Mock
}

func (m *RegistryMock) SaveCardInfo(id string, card models.CardInfo) error {
	return m.Called(id, card).Error(0)
}

type ReporterStub struct {
	types    []string
	payloads []any
}

func (r *ReporterStub) Capture(eventType string, data any) {
	r.types = append(r.types, eventType)
	r.payloads = append(r.payloads, data)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() Request {
	return Request{
		CardNumber:     "4242424242424242",
		ExpiryDate:     "12/27",
		CVV:            "123",
		CardholderName: "Ana Ivanova",
		BillingAddress: "1 Main St",
		City:           "Springfield",
		PostalCode:     "12345",
		Country:        "US",
	}
}

func TestSubmitHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		requestBody    any
		mockCard       *models.CardInfo
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantEvent      bool
	}{
		{
			name:        "valid payment stores last4 only",
			userID:      "uid-1",
			requestBody: validRequest(),
			mockCard: &models.CardInfo{
				Last4:          "4242",
				ExpiryDate:     "12/27",
				CardholderName: "Ana Ivanova",
				BillingAddress: "1 Main St",
				City:           "Springfield",
				PostalCode:     "12345",
				Country:        "US",
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantEvent:      true,
		},
		{
			name:           "missing user identification",
			userID:         "",
			requestBody:    validRequest(),
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "user identification missing",
		},
		{
			name:           "invalid json body",
			userID:         "uid-1",
			requestBody:    "{broken",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:   "card number not numeric",
			userID: "uid-1",
			requestBody: func() Request {
				r := validRequest()
				r.CardNumber = "4242-4242-4242-4242"
				return r
			}(),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field CardNumber can contain only numbers",
		},
		{
			name:   "missing cvv",
			userID: "uid-1",
			requestBody: func() Request {
				r := validRequest()
				r.CVV = ""
				return r
			}(),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field CVV is a required field",
		},
		{
			name:        "registry failure",
			userID:      "uid-1",
			requestBody: validRequest(),
			mockCard: &models.CardInfo{
				Last4:          "4242",
				ExpiryDate:     "12/27",
				CardholderName: "Ana Ivanova",
				BillingAddress: "1 Main St",
				City:           "Springfield",
				PostalCode:     "12345",
				Country:        "US",
			},
			mockErr:        errors.New("storage failure"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to submit payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registryMock := new(RegistryMock)
			reporter := &ReporterStub{}
			handler := New(newNoopLogger(), registryMock, reporter)

			if tt.mockCard != nil {
				registryMock.On("SaveCardInfo", tt.userID, *tt.mockCard).
					Return(tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.userID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserID, tt.userID)
				ctx = context.WithValue(ctx, middlewarectx.UserEmail, "ana@example.com")
			}
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			if tt.wantEvent {
				assert.Equal(t, []string{"payment"}, reporter.types)
			} else {
				assert.Empty(t, reporter.types)
			}
			registryMock.AssertExpectations(t)
		})
	}
}

// Полный номер карты и CVV не попадают ни в реестр, ни во внешнее событие.
func TestSubmitHandler_NeverForwardsPANOrCVV(t *testing.T) {
	registryMock := new(RegistryMock)
	reporter := &ReporterStub{}
	handler := New(newNoopLogger(), registryMock, reporter)

	var savedCard models.CardInfo
	registryMock.On("SaveCardInfo", "uid-1", mock.Anything).
		Run(func(args mock.Arguments) {
			savedCard = args.Get(1).(models.CardInfo)
		}).
		Return(nil).Once()

	bodyBytes, err := json.Marshal(validRequest())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader(bodyBytes))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.UserID, "uid-1")
	ctx = context.WithValue(ctx, middlewarectx.UserEmail, "ana@example.com")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "4242", savedCard.Last4)

	require.Len(t, reporter.payloads, 1)
	rawEvent, err := json.Marshal(reporter.payloads[0])
	require.NoError(t, err)
	assert.NotContains(t, string(rawEvent), "4242424242424242")
	assert.NotContains(t, string(rawEvent), `"123"`)
	assert.Contains(t, string(rawEvent), `"4242"`)
	registryMock.AssertExpectations(t)
}
