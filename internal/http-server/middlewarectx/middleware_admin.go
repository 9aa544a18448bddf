package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
)

// AdminKeyHeader — заголовок со статическим ключом админ-доступа.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware защищает админ-маршруты статическим ключом из конфига.
//
// Админ-операции работают с реестром напрямую, минуя слой сессий, поэтому
// JWT здесь не используется. Пустой ключ в конфиге закрывает доступ целиком.
func AdminKeyMiddleware(adminKey string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminKeyMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			provided := r.Header.Get(AdminKeyHeader)
			if adminKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				log.Error("admin key rejected")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
