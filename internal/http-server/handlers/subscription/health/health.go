// Package health реализует обработчик проверки живости сервиса.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/recipestreet/recipe-street/internal/http-server/response"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK())
}
