// Package me возвращает личность текущего пользователя.
package me

import (
	"net/http"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
)

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=models.Identity}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
// @Security BearerAuth
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(identity))
}
