package controllers

import (
	"errors"
	"log"
	"net/http"

	"hotel-reservation-backend/services"
	"hotel-reservation-backend/utils"

	"github.com/gin-gonic/gin"
)

// statusForError maps the engine's typed errors to HTTP statuses. Anything
// that is not a business error is an unexpected storage failure and becomes
// an opaque 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRoomUnavailable),
		errors.Is(err, services.ErrConcurrencyConflict):
		return http.StatusConflict
	case services.IsBusinessError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, code, "internal server error")
		return
	}
	utils.JSONError(c, code, err.Error())
}
