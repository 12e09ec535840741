package middlewares

import (
	"errors"
	"log"
	"net/http"

	"Hospitality/hospital"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	c.JSON(status, gin.H{"error": message})
}

// UpstreamError maps a hospital client error onto the gateway response:
// upstream auth failures stay 401, other upstream statuses become 502 with
// the server's message, validation errors are the caller's fault.
func UpstreamError(c *gin.Context, err error) {
	var apiErr *hospital.APIError

	switch {
	case errors.Is(err, hospital.ErrUnauthorized):
		HttpError(c, "Hospital rejected the access token", http.StatusUnauthorized, err)
	case errors.As(err, &apiErr):
		HttpError(c, apiErr.Message, http.StatusBadGateway, err)
	case isValidationError(err):
		HttpError(c, err.Error(), http.StatusUnprocessableEntity, err)
	default:
		HttpError(c, "Upstream request failed", http.StatusBadGateway, err)
	}
}

func isValidationError(err error) bool {
	var objErrs validation.Errors
	if errors.As(err, &objErrs) {
		return true
	}
	var errObj validation.ErrorObject
	return errors.As(err, &errObj)
}
