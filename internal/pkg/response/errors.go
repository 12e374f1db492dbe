package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcar/internal/gateway"
)

// detailer is any validation failure that can list its fields.
type detailer interface {
	Details() map[string]string
}

// FromError writes the envelope for err. Backend 401s become the generic
// "log in again" message; transport and server failures become 502 with
// fallback as the notification text.
func FromError(c *gin.Context, err error, fallback string) {
	var fe detailer
	var apiErr *gateway.APIError

	switch {
	case errors.As(err, &fe):
		ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "Validation failed", fe.Details())

	case errors.As(err, &apiErr):
		msg := apiErr.Message
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			Error(c, http.StatusUnauthorized, CodeUnauthorized, "Please log in again")
		case apiErr.Status == http.StatusForbidden:
			Error(c, http.StatusForbidden, CodeForbidden, "Access denied: insufficient permissions")
		case apiErr.Status == http.StatusNotFound:
			Error(c, http.StatusNotFound, CodeNotFound, orDefault(msg, "Not found"))
		case apiErr.Status == http.StatusConflict:
			Error(c, http.StatusConflict, CodeConflict, orDefault(msg, fallback))
		case apiErr.Status >= 400 && apiErr.Status < 500:
			Error(c, http.StatusBadRequest, CodeValidation, orDefault(msg, fallback))
		default:
			_ = c.Error(err)
			Error(c, http.StatusBadGateway, CodeUpstream, fallback)
		}

	case errors.Is(err, gateway.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		Error(c, http.StatusBadGateway, CodeUpstream, fallback)

	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, CodeInternal, fallback)
	}
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
