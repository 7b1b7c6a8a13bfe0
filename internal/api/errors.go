package api

import (
	"errors"
	"net/http"
	"strings"

	"shareit/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

var errorKinds = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrForbidden, http.StatusForbidden},
}

// writeError maps a domain error to its status code. The error field carries
// the detail without the sentinel prefix.
func writeError(c *gin.Context, logger *zerolog.Logger, err error) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			c.AbortWithStatusJSON(kind.status, errorResponse{
				Error:       detail(err, kind.err),
				Description: kind.err.Error(),
			})
			return
		}
	}

	logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Error:       "internal server error",
		Description: http.StatusText(http.StatusInternalServerError),
	})
}

func detail(err, kind error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		return rest
	}
	return msg
}
