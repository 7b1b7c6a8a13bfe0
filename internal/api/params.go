package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-Sharer-User-Id"

const localTimeLayout = "2006-01-02T15:04:05"

func callerID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.GetHeader(userIDHeader))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s header", domain.ErrValidation, userIDHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s header %q", domain.ErrValidation, userIDHeader, raw)
	}
	return id, nil
}

func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, raw)
	}
	return id, nil
}

func (s *HTTPServer) page(c *gin.Context) (models.Page, error) {
	from, err := queryInt(c, "from", 0)
	if err != nil {
		return models.Page{}, err
	}
	size, err := queryInt(c, "size", s.cfg.Pagination.DefaultSize)
	if err != nil {
		return models.Page{}, err
	}
	if from < 0 {
		return models.Page{}, fmt.Errorf("%w: from must not be negative", domain.ErrValidation)
	}
	if size <= 0 {
		return models.Page{}, fmt.Errorf("%w: size must be positive", domain.ErrValidation)
	}
	return models.NewPage(from, size), nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return v, nil
}

func queryState(c *gin.Context) (models.State, error) {
	state, err := models.ParseState(c.Query("state"))
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return state, nil
}

// timestamp accepts local date-times (read as UTC) as well as RFC 3339.
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a string")
	}
	if parsed, err := time.ParseInLocation(localTimeLayout, raw, time.UTC); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", raw)
	}
	t.Time = parsed.UTC()
	return nil
}
