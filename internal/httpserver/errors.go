package httpserver

import (
	"errors"
	"net/http"
	"sort"

	"jacket-survey/internal/domain"
	membersvc "jacket-survey/internal/service/member"
	"jacket-survey/internal/validation"

	"github.com/gin-gonic/gin"
)

type errorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Errors     []errorItem `json:"errors"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     []errorItem{{Code: code, Message: message}},
	})
}

// respondError maps service errors onto status codes. Internal failures are
// logged and reported without detail.
func (h *handlers) respondError(c *gin.Context, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		fields := make([]string, 0, len(ve.Fields))
		for f := range ve.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		items := make([]errorItem, 0, len(fields))
		for _, f := range fields {
			items = append(items, errorItem{Code: "InvalidField", Message: f + " failed " + ve.Fields[f], Field: f})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    ve.Error(),
			Errors:     items,
		})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(c, http.StatusBadRequest, "InvalidInput", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "ResourceNotFound", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(c, http.StatusConflict, "ConcurrentModification", err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		h.logger.Printf("upstream: %v", err)
		writeError(c, http.StatusBadGateway, "UpstreamUnavailable", "member service unavailable")
	case errors.Is(err, membersvc.ErrMirrorDisabled):
		writeError(c, http.StatusServiceUnavailable, "MirrorDisabled", "reporting store not configured")
	default:
		h.logger.Printf("request %s: %v", c.GetString(requestIDKey), err)
		writeError(c, http.StatusInternalServerError, "General", "internal error")
	}
}
