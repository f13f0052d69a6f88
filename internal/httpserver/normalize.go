package httpserver

import (
	"io"
	"net/http"

	"jacket-survey/internal/normalize"

	"github.com/gin-gonic/gin"
)

const maxNormalizeBody = 4 << 20

// readPayload decodes a raw member service response, envelopes included.
func readPayload(c *gin.Context) (any, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNormalizeBody))
	if err != nil {
		writeError(c, http.StatusBadRequest, "InvalidInput", "could not read request body")
		return nil, false
	}
	v, err := normalize.Decode(body)
	if err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "Request body does not contain valid JSON.")
		return nil, false
	}
	return v, true
}

func (h *handlers) normalizeMember(c *gin.Context) {
	v, ok := readPayload(c)
	if !ok {
		return
	}
	var raw normalize.RawMember
	switch t := v.(type) {
	case map[string]any:
		raw = t
	case []any:
		// single-record lookups sometimes come back as a one element list
		if len(t) > 0 {
			if m, ok := t[0].(map[string]any); ok {
				raw = m
			}
		}
	}
	c.JSON(http.StatusOK, memberResponse{Member: normalize.NormalizeMember(raw)})
}

func (h *handlers) normalizeMembers(c *gin.Context) {
	v, ok := readPayload(c)
	if !ok {
		return
	}
	members := normalize.NormalizeMemberList(v)
	c.JSON(http.StatusOK, gin.H{"results": members, "count": len(members)})
}
