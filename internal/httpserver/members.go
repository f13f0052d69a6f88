package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"jacket-survey/internal/domain"
	membersvc "jacket-survey/internal/service/member"

	"github.com/gin-gonic/gin"
)

type memberResponse struct {
	Member *domain.MemberRecord `json:"member"`
}

func staffID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(staffHeader))
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (h *handlers) searchMembers(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		writeError(c, http.StatusBadRequest, "InvalidInput", "page must be a non-negative integer")
		return
	}
	size, ok := queryInt(c, "pageSize")
	if !ok {
		writeError(c, http.StatusBadRequest, "InvalidInput", "pageSize must be a non-negative integer")
		return
	}

	res, err := h.members.Search(c.Request.Context(), membersvc.SearchInput{
		Query:    c.Query("q"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) getMember(c *gin.Context) {
	rec, err := h.members.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, memberResponse{Member: rec})
}

func (h *handlers) recordSize(c *gin.Context) {
	var in membersvc.SizeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "Request body does not contain valid JSON.")
		return
	}
	rec, err := h.members.RecordSize(c.Request.Context(), c.Param("code"), in, staffID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, memberResponse{Member: rec})
}

func (h *handlers) confirmPickup(c *gin.Context) {
	var in domain.Pickup
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "Request body does not contain valid JSON.")
		return
	}
	rec, err := h.members.ConfirmPickup(c.Request.Context(), c.Param("code"), in, staffID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, memberResponse{Member: rec})
}

func (h *handlers) memberRecommendations(c *gin.Context) {
	items, err := h.recommend.History(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": items, "count": len(items)})
}
