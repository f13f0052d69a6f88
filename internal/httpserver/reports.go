package httpserver

import (
	"net/http"

	membersvc "jacket-survey/internal/service/member"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getInventory(c *gin.Context) {
	stock, err := h.inventory.Stock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (h *handlers) sizeReport(c *gin.Context) {
	report, err := h.members.Report(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// mirroredMembers lists the local copy only; the member service is not called.
func (h *handlers) mirroredMembers(c *gin.Context) {
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

	res, err := h.members.Mirrored(c.Request.Context(), membersvc.MirrorInput{
		Query:    c.Query("q"),
		Status:   c.Query("status"),
		Size:     c.Query("size"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) mirroredMember(c *gin.Context) {
	rec, err := h.members.MirroredMember(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, memberResponse{Member: rec})
}
