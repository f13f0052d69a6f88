package httpserver

import (
	"net/http"

	"jacket-survey/internal/domain"
	recommendsvc "jacket-survey/internal/service/recommendation"

	"github.com/gin-gonic/gin"
)

type sizeEntry struct {
	Size        domain.SizeCode    `json:"sizeCode"`
	Measurement domain.Measurement `json:"measurement"`
	HeightCm    [2]float64         `json:"heightRangeCm"`
	WeightKg    [2]float64         `json:"weightRangeKg"`
}

func (h *handlers) listSizes(c *gin.Context) {
	chart := h.recommend.Chart()
	out := make([]sizeEntry, 0, len(chart.Rules))
	for _, r := range chart.Rules {
		m, _ := r.Size.Measurement()
		out = append(out, sizeEntry{
			Size:        r.Size,
			Measurement: m,
			HeightCm:    [2]float64{r.HeightCm.Min, r.HeightCm.Max},
			WeightKg:    [2]float64{r.WeightKg.Min, r.WeightKg.Max},
		})
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

func (h *handlers) createRecommendation(c *gin.Context) {
	var in recommendsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "InvalidJsonInput", "Request body does not contain valid JSON.")
		return
	}
	out, err := h.recommend.Recommend(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
