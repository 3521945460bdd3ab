package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/verity"
	"github.com/soundprediction/verity/pkg/driver"
	"github.com/soundprediction/verity/pkg/server/dto"
)

// ScrapsHandler serves direct scrap reads
type ScrapsHandler struct {
	reader verity.ScrapReader
}

// NewScrapsHandler creates a new scraps handler
func NewScrapsHandler(reader verity.ScrapReader) *ScrapsHandler {
	return &ScrapsHandler{reader: reader}
}

// ListScraps handles GET /scraps?limit=<n> and GET /scraps?q=<text>
func (h *ScrapsHandler) ListScraps(c *gin.Context) {
	var q dto.ScrapsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, "invalid query parameters: "+err.Error())
		return
	}
	if err := dto.ValidateStruct(&q); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	if q.Q != "" {
		results, err := h.reader.SearchScraps(c.Request.Context(), q.Q)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := dto.NewScrapsResponse(results)
		resp.Query = q.Q
		resp.Limit = driver.SearchLimit
		c.JSON(http.StatusOK, resp)
		return
	}

	limit := driver.DefaultListLimit
	if q.Limit != nil {
		limit = driver.ClampLimit(*q.Limit)
	}

	results, err := h.reader.ListScraps(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.NewScrapsResponse(results)
	resp.Limit = limit
	c.JSON(http.StatusOK, resp)
}

// GetScrap handles GET /scraps/:id
func (h *ScrapsHandler) GetScrap(c *gin.Context) {
	scrap, err := h.reader.GetScrap(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scrap)
}

// GetRelatedScraps handles GET /scraps/:id/related
func (h *ScrapsHandler) GetRelatedScraps(c *gin.Context) {
	results, err := h.reader.GetRelatedScraps(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScrapsResponse(results))
}
