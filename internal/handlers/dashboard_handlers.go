package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Catalog Dashboard Stats ---
//

// GetCatalogStats returns KPI data for the catalog dashboard
// GET /v1/dashboard-stats
func (h *Handlers) GetCatalogStats(c *gin.Context) {
	stats, err := h.Catalog.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
