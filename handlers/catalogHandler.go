package handlers

import (
	"net/http"

	"Hospitality/middlewares"
	"Hospitality/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// GetMedicines returns the medicine catalog, optionally filtered by ?q=.
func (h *CatalogHandler) GetMedicines(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	medicines, err := h.service.SearchMedicines(c.Request.Context(), sess, c.Query("q"))
	if err != nil {
		middlewares.UpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"medicines": medicines})
}

// GetTargetOrgans returns the organs available for diagnosis items.
func (h *CatalogHandler) GetTargetOrgans(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	organs, err := h.service.TargetOrgans(c.Request.Context(), sess)
	if err != nil {
		middlewares.UpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"target_organs": organs})
}

// GetLabTestTypes returns the orderable lab test types.
func (h *CatalogHandler) GetLabTestTypes(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	types, err := h.service.LabTestTypes(c.Request.Context(), sess)
	if err != nil {
		middlewares.UpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lab_test_types": types})
}
