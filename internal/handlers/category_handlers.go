package handlers

import (
	"net/http"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/gin-gonic/gin"
)

// --- Category Handlers ---

// CreateCategory is the handler for POST /v1/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input catalog.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.Catalog.CreateCategory(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

// GetAllCategories is the handler for GET /v1/categories
func (h *Handlers) GetAllCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory is the handler for GET /v1/categories/:id
func (h *Handlers) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	category, err := h.Catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory is the handler for DELETE /v1/categories/:id
// Products in the category remain, uncategorized.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	if err := h.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
