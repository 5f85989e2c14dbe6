package handlers

import (
	"net/http"
	"strings"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// listParams reads the listing query string: column, order, query (or q), page.
func (h *Handlers) listParams(c *gin.Context) catalog.ListParams {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}
	return catalog.ListParams{
		SortColumn: c.Query("column"),
		SortOrder:  c.Query("order"),
		Query:      query,
		Page:       queryInt(c, "page", 1),
		PageSize:   h.Catalog.PageSize(),
	}
}

func productPageResponse(page *models.ProductPage, params catalog.ListParams) gin.H {
	column := strings.ToLower(strings.TrimSpace(params.SortColumn))
	if column == "" {
		column = "id"
	}
	order := strings.ToLower(strings.TrimSpace(params.SortOrder))
	if order == "" {
		order = catalog.SortAsc
	}
	return gin.H{
		"products": page.Items,
		"pagination": gin.H{
			"total":    page.Total,
			"page":     page.Page,
			"pageSize": page.PageSize,
			"lastPage": page.LastPage,
		},
		"sort":  gin.H{"column": column, "order": order},
		"query": params.Query,
	}
}

// ListProducts is the handler for GET /v1/products
func (h *Handlers) ListProducts(c *gin.Context) {
	params := h.listParams(c)

	page, err := h.Catalog.ListProducts(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, productPageResponse(page, params))
}

// SearchProducts is the handler for GET /v1/products/search
// An empty query returns the full listing.
func (h *Handlers) SearchProducts(c *gin.Context) {
	params := h.listParams(c)

	page, err := h.Catalog.SearchProducts(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, productPageResponse(page, params))
}

// GetProduct is the handler for GET /v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct is the handler for POST /v1/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input catalog.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.Catalog.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct is the handler for PATCH (and PUT) /v1/products/:id
// Only the fields present in the body are changed.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var input catalog.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.Catalog.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct is the handler for DELETE /v1/products/:id
// JSON callers get an acknowledgement; everyone else is sent back to the listing.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	if err := h.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	if !expectsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/v1/products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
		"id":      id,
	})
}

func expectsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
