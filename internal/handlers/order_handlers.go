package handlers

import (
	"net/http"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/gin-gonic/gin"
)

// CreateOrder is the handler for POST /v1/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	var input catalog.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.Catalog.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// GetOrders is the handler for GET /v1/orders
func (h *Handlers) GetOrders(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := h.Catalog.PageSize()

	orders, total, err := h.Catalog.ListOrders(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	lastPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	if lastPage < 1 {
		lastPage = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"pagination": gin.H{
			"total":    total,
			"page":     page,
			"pageSize": pageSize,
			"lastPage": lastPage,
		},
	})
}

// GetOrderDetails is the handler for GET /v1/orders/:id
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.Catalog.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AddOrderItem is the handler for POST /v1/orders/:id/items
func (h *Handlers) AddOrderItem(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	var input catalog.OrderItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.Catalog.AddOrderItem(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order item added", "order": order})
}

// DeleteOrder is the handler for DELETE /v1/orders/:id
func (h *Handlers) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	if err := h.Catalog.DeleteOrder(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
