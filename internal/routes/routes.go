package routes

import (
	"net/http"

	"github.com/01moynul/shopsphere-golang/internal/handlers"
	"github.com/01moynul/shopsphere-golang/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CORSMiddleware tells the browser that the configured frontend origin may call the API.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Allow only the configured frontend
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 2. Headers and methods the API actually uses
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		// 3. Answer the preflight OPTIONS request with "204 No Content"
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, log zerolog.Logger, allowedOrigin string) *gin.Engine {
	router := gin.New()

	// CORS runs first so preflights never reach the handlers.
	router.Use(
		CORSMiddleware(allowedOrigin),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
	)

	v1 := router.Group("/v1")
	{
		// --- Ping Route ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Product Routes ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/search", h.SearchProducts)
		v1.POST("/products", h.CreateProduct)
		v1.GET("/products/:id", h.GetProduct)
		v1.PATCH("/products/:id", h.UpdateProduct)
		v1.PUT("/products/:id", h.UpdateProduct)
		v1.DELETE("/products/:id", h.DeleteProduct)

		// --- Category Routes ---
		v1.GET("/categories", h.GetAllCategories)
		v1.POST("/categories", h.CreateCategory)
		v1.GET("/categories/:id", h.GetCategory)
		v1.DELETE("/categories/:id", h.DeleteCategory)

		// --- Order Routes ---
		v1.GET("/orders", h.GetOrders)
		v1.POST("/orders", h.CreateOrder)
		v1.GET("/orders/:id", h.GetOrderDetails)
		v1.DELETE("/orders/:id", h.DeleteOrder)
		v1.POST("/orders/:id/items", h.AddOrderItem)

		// --- Dashboard ---
		v1.GET("/dashboard-stats", h.GetCatalogStats)
	}

	return router
}
