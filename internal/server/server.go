package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes, CORS, the health probe and the static
// frontend directory.
func NewRouter(h *Handler, staticDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.MaxMultipartMemory = maxUploadBytes

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "invoicebridge"})
	})

	api := router.Group("/api")
	{
		api.POST("/upload", h.Upload)
		api.POST("/confirm", h.Confirm)
		api.GET("/lookup", h.Lookup)
		api.GET("/vendors/search", h.SearchVendors)
	}

	if staticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))
	}

	return router
}
