package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"dashboard-pipeline/internal/api/handler"
)

// NewRouter builds the Gin engine serving the same routes as RegisterRoutes.
func NewRouter(h *handler.Handler, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	// CORS
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	for _, rt := range Routes(h) {
		fn := rt.Handler
		if !rt.Public {
			fn = h.Authenticate(fn)
		}
		r.Handle(rt.Method, ginPath(rt.Path), gin.WrapF(http.HandlerFunc(fn)))
	}

	r.GET("/swagger/*any", gin.WrapH(httpSwagger.WrapHandler))
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
	return r
}
