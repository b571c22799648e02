package web

import (
	"log"

	"feedtagger/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type SwaggerServer struct {
	enabled bool
}

func NewSwaggerServer(enabled bool) *SwaggerServer {
	return &SwaggerServer{enabled: enabled}
}

// RegisterRoutes serves the Swagger UI and document under /swagger. A
// non-empty host overrides the host advertised in the document.
func (s *SwaggerServer) RegisterRoutes(router *gin.Engine, host string) {
	if !s.enabled {
		return
	}

	if host != "" {
		docs.SwaggerInfo.Host = host
	}
	log.Printf("Swagger UI enabled at /swagger/index.html")

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
