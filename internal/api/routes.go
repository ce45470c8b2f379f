// Package api is the HTTP front end: it turns requests into session commands.
package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API on r.
func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/screen", s.applyScreen)
		api.DELETE("/screen", s.clearScreen)
		api.POST("/assets", s.uploadAsset)
		api.POST("/assets/qr", s.qrAsset)
		api.DELETE("/assets/:id", s.deleteAsset)
		api.POST("/export", s.export)
		api.POST("/preview/background", s.previewBackground)
	}
}

// NewEngine builds a gin engine with the API mounted.
func NewEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, s)
	return r
}
