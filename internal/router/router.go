package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neo4j-explorer-backend/internal/handler"
)

type Handlers struct {
	Connection *handler.ConnectionHandler
	Label      *handler.LabelHandler
	Mutation   *handler.MutationHandler
	Events     *handler.EventsHandler
}

func RegisterRoutes(r *gin.Engine, sessionMiddleware gin.HandlerFunc, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", sessionMiddleware)
	{
		api.GET("/session", h.Connection.Session)
		api.POST("/connect", h.Connection.Connect)
		api.POST("/logout", h.Connection.Logout)

		api.GET("/labels", h.Label.List)
		api.POST("/labels/select", h.Label.Select)

		api.POST("/nodes", h.Mutation.CreateNode)
		api.POST("/relationships", h.Mutation.CreateRelationship)

		api.GET("/events", h.Events.Stream)
	}
}
