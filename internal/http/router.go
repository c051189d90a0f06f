// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfare/internal/http/handlers"
	"wayfare/internal/http/middleware"
	"wayfare/internal/infra"
	"wayfare/internal/modules/dialogue"
	"wayfare/internal/modules/trip"
)

type RouterDeps struct {
	Dialogue *dialogue.Service
	Trips    *trip.Service
	Verifier infra.TokenVerifier
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	dialogueHandler := handlers.NewDialogueHandler(deps.Dialogue)
	api.POST("/conversations/:id/messages", dialogueHandler.Message)
	api.POST("/conversations/:id/abandon", dialogueHandler.Abandon)

	tripHandler := handlers.NewTripHandler(deps.Trips)
	api.GET("/trips", tripHandler.List)
	api.GET("/trips/:id", tripHandler.Get)

	return r
}
