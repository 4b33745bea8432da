package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/prepwise/airecruiter/internal/api/handlers"
	"github.com/prepwise/airecruiter/internal/api/middleware"
)

type Deps struct {
	User      *handlers.UserHandler
	Generate  *handlers.GenerateHandler
	Interview *handlers.InterviewHandler
	Feedback  *handlers.FeedbackHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/users/ensure", d.User.Ensure)

	auth.POST("/generate-interview-question", d.Generate.Generate)

	auth.POST("/interviews", d.Interview.Create)
	auth.GET("/interviews/:id", d.Interview.Get)
	auth.GET("/interviews/:id/assistant", d.Interview.AssistantConfig)
	auth.POST("/interviews/:id/transcript", d.Interview.SaveTranscript)
	auth.GET("/interviews/:id/feedback", d.Feedback.Get)

	// WebSocket
	auth.GET("/ws/interviews/:id", d.WS.InterviewWS)
}
