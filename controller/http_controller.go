package controller

import (
	"fmt"
	"net/http"
	"snapnova/conf"
	"snapnova/controller/auth"
	"snapnova/service/relay_service"
	"snapnova/tool"

	"github.com/gin-gonic/gin"
)

func Run() {
	router := gin.Default()
	router.Use(Cors())

	router.GET("/api/health", Health)

	// Socket.IO 实时通道
	router.Any("/socket.io/*any", gin.WrapH(relay_service.Handler()))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", Register)
			authGroup.POST("/login", Login)
			authGroup.POST("/refresh", Refresh)
			authGroup.POST("/logout", Logout)
			authGroup.GET("/me", auth.AuthMiddleware(), Me)
		}

		userGroup := api.Group("/users", auth.AuthMiddleware())
		{
			userGroup.GET("/profile", GetProfile)
			userGroup.GET("/profile/:id", GetProfile)
			userGroup.PUT("/profile", UpdateProfile)
			userGroup.GET("/search", SearchUsers)
			userGroup.POST("/remove-friend", RemoveFriend)
			userGroup.GET("/suggested", GetSuggested)
			userGroup.GET("/notifications", GetNotifications)
			userGroup.PUT("/notifications/read", MarkNotificationsRead)
		}

		contactGroup := api.Group("/contacts", auth.AuthMiddleware())
		{
			contactGroup.POST("/request", SendContactRequest)
			contactGroup.GET("/requests", GetContactRequests)
			contactGroup.POST("/accept", AcceptContactRequest)
			contactGroup.POST("/reject", RejectContactRequest)
		}

		messageGroup := api.Group("/messages", auth.AuthMiddleware())
		{
			messageGroup.GET("/conversations", GetConversations)
			messageGroup.POST("", SendMessage)
			messageGroup.PUT("/seen", MarkSeen)
			messageGroup.GET("/:userId", GetMessages)
			messageGroup.DELETE("/:id", DeleteMessage)
		}

		snapGroup := api.Group("/snaps", auth.AuthMiddleware())
		{
			snapGroup.POST("/upload", UploadSnap)
			snapGroup.GET("/:id", GetSnap)
			snapGroup.DELETE("/:id", DeleteSnap)
		}

		storyGroup := api.Group("/stories", auth.AuthMiddleware())
		{
			storyGroup.POST("", CreateStory)
			storyGroup.GET("/feed", GetStoriesFeed)
			storyGroup.GET("/mine", GetMyStories)
			storyGroup.PUT("/:id/view", ViewStory)
			storyGroup.DELETE("/:id", DeleteStory)
		}
	}

	_ = router.Run(fmt.Sprintf("0.0.0.0:%s", conf.Port))
}

// Health godoc
// @Summary 健康检查
// @Tags System API
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": tool.MakeTimestamp()})
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		origin := conf.ClientURL
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Content-Type,AccessToken,X-CSRF-Token, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Set("content-type", "application/json")
		if method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
		}
		c.Next()
	}
}
