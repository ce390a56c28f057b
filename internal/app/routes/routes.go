package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dotoapp/doto-backend/internal/app/controllers"
	"github.com/dotoapp/doto-backend/internal/middleware"
	"github.com/dotoapp/doto-backend/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	conversationController *controllers.ConversationController,
	notificationController *controllers.NotificationController,
	eventController *controllers.EventController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateMe)
			users.POST("/me/avatar", userController.UploadAvatar)
			users.GET("/me/stats", userController.GetStats)
			users.POST("/me/push-token", userController.RegisterPushToken)
			users.DELETE("/me/push-token", userController.RemovePushToken)
			users.GET("/:id", userController.GetUser)
		}

		authenticated.GET("/categories", postController.ListCategories)

		posts := authenticated.Group("/posts")
		{
			posts.GET("", postController.GetFeed)
			posts.POST("", postController.CreatePost)
			posts.GET("/:id", postController.GetPost)
			posts.PUT("/:id", postController.UpdatePost)
			posts.DELETE("/:id", postController.DeletePost)

			// Task lifecycle
			posts.POST("/:id/claim", postController.ClaimPost)
			posts.DELETE("/:id/claim", postController.UnclaimPost)
			posts.POST("/:id/approve", postController.ApproveClaimer)
			posts.POST("/:id/mark-complete", postController.MarkComplete)
			posts.POST("/:id/complete", postController.CompletePost)

			posts.POST("/:id/like", postController.LikePost)
			posts.DELETE("/:id/like", postController.UnlikePost)

			posts.GET("/:id/comments", commentController.ListPostComments)
			posts.POST("/:id/comments", commentController.AddPostComment)
		}

		authenticated.DELETE("/comments/:id", commentController.DeleteComment)

		conversations := authenticated.Group("/conversations")
		{
			conversations.GET("", conversationController.ListConversations)
			conversations.POST("/messages", conversationController.SendMessage)
			conversations.GET("/with/:partnerId", conversationController.GetOrCreateConversation)
			conversations.GET("/:id/messages", conversationController.ListMessages)
			conversations.GET("/:id/ws", wsHandler.HandleConnection)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.GET("/unread-count", notificationController.UnreadCount)
			notifications.PUT("/:id/read", notificationController.MarkRead)
			notifications.PUT("/read-all", notificationController.MarkAllRead)
			notifications.DELETE("/:id", notificationController.Delete)
		}

		events := authenticated.Group("/events")
		{
			events.GET("", eventController.ListEvents)
			events.POST("", eventController.CreateEvent)
			events.GET("/:id", eventController.GetEvent)
			events.PUT("/:id", eventController.UpdateEvent)
			events.DELETE("/:id", eventController.DeleteEvent)
			events.POST("/:id/cancel", eventController.CancelEvent)

			events.POST("/:id/subscribe", eventController.Subscribe)
			events.DELETE("/:id/subscribe", eventController.Unsubscribe)
			events.POST("/:id/block", eventController.BlockUser)
			events.DELETE("/:id/block", eventController.UnblockUser)
			events.POST("/:id/like", eventController.LikeEvent)
			events.DELETE("/:id/like", eventController.UnlikeEvent)

			events.GET("/:id/comments", commentController.ListEventComments)
			events.POST("/:id/comments", commentController.AddEventComment)
		}
	}
}
