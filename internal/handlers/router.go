package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akshara-learn/examportal-service/internal/services"
	"github.com/akshara-learn/examportal-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	testHandler         *TestHandler
	quizHandler         *QuizHandler
	contentHandler      *ContentHandler
	subscriptionHandler *SubscriptionHandler
	adminHandler        *AdminHandler
	authMiddleware      *AuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), serviceManager.PasswordReset(), logger),
		testHandler:         NewTestHandler(serviceManager.Scoring(), logger),
		quizHandler:         NewQuizHandler(serviceManager.Scoring(), logger),
		contentHandler:      NewContentHandler(serviceManager.Content(), logger),
		subscriptionHandler: NewSubscriptionHandler(serviceManager.Subscription(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Content(), serviceManager.Import(), logger),
		authMiddleware:      NewAuthMiddleware(serviceManager.Auth()),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public auth surface
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.POST("/password-reset/request", hm.authHandler.RequestPasswordReset)
			auth.POST("/password-reset/verify", hm.authHandler.VerifyPasswordReset)
			auth.POST("/password-reset/complete", hm.authHandler.CompletePasswordReset)
		}

		// Everything below needs a valid token
		authed := v1.Group("")
		authed.Use(hm.authMiddleware.RequireAuth())
		{
			authed.GET("/profile", hm.authHandler.GetProfile)
			authed.PUT("/profile", hm.authHandler.UpdateProfile)

			tests := authed.Group("/tests")
			{
				tests.GET("", hm.testHandler.ListTests)
				tests.GET("/progress", hm.testHandler.GetProgress)
				tests.GET("/:id", hm.testHandler.GetTest)
				tests.POST("/:id/submit", hm.testHandler.SubmitTest)
				tests.GET("/:id/result", hm.testHandler.GetResult)
			}

			quiz := authed.Group("/quiz")
			{
				quiz.GET("/today", hm.quizHandler.TodayQuiz)
				quiz.GET("/history", hm.quizHandler.QuizHistory)
				quiz.POST("/:id/submit", hm.quizHandler.SubmitQuiz)
				quiz.GET("/:id/result", hm.quizHandler.QuizResult)
			}

			authed.GET("/sections/:category", hm.contentHandler.GetSection)
			authed.GET("/search", hm.contentHandler.Search)

			authed.GET("/notifications", hm.contentHandler.ListNotifications)
			authed.POST("/notifications/:id/read", hm.contentHandler.MarkNotificationRead)

			subscription := authed.Group("/subscription")
			{
				subscription.GET("", hm.subscriptionHandler.CurrentPlan)
				subscription.POST("/order", hm.subscriptionHandler.CreateOrder)
				subscription.POST("/activate", hm.subscriptionHandler.Activate)
			}

			// Admin-only content management
			admin := authed.Group("/admin")
			admin.Use(hm.authMiddleware.RequireAdmin())
			{
				admin.POST("/tests", hm.adminHandler.CreateTest)
				admin.DELETE("/tests/:id", hm.adminHandler.DeleteTest)
				admin.POST("/tests/:id/import", hm.adminHandler.ImportQuestions)
				admin.POST("/quiz", hm.adminHandler.CreateQuiz)
				admin.POST("/users/:id/notify", hm.adminHandler.NotifyUser)
			}
		}
	}

	router.GET("/health", hm.healthCheck)
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "examportal-service",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "examportal-service",
	})
}
