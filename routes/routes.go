package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ncerda/simulator-server/controllers"
	"github.com/ncerda/simulator-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sign-up", controllers.SignUp)
			auth.POST("/sign-in", middleware.RateLimitSignIn(), controllers.SignIn)
			auth.POST("/google", middleware.RateLimitSignIn(), controllers.GoogleSignIn)
		}
		api.POST("/auth-simulator/sign-in", middleware.RateLimitSignIn(), controllers.SignInSimulator)
		api.GET("/auth-simulator/simulator", middleware.AuthSimulatorJWT(), controllers.GetSimulatorSession)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthJWT(), middleware.RequireAdmin())
		{
			admin.PUT("/reset-password", controllers.ResetUserPassword)
		}

		categories := api.Group("/categories")
		categories.Use(middleware.AuthJWT())
		{
			categories.GET("", controllers.ListCategories)
			categories.GET("/:id", controllers.GetCategoryByID)
			categories.POST("", middleware.RequireAdmin(), controllers.CreateCategory)
			categories.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateCategory)
			categories.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteCategory)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.AuthJWT())
		{
			questions.GET("", controllers.ListQuestions)
			questions.GET("/:id", controllers.GetQuestionByID)
			questions.POST("", middleware.RequireAdmin(), controllers.CreateQuestion)
			questions.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateQuestion)
			questions.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteQuestion)
		}

		simulators := api.Group("/simulators")
		simulators.Use(middleware.AuthJWT())
		{
			simulators.GET("", controllers.ListSimulators)
			simulators.GET("/:id", controllers.GetSimulatorByID)
			simulators.POST("", middleware.RequireAdmin(), controllers.CreateSimulator)
			simulators.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateSimulator)
			simulators.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteSimulator)
			simulators.PUT("/:id/reset-password", middleware.RequireAdmin(), controllers.ResetSimulatorPassword)
		}

		api.POST("/images", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.UploadImage)

		results := api.Group("/results")
		{
			results.GET("", controllers.ListResults)
			results.GET("/:id", controllers.GetResultByID)
			results.POST("", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.CreateResult)
			results.PUT("/:id", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.UpdateResult)
			results.DELETE("/:id", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.DeleteResult)
		}
	}
}
