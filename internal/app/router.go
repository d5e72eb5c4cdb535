package app

import (
	"quiz_platform_backend/docs"
	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/middleware"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	a.registerPublicRoutes(router, c)
	a.registerPlayerRoutes(router, c, cfg)
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/refresh", c.auth.Refresh)
		public.POST("/webapp/auth", c.webapp.Auth)
	}
}

func (a *App) registerPlayerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		api.GET("/me", c.user.GetMe)
		api.GET("/me/history", c.quiz.GetHistory)

		tests := api.Group("/tests")
		{
			tests.GET("/active", c.quiz.GetActiveTests)
			tests.GET("/subjects", c.quiz.GetActiveSubjects)
			tests.GET("/subjects/:subject", c.quiz.GetActiveTestsBySubject)
			tests.POST("/:id/start", c.quiz.StartTest)
		}

		attempts := api.Group("/attempts")
		{
			attempts.GET("/:id/progress", c.quiz.GetTestProgress)
			attempts.GET("/:id/next-question", c.quiz.GetNextQuestion)
			attempts.GET("/:id/questions", c.quiz.GetAllQuestions)
			attempts.POST("/:id/answers", c.quiz.SubmitAnswer)
			attempts.POST("/:id/complete", c.quiz.CompleteTest)
			attempts.GET("/:id/result", c.quiz.GetTestResult)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", c.task.GetTasks)
			tasks.POST("", c.task.CreateTask)
			tasks.GET("/statistics", c.task.GetStatistics)
			tasks.GET("/:id", c.task.GetTask)
			tasks.PUT("/:id", c.task.UpdateTask)
			tasks.PUT("/:id/status", c.task.ChangeStatus)
			tasks.DELETE("/:id", c.task.DeleteTask)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.RoleMiddleware(model.RoleAdmin, model.RoleSuperAdmin),
	)
	{
		tests := admin.Group("/tests")
		{
			tests.GET("", c.test.GetAllTests)
			tests.POST("", c.test.CreateTest)
			tests.GET("/:id", c.test.GetTest)
			tests.PUT("/:id", c.test.UpdateTest)
			tests.DELETE("/:id", c.test.DeleteTest)
			tests.POST("/:id/activate", c.test.ActivateTest)
			tests.POST("/:id/deactivate", c.test.DeactivateTest)
		}

		users := admin.Group("/users")
		{
			users.GET("", c.user.GetAllUsers)
			users.GET("/:id", c.user.GetUser)
			users.DELETE("/:id", c.user.DeleteUser)
			users.PUT("/:id/role", c.user.ChangeRole)
			users.POST("/:id/permissions/:permissionId", c.user.AddPermission)
			users.DELETE("/:id/permissions/:permissionId", c.user.RemovePermission)
		}

		permissions := admin.Group("/permissions")
		{
			permissions.GET("", c.permission.GetAllPermissions)
			permissions.POST("", c.permission.CreatePermission)
			permissions.PUT("/:id", c.permission.UpdatePermission)
			permissions.DELETE("/:id", c.permission.DeletePermission)
		}
	}
}
