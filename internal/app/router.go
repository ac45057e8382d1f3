package app

import (
	"prep_admin_backend/docs"
	"prep_admin_backend/internal/config"
	"prep_admin_backend/internal/controller"
	"prep_admin_backend/internal/middleware"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	// staff only: teachers and admins, accounts still active
	api := router.Group("/api")
	api.Use(
		middleware.AuthMiddleware(),
		middleware.ActiveMiddleware(repos.profile),
		middleware.RoleMiddleware(model.Teacher),
	)
	{
		api.GET("/profile", c.auth.Profile)
		a.registerExerciseRoutes(api, c)
		a.registerLearningPathRoutes(api, c)
		a.registerLessonRoutes(api, c)
		a.registerUserRoutes(api, c)
	}

	a.registerPageRoutes(router, c, repos)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
		public.POST("/logout", c.auth.Logout)
		public.GET("/public/learning-paths", c.learningPath.Public)
	}
}

func (a *App) registerExerciseRoutes(api *gin.RouterGroup, c *controllers) {
	exercises := api.Group("/exercises")
	{
		exercises.GET("", c.exercise.List)
		exercises.POST("", c.exercise.Create)
		exercises.POST("/upload-file", c.exercise.UploadFile)
		exercises.GET("/:id", c.exercise.Get)
		exercises.PUT("/:id", c.exercise.Update)
		exercises.DELETE("/:id", c.exercise.Delete)
		exercises.PATCH("/:id/toggle-status", c.exercise.ToggleStatus)
	}
}

func (a *App) registerLearningPathRoutes(api *gin.RouterGroup, c *controllers) {
	paths := api.Group("/learning-paths")
	{
		paths.GET("", c.learningPath.List)
		paths.POST("", c.learningPath.Create)
		paths.GET("/:id", c.learningPath.Get)
		paths.PUT("/:id", c.learningPath.Update)
		paths.DELETE("/:id", c.learningPath.Delete)

		paths.POST("/:id/curriculum", c.learningPath.AddCurriculumItem)
		paths.PUT("/:id/curriculum/reorder", c.learningPath.ReorderCurriculum)

		paths.GET("/:id/items", c.learningPath.ListItems)
		paths.POST("/:id/items", c.learningPath.AddItem)
		paths.PUT("/:id/items/reorder", c.learningPath.ReorderItems)
	}

	curriculum := api.Group("/curriculum-items")
	{
		curriculum.PUT("/:itemId", c.learningPath.UpdateCurriculumItem)
		curriculum.DELETE("/:itemId", c.learningPath.DeleteCurriculumItem)
		curriculum.PATCH("/:itemId/move", c.learningPath.MoveCurriculumItem)
	}

	api.DELETE("/path-items/:itemId", c.learningPath.RemoveItem)
}

func (a *App) registerLessonRoutes(api *gin.RouterGroup, c *controllers) {
	lessons := api.Group("/lessons")
	{
		lessons.GET("", c.lesson.List)
		lessons.POST("", c.lesson.Create)
		lessons.GET("/:id", c.lesson.Get)
		lessons.PUT("/:id", c.lesson.Update)
		lessons.DELETE("/:id", c.lesson.Delete)
		lessons.POST("/:id/sections", c.lesson.AddSection)
		lessons.PUT("/:id/sections/reorder", c.lesson.ReorderSections)
	}

	sections := api.Group("/sections")
	{
		sections.PUT("/:sectionId", c.lesson.UpdateSection)
		sections.DELETE("/:sectionId", c.lesson.DeleteSection)
		sections.PATCH("/:sectionId/move", c.lesson.MoveSection)
		sections.POST("/:sectionId/audio", c.lesson.UploadAudio)
		sections.POST("/:sectionId/questions", c.lesson.AddQuestion)
		sections.PUT("/:sectionId/questions/reorder", c.lesson.ReorderQuestions)
	}

	questions := api.Group("/questions")
	{
		questions.PUT("/:questionId", c.lesson.UpdateQuestion)
		questions.DELETE("/:questionId", c.lesson.DeleteQuestion)
		questions.PATCH("/:questionId/move", c.lesson.MoveQuestion)
	}
}

func (a *App) registerUserRoutes(api *gin.RouterGroup, c *controllers) {
	users := api.Group("/users")
	{
		users.GET("", c.user.Stats)
		users.GET("/list", c.user.List)

		admin := users.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("", c.user.Create)
			admin.PUT("/:id", c.user.Update)
			admin.PATCH("/:id/toggle-status", c.user.ToggleStatus)
			admin.DELETE("/:id", c.user.Delete)
		}
	}
}

func (a *App) registerPageRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	router.GET(controller.AdminLoginPath, c.page.LoginForm)
	router.POST(controller.AdminLoginPath, c.page.Login)
	router.POST("/admin/logout", c.page.Logout)

	pages := router.Group("/admin")
	pages.Use(middleware.PageAuthMiddleware(repos.profile, controller.AdminLoginPath, model.Teacher))
	{
		pages.GET("", c.page.Dashboard)
		pages.GET("/lessons/:lessonId", c.page.LessonPage)
		pages.GET("/learning-paths/:pathId", c.page.LearningPathPage)

		pages.POST("/sections", c.page.AddSection)
		pages.POST("/sections/delete", c.page.DeleteSection)
		pages.POST("/sections/move", c.page.MoveSection)
		pages.POST("/questions", c.page.AddQuestion)
		pages.POST("/questions/delete", c.page.DeleteQuestion)
		pages.POST("/path-items", c.page.AddPathItem)
		pages.POST("/path-items/delete", c.page.RemovePathItem)
		pages.POST("/curriculum-items", c.page.AddCurriculumItem)
		pages.POST("/curriculum-items/delete", c.page.DeleteCurriculumItem)
	}
}
