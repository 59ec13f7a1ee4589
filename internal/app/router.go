package app

import (
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "lms_backend/docs"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// Public surface: account creation and the published course catalog.
	api.POST("/register", c.auth.Register)
	api.POST("/login", c.auth.Login)
	api.GET("/courses", c.course.ListCourses)
	api.GET("/courses/:id", c.course.GetCourse)

	// Learner surface: everything here requires a signed-in user.
	learner := api.Group("")
	learner.Use(middleware.AuthMiddleware(cfg))
	learner.Use(middleware.ActivityMiddleware(repos.user))
	{
		learner.GET("/courses/:id/modules", c.course.ListModules)
		learner.GET("/courses/:id/lessons", c.lesson.ListLessons)
		learner.GET("/courses/:id/progress", c.course.GetProgress)
		learner.POST("/courses/:id/start", c.course.StartCourse)

		learner.GET("/lessons/:id", c.lesson.GetLesson)
		learner.POST("/lessons/:id/start", c.lesson.StartLesson)
		learner.POST("/lessons/:id/complete", c.lesson.CompleteLesson)
		learner.POST("/lessons/:id/reset", c.lesson.ResetLesson)

		learner.GET("/quizzes/:id", c.quiz.GetQuiz)
		learner.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
		learner.POST("/quizzes/:id/answer-file", c.quiz.UploadAnswerFile)
		learner.POST("/quizzes/:id/reset", c.quiz.ResetQuiz)
	}

	// Teaching surface: course authoring, quiz assembly, the question bank
	// and manual grading. Admins pass every role check.
	teacher := api.Group("/teacher")
	teacher.Use(middleware.AuthMiddleware(cfg))
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.PUT("/courses/:id", c.course.UpdateCourse)
		teacher.DELETE("/courses/:id", c.course.DeleteCourse)
		teacher.POST("/courses/:id/modules", c.course.CreateModule)
		teacher.POST("/courses/:id/lessons", c.lesson.CreateLesson)

		teacher.PUT("/lessons/:id", c.lesson.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.lesson.DeleteLesson)
		teacher.POST("/lessons/:id/quiz", c.quiz.CreateQuiz)

		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.GET("/quizzes/:id/questions", c.quiz.GetQuizForEditing)
		teacher.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		teacher.DELETE("/quizzes/:id/questions/:rowId", c.quiz.RemoveQuestion)
		teacher.PUT("/quizzes/:id/questions/reorder", c.quiz.ReorderQuestions)
		teacher.GET("/quizzes/:id/manual", c.grading.ListPending)
		teacher.POST("/quizzes/:id/manual", c.grading.SaveManualGrades)

		teacher.POST("/questions", c.question.CreateQuestion)
		teacher.GET("/questions", c.question.ListQuestions)
		teacher.GET("/questions/:id", c.question.GetQuestion)
		teacher.PUT("/questions/:id", c.question.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.question.DeleteQuestion)
		teacher.POST("/question-categories", c.question.CreateCategory)
		teacher.GET("/question-categories", c.question.ListCategories)
	}
}
