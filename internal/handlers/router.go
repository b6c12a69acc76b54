package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	examHandler    *ExamHandler
	matrixHandler  *MatrixHandler
	attemptHandler *AttemptHandler
}

func NewHandlerManager(
	serviceManager *services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler:    NewExamHandler(serviceManager.Exam(), serviceManager.Account(), serviceManager.Export(), logger),
		matrixHandler:  NewMatrixHandler(serviceManager.Matrix(), serviceManager.Account(), logger),
		attemptHandler: NewAttemptHandler(serviceManager.Attempt(), serviceManager.Account(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "exam-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware)
	{
		// Exam routes
		exams := v1.Group("/exams")
		{
			exams.POST("", hm.examHandler.CreateExam)
			exams.POST("/generate", hm.examHandler.GenerateExam)
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.PUT("/:id", hm.examHandler.UpdateExam)
			exams.DELETE("/:id", hm.examHandler.DeleteExam)
			exams.POST("/:id/publish", hm.examHandler.PublishExam)
			exams.POST("/:id/draft", hm.examHandler.SaveExamToDraft)
			exams.GET("/:id/stats", hm.examHandler.GetExamStats)

			// Exam question management
			exams.POST("/:id/questions", hm.examHandler.AddQuestions)
			exams.DELETE("/:id/questions/:question_id", hm.examHandler.RemoveQuestion)

			// Attempt report
			exams.GET("/:id/attempts/export", hm.examHandler.ExportAttempts)
		}

		// Exam matrix routes
		matrices := v1.Group("/exam-matrices")
		{
			matrices.POST("", hm.matrixHandler.CreateMatrix)
			matrices.POST("/preview", hm.matrixHandler.PreviewMatrix)
			matrices.GET("", hm.matrixHandler.ListMyMatrices)
			matrices.GET("/:id", hm.matrixHandler.GetMatrix)
			matrices.PUT("/:id", hm.matrixHandler.UpdateMatrix)
			matrices.DELETE("/:id", hm.matrixHandler.DeleteMatrix)
		}

		// Attempt routes
		attempts := v1.Group("/attempts")
		{
			attempts.POST("/start", hm.attemptHandler.StartAttempt)
			attempts.POST("/submit", hm.attemptHandler.SubmitAttempt)
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.GET("/exam/:exam_id/my", hm.attemptHandler.GetMyAttempts)
		}
	}
}
