package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	BaseHandler
	examService    services.ExamService
	accountService services.AccountService
	exportService  services.ExportService
}

func NewExamHandler(
	examService services.ExamService,
	accountService services.AccountService,
	exportService services.ExportService,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler:    NewBaseHandler(logger),
		examService:    examService,
		accountService: accountService,
		exportService:  exportService,
	}
}

// CreateExam creates a new exam
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body services.CreateExamRequest true "Exam data"
// @Success 201 {object} services.ExamResponse
// @Failure 400 {object} ErrorResponse
// @Router /exams [post]
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	if _, err := h.accountService.EnsureTeacher(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// GenerateExam creates an exam with its question set filled from a matrix
// @Summary Generate exam from matrix
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body services.CreateExamFromMatrixRequest true "Generation spec"
// @Success 201 {object} services.ExamDetailResponse
// @Failure 400 {object} ErrorResponse
// @Router /exams/generate [post]
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	var req services.CreateExamFromMatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	if _, err := h.accountService.EnsureTeacher(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	exam, err := h.examService.CreateFromMatrix(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// GetExam retrieves an exam with its ordered question set
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// ListExams lists exams with optional status/creator filters
func (h *ExamHandler) ListExams(c *gin.Context) {
	filters := parseExamFilters(c)

	exams, err := h.examService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// UpdateExam updates a non-active exam's metadata
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, &req, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// DeleteExam soft deletes an exam
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id, userID, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam deleted"})
}

// PublishExam transitions an exam to Active
func (h *ExamHandler) PublishExam(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	exam, err := h.examService.Publish(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// SaveExamToDraft transitions an exam back to Draft
func (h *ExamHandler) SaveExamToDraft(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	exam, err := h.examService.SaveToDraft(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// AddQuestions appends questions to an exam's question set
func (h *ExamHandler) AddQuestions(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	exam, err := h.examService.AddQuestions(c.Request.Context(), id, &req, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// RemoveQuestion detaches one question from an exam
func (h *ExamHandler) RemoveQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.examService.RemoveQuestion(c.Request.Context(), id, questionID, userID, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question removed"})
}

// GetExamStats returns attempt statistics for an exam
func (h *ExamHandler) GetExamStats(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.examService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportAttempts streams the exam's attempt report as an .xlsx workbook
func (h *ExamHandler) ExportAttempts(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.ExportAttempts(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseExamFilters(c *gin.Context) repositories.ExamFilters {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 10)

	filters := repositories.ExamFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		CreatedBy: parseUintQueryPtr(c, "created_by"),
	}

	if status := c.Query("status"); status != "" {
		s := models.ExamStatus(status)
		filters.Status = &s
	}

	return filters
}
