package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	accountService services.AccountService
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	accountService services.AccountService,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		accountService: accountService,
	}
}

// submitAttemptBody names the exam alongside the answers; the open attempt is
// located by (exam, student), never by attempt id.
type submitAttemptBody struct {
	ExamID  uint                       `json:"exam_id" binding:"required"`
	Answers []services.SubmittedAnswer `json:"answers"`
}

// StartAttempt opens (or resumes) a sitting of an exam
// @Summary Start attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param attempt body services.StartAttemptRequest true "Exam to start"
// @Success 201 {object} services.AttemptResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/start [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req services.StartAttemptRequest
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
	if _, err := h.accountService.EnsureStudent(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if attempt.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, attempt)
}

// SubmitAttempt grades and closes the open attempt
// @Summary Submit attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Success 200 {object} services.AttemptResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var body submitAttemptBody
	if err := c.ShouldBindJSON(&body); err != nil {
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

	req := &services.SubmitAttemptRequest{Answers: body.Answers}
	attempt, err := h.attemptService.Submit(c.Request.Context(), body.ExamID, req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// GetAttempt retrieves one attempt with its per-question answers
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// GetMyAttempts lists the caller's attempts on one exam, newest first
func (h *AttemptHandler) GetMyAttempts(c *gin.Context) {
	examID := parseIDParam(c, "exam_id")
	if examID == 0 {
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	attempts, err := h.attemptService.GetMyAttempts(c.Request.Context(), examID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

// ListAttempts lists attempts with filters; teachers and admins only
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	_, role, ok := currentUser(c)
	if !ok {
		return
	}
	if role == models.RoleStudent {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
		return
	}

	filters := repositories.AttemptFilters{
		Limit:     parseIntQuery(c, "size", 10),
		Offset:    (parseIntQuery(c, "page", 1) - 1) * parseIntQuery(c, "size", 10),
		ExamID:    parseUintQueryPtr(c, "exam_id"),
		StudentID: parseUintQueryPtr(c, "student_id"),
	}
	if status := c.Query("status"); status != "" {
		s := models.AttemptStatus(status)
		filters.Status = &s
	}

	attempts, err := h.attemptService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}
