package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type MatrixHandler struct {
	BaseHandler
	matrixService  services.MatrixService
	accountService services.AccountService
}

func NewMatrixHandler(
	matrixService services.MatrixService,
	accountService services.AccountService,
	logger utils.Logger,
) *MatrixHandler {
	return &MatrixHandler{
		BaseHandler:    NewBaseHandler(logger),
		matrixService:  matrixService,
		accountService: accountService,
	}
}

// CreateMatrix creates a reusable sampling blueprint
// @Summary Create exam matrix
// @Tags exam-matrices
// @Accept json
// @Produce json
// @Param matrix body services.CreateMatrixRequest true "Matrix data"
// @Success 201 {object} services.MatrixResponse
// @Failure 400 {object} ErrorResponse
// @Router /exam-matrices [post]
func (h *MatrixHandler) CreateMatrix(c *gin.Context) {
	var req services.CreateMatrixRequest
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

	matrix, err := h.matrixService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, matrix)
}

// GetMatrix retrieves a matrix with its rows
func (h *MatrixHandler) GetMatrix(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	matrix, err := h.matrixService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matrix)
}

// ListMyMatrices lists the calling teacher's matrices
func (h *MatrixHandler) ListMyMatrices(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	matrices, err := h.matrixService.GetByCreator(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matrices)
}

// UpdateMatrix updates a matrix, optionally replacing its full row set
func (h *MatrixHandler) UpdateMatrix(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateMatrixRequest
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

	matrix, err := h.matrixService.Update(c.Request.Context(), id, &req, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matrix)
}

// DeleteMatrix soft deletes a matrix and its rows
func (h *MatrixHandler) DeleteMatrix(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.matrixService.Delete(c.Request.Context(), id, userID, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam matrix deleted"})
}

// PreviewMatrix dry-runs the sampling against current bank contents
// @Summary Preview matrix resolution
// @Tags exam-matrices
// @Accept json
// @Produce json
// @Param preview body services.PreviewMatrixRequest true "Preview spec"
// @Success 200 {object} services.MatrixPreviewResponse
// @Failure 400 {object} ErrorResponse
// @Router /exam-matrices/preview [post]
func (h *MatrixHandler) PreviewMatrix(c *gin.Context) {
	var req services.PreviewMatrixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if _, _, ok := currentUser(c); !ok {
		return
	}

	preview, err := h.matrixService.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}
