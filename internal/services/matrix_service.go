package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

type matrixService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
}

func NewMatrixService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator) MatrixService {
	return &matrixService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== MATRIX CRUD =====

func (s *matrixService) Create(ctx context.Context, req *CreateMatrixRequest, creatorID uint) (*MatrixResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	rows, err := s.buildRows(req.Rows, req.QuestionBankID)
	if err != nil {
		return nil, err
	}

	matrix := &models.ExamMatrix{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   creatorID,
		Rows:        rows,
	}
	matrix.TotalQuestions, matrix.TotalPoints = declaredTotals(rows)

	if err := s.repo.Matrix().Create(ctx, matrix); err != nil {
		return nil, fmt.Errorf("failed to create exam matrix: %w", err)
	}

	s.logger.InfoContext(ctx, "Created exam matrix",
		"matrix_id", matrix.ID,
		"rows", len(rows),
		"creator_id", creatorID)

	return s.GetByID(ctx, matrix.ID)
}

func (s *matrixService) GetByID(ctx context.Context, id uint) (*MatrixResponse, error) {
	matrix, err := s.repo.Matrix().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMatrixNotFound
		}
		return nil, fmt.Errorf("failed to get exam matrix: %w", err)
	}
	return toMatrixResponse(matrix), nil
}

func (s *matrixService) GetByCreator(ctx context.Context, creatorID uint) ([]*MatrixResponse, error) {
	matrices, err := s.repo.Matrix().GetByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam matrices: %w", err)
	}

	responses := make([]*MatrixResponse, 0, len(matrices))
	for _, matrix := range matrices {
		responses = append(responses, toMatrixResponse(matrix))
	}
	return responses, nil
}

func (s *matrixService) Update(ctx context.Context, id uint, req *UpdateMatrixRequest, actorID uint, role models.UserRole) (*MatrixResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	matrix, err := s.repo.Matrix().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMatrixNotFound
		}
		return nil, fmt.Errorf("failed to get exam matrix: %w", err)
	}
	if matrix.CreatedBy != actorID && role != models.RoleAdmin {
		return nil, NewPermissionError(actorID, id, "exam_matrix", "update", "not the owner")
	}

	if req.Name != nil {
		matrix.Name = *req.Name
	}
	if req.Description != nil {
		matrix.Description = req.Description
	}

	if len(req.Rows) > 0 {
		rows, err := s.buildRows(req.Rows, req.QuestionBankID)
		if err != nil {
			return nil, err
		}

		rowPtrs := make([]*models.ExamMatrixRow, 0, len(rows))
		for i := range rows {
			rowPtrs = append(rowPtrs, &rows[i])
		}
		if err := s.repo.Matrix().ReplaceRows(ctx, id, rowPtrs); err != nil {
			return nil, fmt.Errorf("failed to replace matrix rows: %w", err)
		}
		matrix.TotalQuestions, matrix.TotalPoints = declaredTotals(rows)
		matrix.Rows = nil
	}

	if err := s.repo.Matrix().Update(ctx, matrix); err != nil {
		return nil, fmt.Errorf("failed to update exam matrix: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *matrixService) Delete(ctx context.Context, id, actorID uint, role models.UserRole) error {
	matrix, err := s.repo.Matrix().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMatrixNotFound
		}
		return fmt.Errorf("failed to get exam matrix: %w", err)
	}
	if matrix.CreatedBy != actorID && role != models.RoleAdmin {
		return NewPermissionError(actorID, id, "exam_matrix", "delete", "not the owner")
	}

	if err := s.repo.Matrix().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exam matrix: %w", err)
	}

	s.logger.InfoContext(ctx, "Deleted exam matrix", "matrix_id", id, "actor_id", actorID)
	return nil
}

// ===== RESOLUTION =====

// Preview is the dry-run: resolve the spec against current bank contents,
// persist nothing.
func (s *matrixService) Preview(ctx context.Context, req *PreviewMatrixRequest) (*MatrixPreviewResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var resolved []ResolvedRow
	var err error
	switch {
	case req.ExamMatrixID != nil:
		resolved, err = s.ResolvePersisted(ctx, *req.ExamMatrixID)
	case len(req.Rows) > 0:
		resolved, err = s.Resolve(ctx, req.Rows, req.QuestionBankID)
	default:
		return nil, ErrMatrixEmpty
	}
	if err != nil {
		return nil, err
	}

	resp := &MatrixPreviewResponse{
		Rows: make([]PreviewRowResponse, 0, len(resolved)),
	}
	for _, row := range resolved {
		previewRow := PreviewRowResponse{
			QuestionBankID:    row.QuestionBankID,
			Difficulty:        row.Difficulty.String(),
			Requested:         row.Requested,
			Available:         len(row.Questions),
			PointsPerQuestion: row.PointsPerQuestion,
			Questions:         make([]PreviewQuestionResponse, 0, len(row.Questions)),
		}
		for _, q := range row.Questions {
			previewRow.Questions = append(previewRow.Questions, PreviewQuestionResponse{
				ID:           q.ID,
				Content:      q.Content,
				QuestionType: q.QuestionType,
				Difficulty:   q.Difficulty.String(),
			})
		}
		resp.Rows = append(resp.Rows, previewRow)
		resp.TotalQuestions += len(row.Questions)
		resp.TotalPoints += float64(len(row.Questions)) * row.PointsPerQuestion
	}
	resp.TotalPoints = roundHalfUp(resp.TotalPoints)

	return resp, nil
}

func (s *matrixService) Resolve(ctx context.Context, rows []MatrixRowRequest, defaultBankID *uint) ([]ResolvedRow, error) {
	if len(rows) == 0 {
		return nil, ErrMatrixEmpty
	}

	resolved := make([]ResolvedRow, 0, len(rows))
	for i, row := range rows {
		bankID := defaultBankID
		if row.QuestionBankID != nil {
			bankID = row.QuestionBankID
		}
		if bankID == nil {
			return nil, fmt.Errorf("row %d: %w", i, ErrBankRequired)
		}

		difficulty, err := parseRowDifficulty(row.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		r, err := s.resolveRow(ctx, *bankID, difficulty, row.QuestionCount, row.PointsPerQuestion)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		resolved = append(resolved, r)
	}

	return resolved, nil
}

func (s *matrixService) ResolvePersisted(ctx context.Context, matrixID uint) ([]ResolvedRow, error) {
	matrix, err := s.repo.Matrix().GetByID(ctx, matrixID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMatrixNotFound
		}
		return nil, fmt.Errorf("failed to get exam matrix: %w", err)
	}
	if len(matrix.Rows) == 0 {
		return nil, ErrMatrixEmpty
	}

	resolved := make([]ResolvedRow, 0, len(matrix.Rows))
	for i, row := range matrix.Rows {
		r, err := s.resolveRow(ctx, row.QuestionBankID, row.Difficulty, row.QuestionCount, row.PointsPerQuestion)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		resolved = append(resolved, r)
	}

	return resolved, nil
}

// resolveRow draws one row's sample. Fewer questions than requested is not an
// error; the bank simply cannot fill the row right now.
func (s *matrixService) resolveRow(ctx context.Context, bankID uint, difficulty models.DifficultyLevel, count int, points float64) (ResolvedRow, error) {
	if _, err := s.repo.QuestionBank().GetByID(ctx, bankID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ResolvedRow{}, ErrQuestionBankNotFound
		}
		return ResolvedRow{}, fmt.Errorf("failed to get question bank: %w", err)
	}

	questions, err := s.repo.Question().FindRandomByBankAndDifficulty(ctx, bankID, difficulty, count)
	if err != nil {
		return ResolvedRow{}, fmt.Errorf("failed to sample questions: %w", err)
	}

	if len(questions) < count {
		s.logger.WarnContext(ctx, "Bank could not fill matrix row",
			"bank_id", bankID,
			"difficulty", difficulty.String(),
			"requested", count,
			"available", len(questions))
	}

	return ResolvedRow{
		QuestionBankID:    bankID,
		Difficulty:        difficulty,
		Requested:         count,
		PointsPerQuestion: points,
		Questions:         questions,
	}, nil
}

// ===== HELPERS =====

// buildRows converts request rows into model rows, applying the default bank
// and parsing difficulties. Order indices are assigned sequentially.
func (s *matrixService) buildRows(reqRows []MatrixRowRequest, defaultBankID *uint) ([]models.ExamMatrixRow, error) {
	rows := make([]models.ExamMatrixRow, 0, len(reqRows))
	for i, row := range reqRows {
		bankID := defaultBankID
		if row.QuestionBankID != nil {
			bankID = row.QuestionBankID
		}
		if bankID == nil {
			return nil, fmt.Errorf("row %d: %w", i, ErrBankRequired)
		}

		difficulty, err := parseRowDifficulty(row.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		rows = append(rows, models.ExamMatrixRow{
			QuestionBankID:    *bankID,
			Domain:            row.Domain,
			Difficulty:        difficulty,
			QuestionCount:     row.QuestionCount,
			PointsPerQuestion: row.PointsPerQuestion,
			OrderIndex:        i,
		})
	}
	return rows, nil
}

// declaredTotals sums what the rows ask for, which is an upper bound on what
// generation can deliver.
func declaredTotals(rows []models.ExamMatrixRow) (int, float64) {
	var questions int
	var points float64
	for _, row := range rows {
		questions += row.QuestionCount
		points += float64(row.QuestionCount) * row.PointsPerQuestion
	}
	return questions, roundHalfUp(points)
}

// parseRowDifficulty accepts a numeric level or a symbolic label.
func parseRowDifficulty(value string) (models.DifficultyLevel, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 1 {
			return 0, ErrUnknownDifficulty
		}
		return models.DifficultyLevel(n), nil
	}
	if level, ok := models.ParseDifficulty(trimmed); ok {
		return level, nil
	}
	return 0, ErrUnknownDifficulty
}
