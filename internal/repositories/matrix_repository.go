package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

type MatrixRepository interface {
	Create(ctx context.Context, matrix *models.ExamMatrix) error
	// GetByID preloads rows in declaration order.
	GetByID(ctx context.Context, id uint) (*models.ExamMatrix, error)
	Update(ctx context.Context, matrix *models.ExamMatrix) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters MatrixFilters) ([]*models.ExamMatrix, int64, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*models.ExamMatrix, error)

	// ReplaceRows swaps the full row set of a matrix in one go.
	ReplaceRows(ctx context.Context, matrixID uint, rows []*models.ExamMatrixRow) error
}
