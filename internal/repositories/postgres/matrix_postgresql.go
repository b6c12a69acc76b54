package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type MatrixPostgreSQL struct {
	db *gorm.DB
}

func NewMatrixPostgreSQL(db *gorm.DB) repositories.MatrixRepository {
	return &MatrixPostgreSQL{db: db}
}

func (m *MatrixPostgreSQL) Create(ctx context.Context, matrix *models.ExamMatrix) error {
	return m.db.WithContext(ctx).Create(matrix).Error
}

func (m *MatrixPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamMatrix, error) {
	var matrix models.ExamMatrix
	if err := m.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&matrix, id).Error; err != nil {
		return nil, err
	}
	return &matrix, nil
}

func (m *MatrixPostgreSQL) Update(ctx context.Context, matrix *models.ExamMatrix) error {
	return m.db.WithContext(ctx).Save(matrix).Error
}

func (m *MatrixPostgreSQL) Delete(ctx context.Context, id uint) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_matrix_id = ?", id).Delete(&models.ExamMatrixRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ExamMatrix{}, id).Error
	})
}

func (m *MatrixPostgreSQL) List(ctx context.Context, filters repositories.MatrixFilters) ([]*models.ExamMatrix, int64, error) {
	var matrices []*models.ExamMatrix
	var total int64

	query := m.db.WithContext(ctx).Model(&models.ExamMatrix{})
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "", "", filters.Limit, filters.Offset)

	if err := query.Preload("Rows", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Find(&matrices).Error; err != nil {
		return nil, 0, err
	}

	return matrices, total, nil
}

func (m *MatrixPostgreSQL) GetByCreator(ctx context.Context, creatorID uint) ([]*models.ExamMatrix, error) {
	var matrices []*models.ExamMatrix
	if err := m.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("created_by = ?", creatorID).
		Order("created_at DESC").
		Find(&matrices).Error; err != nil {
		return nil, err
	}
	return matrices, nil
}

func (m *MatrixPostgreSQL) ReplaceRows(ctx context.Context, matrixID uint, rows []*models.ExamMatrixRow) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_matrix_id = ?", matrixID).Delete(&models.ExamMatrixRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			row.ExamMatrixID = matrixID
		}
		return tx.Create(rows).Error
	})
}
