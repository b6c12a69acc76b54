package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamQuestionPostgreSQL struct {
	db *gorm.DB
}

func NewExamQuestionPostgreSQL(db *gorm.DB) repositories.ExamQuestionRepository {
	return &ExamQuestionPostgreSQL{db: db}
}

func (e *ExamQuestionPostgreSQL) Create(ctx context.Context, eq *models.ExamQuestion) error {
	return e.db.WithContext(ctx).Create(eq).Error
}

func (e *ExamQuestionPostgreSQL) CreateBatch(ctx context.Context, eqs []*models.ExamQuestion) error {
	if len(eqs) == 0 {
		return nil
	}
	return e.db.WithContext(ctx).Create(eqs).Error
}

func (e *ExamQuestionPostgreSQL) GetByExam(ctx context.Context, examID uint) ([]*models.ExamQuestion, error) {
	var eqs []*models.ExamQuestion
	if err := e.db.WithContext(ctx).
		Preload("Question").
		Preload("Question.MultipleChoiceAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Question.FillBlankAnswers").
		Where("exam_id = ?", examID).
		Order("order_index ASC").
		Find(&eqs).Error; err != nil {
		return nil, err
	}
	return eqs, nil
}

func (e *ExamQuestionPostgreSQL) GetByExamAndQuestion(ctx context.Context, examID, questionID uint) (*models.ExamQuestion, error) {
	var eq models.ExamQuestion
	if err := e.db.WithContext(ctx).
		Where("exam_id = ? AND question_id = ?", examID, questionID).
		First(&eq).Error; err != nil {
		return nil, err
	}
	return &eq, nil
}

func (e *ExamQuestionPostgreSQL) Delete(ctx context.Context, examID, questionID uint) error {
	return e.db.WithContext(ctx).
		Where("exam_id = ? AND question_id = ?", examID, questionID).
		Delete(&models.ExamQuestion{}).Error
}

func (e *ExamQuestionPostgreSQL) MaxOrderIndex(ctx context.Context, examID uint) (int, error) {
	var max int
	err := e.db.WithContext(ctx).
		Model(&models.ExamQuestion{}).
		Where("exam_id = ?", examID).
		Select("COALESCE(MAX(order_index), -1)").
		Scan(&max).Error
	return max, err
}

func (e *ExamQuestionPostgreSQL) SumPoints(ctx context.Context, examID uint) (float64, error) {
	var sum float64
	err := e.db.WithContext(ctx).
		Model(&models.ExamQuestion{}).
		Where("exam_id = ?", examID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

func (e *ExamQuestionPostgreSQL) Count(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.ExamQuestion{}).
		Where("exam_id = ?", examID).
		Count(&count).Error
	return count, err
}
