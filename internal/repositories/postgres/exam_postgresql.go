package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	return e.db.WithContext(ctx).Create(exam).Error
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := e.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	if err := e.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.MultipleChoiceAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Question.FillBlankAnswers").
		First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) Update(ctx context.Context, exam *models.Exam) error {
	return e.db.WithContext(ctx).Save(exam).Error
}

func (e *ExamPostgreSQL) Delete(ctx context.Context, id uint) error {
	return e.db.WithContext(ctx).Delete(&models.Exam{}, id).Error
}

func (e *ExamPostgreSQL) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	var exams []*models.Exam
	var total int64

	query := e.db.WithContext(ctx).Model(&models.Exam{})
	query = e.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&exams).Error; err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

func (e *ExamPostgreSQL) GetByCreator(ctx context.Context, creatorID uint, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	filters.CreatedBy = &creatorID
	return e.List(ctx, filters)
}

func (e *ExamPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) error {
	return e.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (e *ExamPostgreSQL) UpdateTotals(ctx context.Context, id uint, totalQuestions int, totalPoints float64) error {
	return e.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_questions": totalQuestions,
			"total_points":    totalPoints,
		}).Error
}

func (e *ExamPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.ExamStats, error) {
	var exam models.Exam
	if err := e.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return nil, err
	}

	var totalAttempts, completedAttempts int64
	if err := e.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ?", id).
		Count(&totalAttempts).Error; err != nil {
		return nil, err
	}
	if err := e.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ? AND status = ?", id, models.AttemptCompleted).
		Count(&completedAttempts).Error; err != nil {
		return nil, err
	}

	var avgScore float64
	e.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ? AND status = ?", id, models.AttemptCompleted).
		Select("COALESCE(AVG(total_score), 0)").
		Scan(&avgScore)

	return &repositories.ExamStats{
		TotalAttempts:     int(totalAttempts),
		CompletedAttempts: int(completedAttempts),
		AverageScore:      avgScore,
		QuestionCount:     exam.TotalQuestions,
		TotalPoints:       exam.TotalPoints,
	}, nil
}

func (e *ExamPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
