package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	// GetByIDWithQuestions preloads the ordered ExamQuestion set with each
	// question's answer records, as grading needs them.
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int64, error)
	GetByCreator(ctx context.Context, creatorID uint, filters ExamFilters) ([]*models.Exam, int64, error)

	UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) error
	// UpdateTotals persists the recomputed denormalized counters.
	UpdateTotals(ctx context.Context, id uint, totalQuestions int, totalPoints float64) error

	GetStats(ctx context.Context, id uint) (*ExamStats, error)
}

type ExamQuestionRepository interface {
	Create(ctx context.Context, eq *models.ExamQuestion) error
	CreateBatch(ctx context.Context, eqs []*models.ExamQuestion) error
	GetByExam(ctx context.Context, examID uint) ([]*models.ExamQuestion, error)
	GetByExamAndQuestion(ctx context.Context, examID, questionID uint) (*models.ExamQuestion, error)
	Delete(ctx context.Context, examID, questionID uint) error

	// MaxOrderIndex returns -1 for an exam with no questions so the next
	// index is always max+1.
	MaxOrderIndex(ctx context.Context, examID uint) (int, error)
	SumPoints(ctx context.Context, examID uint) (float64, error)
	Count(ctx context.Context, examID uint) (int64, error)
}
