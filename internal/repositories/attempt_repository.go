package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// AttemptScore carries the grading aggregates persisted on submit.
type AttemptScore struct {
	TotalScore      float64
	MaxScore        float64
	ScorePercentage float64
	CorrectCount    int
	TotalQuestions  int
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.ExamAttempt) error
	GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamAttempt, error)

	// GetActive returns the single InProgress attempt for the pair, or
	// (nil, nil) when none exists.
	GetActive(ctx context.Context, examID, studentID uint) (*models.ExamAttempt, error)
	// GetByExamAndStudent returns all attempts for the pair, attempt number
	// descending.
	GetByExamAndStudent(ctx context.Context, examID, studentID uint) ([]*models.ExamAttempt, error)
	List(ctx context.Context, filters AttemptFilters) ([]*models.ExamAttempt, int64, error)

	// CountTerminal counts attempts that have left InProgress; this is the
	// number compared against the exam's max attempts.
	CountTerminal(ctx context.Context, examID, studentID uint) (int64, error)
	// MaxAttemptNumber returns 0 when the pair has no attempts.
	MaxAttemptNumber(ctx context.Context, examID, studentID uint) (int, error)

	// Complete performs the one transition out of InProgress: a conditional
	// update guarded on the current status. Returns gorm.ErrRecordNotFound
	// when the attempt is no longer InProgress, so a concurrent double
	// submit yields exactly one success.
	Complete(ctx context.Context, id uint, score AttemptScore) (*models.ExamAttempt, error)

	GetStats(ctx context.Context, examID uint) (*AttemptStats, error)
}

type AttemptAnswerRepository interface {
	CreateBatch(ctx context.Context, answers []*models.AttemptAnswer) error
	GetByAttempt(ctx context.Context, attemptID uint) ([]*models.AttemptAnswer, error)
}
