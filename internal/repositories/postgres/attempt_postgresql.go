package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := a.db.WithContext(ctx).
		Preload("Answers").
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetActive(ctx context.Context, examID, studentID uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := a.db.WithContext(ctx).
		Where("exam_id = ? AND student_id = ? AND status = ?", examID, studentID, models.AttemptInProgress).
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByExamAndStudent(ctx context.Context, examID, studentID uint) ([]*models.ExamAttempt, error) {
	var attempts []*models.ExamAttempt
	if err := a.db.WithContext(ctx).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Order("attempt_number DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	var attempts []*models.ExamAttempt
	var total int64

	query := a.db.WithContext(ctx).Model(&models.ExamAttempt{})
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "", "", filters.Limit, filters.Offset)

	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (a *AttemptPostgreSQL) CountTerminal(ctx context.Context, examID, studentID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ? AND student_id = ? AND status <> ?", examID, studentID, models.AttemptInProgress).
		Count(&count).Error
	return count, err
}

func (a *AttemptPostgreSQL) MaxAttemptNumber(ctx context.Context, examID, studentID uint) (int, error) {
	var max int
	err := a.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&max).Error
	return max, err
}

func (a *AttemptPostgreSQL) Complete(ctx context.Context, id uint, score repositories.AttemptScore) (*models.ExamAttempt, error) {
	now := time.Now()
	res := a.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("id = ? AND status = ?", id, models.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":           models.AttemptCompleted,
			"submitted_at":     now,
			"total_score":      score.TotalScore,
			"max_score":        score.MaxScore,
			"score_percentage": score.ScorePercentage,
			"correct_count":    score.CorrectCount,
			"total_questions":  score.TotalQuestions,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race or already submitted.
		return nil, gorm.ErrRecordNotFound
	}

	return a.GetByID(ctx, id)
}

func (a *AttemptPostgreSQL) GetStats(ctx context.Context, examID uint) (*repositories.AttemptStats, error) {
	var total int64
	if err := a.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ?", examID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	breakdown := make(map[models.AttemptStatus]int)
	statuses := []models.AttemptStatus{
		models.AttemptInProgress,
		models.AttemptCompleted,
		models.AttemptGraded,
		models.AttemptExpired,
	}
	for _, status := range statuses {
		var count int64
		if err := a.db.WithContext(ctx).
			Model(&models.ExamAttempt{}).
			Where("exam_id = ? AND status = ?", examID, status).
			Count(&count).Error; err != nil {
			return nil, err
		}
		breakdown[status] = int(count)
	}

	var avgScore, bestScore float64
	a.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ? AND status = ?", examID, models.AttemptCompleted).
		Select("COALESCE(AVG(total_score), 0)").
		Scan(&avgScore)
	a.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("exam_id = ? AND status = ?", examID, models.AttemptCompleted).
		Select("COALESCE(MAX(total_score), 0)").
		Scan(&bestScore)

	return &repositories.AttemptStats{
		TotalAttempts:   int(total),
		StatusBreakdown: breakdown,
		AverageScore:    avgScore,
		BestScore:       bestScore,
	}, nil
}

type AttemptAnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptAnswerPostgreSQL(db *gorm.DB) repositories.AttemptAnswerRepository {
	return &AttemptAnswerPostgreSQL{db: db}
}

func (a *AttemptAnswerPostgreSQL) CreateBatch(ctx context.Context, answers []*models.AttemptAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).Create(answers).Error
}

func (a *AttemptAnswerPostgreSQL) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.AttemptAnswer, error) {
	var answers []*models.AttemptAnswer
	if err := a.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}
