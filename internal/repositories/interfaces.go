package repositories

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	Status    *models.ExamStatus `json:"status"`
	CreatedBy *uint              `json:"created_by"`
	DateFrom  *time.Time         `json:"date_from"`
	DateTo    *time.Time         `json:"date_to"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "updated_at", "title"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	Type       *models.QuestionType    `json:"type"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	BankID     *uint                   `json:"bank_id"`
	IsActive   *bool                   `json:"is_active"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}

type MatrixFilters struct {
	CreatedBy *uint `json:"created_by"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

type AttemptFilters struct {
	Status    *models.AttemptStatus `json:"status"`
	StudentID *uint                 `json:"student_id"`
	ExamID    *uint                 `json:"exam_id"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ExamStats struct {
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
	QuestionCount     int     `json:"question_count"`
	TotalPoints       float64 `json:"total_points"`
}

type AttemptStats struct {
	TotalAttempts   int                          `json:"total_attempts"`
	StatusBreakdown map[models.AttemptStatus]int `json:"status_breakdown"`
	AverageScore    float64                      `json:"average_score"`
	BestScore       float64                      `json:"best_score"`
}
