package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamStatusDraft    ExamStatus = "Draft"
	ExamStatusActive   ExamStatus = "Active"
	ExamStatusInactive ExamStatus = "Inactive"
)

// ScoringMethod is declared on the exam but submit always records the
// attempt's own score; cross-attempt aggregation is not applied here.
type ScoringMethod string

const (
	ScoringAverage ScoringMethod = "Average"
	ScoringHighest ScoringMethod = "Highest"
	ScoringLatest  ScoringMethod = "Latest"
)

type Exam struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Title        string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description  *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	GradeLevel   *int    `json:"grade_level"`
	ExamMatrixID *uint   `json:"exam_matrix_id" gorm:"index"`

	Status          ExamStatus    `json:"status" gorm:"default:Draft;index" validate:"omitempty,exam_status"`
	ScoringMethod   ScoringMethod `json:"scoring_method" gorm:"default:Latest" validate:"omitempty,scoring_method"`
	DurationMinutes int           `json:"duration_minutes" gorm:"not null" validate:"required,min=5,max=300"`
	MaxAttempts     int           `json:"max_attempts" gorm:"default:1" validate:"min=1,max=10"`
	StartTime       *time.Time    `json:"start_time"`
	EndTime         *time.Time    `json:"end_time"`

	// Denormalized totals, recomputed from the ExamQuestion set on every
	// add/remove so they never drift.
	TotalQuestions int     `json:"total_questions" gorm:"default:0"`
	TotalPoints    float64 `json:"total_points" gorm:"type:decimal(10,2);default:0"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	Attempts  []ExamAttempt  `json:"attempts,omitempty" gorm:"foreignKey:ExamID"`
	Matrix    *ExamMatrix    `json:"matrix,omitempty" gorm:"foreignKey:ExamMatrixID"`
	Creator   Teacher        `json:"creator" gorm:"foreignKey:CreatedBy"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion pins one question into one exam with its order and the points
// it is worth in this exam instance.
type ExamQuestion struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	ExamID     uint    `json:"exam_id" gorm:"not null;uniqueIndex:idx_exam_question;uniqueIndex:idx_exam_order"`
	QuestionID uint    `json:"question_id" gorm:"not null;uniqueIndex:idx_exam_question;index"`
	OrderIndex int     `json:"order_index" gorm:"not null;uniqueIndex:idx_exam_order"`
	Points     float64 `json:"points" gorm:"type:decimal(10,2);not null;default:1" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`

	Question Question `json:"question" gorm:"foreignKey:QuestionID"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}
