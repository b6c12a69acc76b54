package models

import (
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "InProgress"
	AttemptCompleted  AttemptStatus = "Completed"
	// Declared for manual grading and timeout handling; no transition into
	// either is implemented yet.
	AttemptGraded  AttemptStatus = "Graded"
	AttemptExpired AttemptStatus = "Expired"
)

// IsTerminal reports whether the attempt has left InProgress. Terminal
// attempts count against the exam's max attempts and cannot be resubmitted.
func (s AttemptStatus) IsTerminal() bool {
	return s != AttemptInProgress
}

// ExamAttempt is one student's single sitting of one exam. Attempts are never
// deleted; the full history (including abandoned in-progress rows) is kept.
//
// The partial unique index on (exam_id, student_id) for InProgress rows is
// what makes concurrent starts safe: at most one open attempt per pair can
// exist at the storage layer.
type ExamAttempt struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ExamID    uint `json:"exam_id" gorm:"not null;uniqueIndex:idx_attempt_number;uniqueIndex:idx_attempt_active,where:status = 'InProgress'"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_attempt_number;uniqueIndex:idx_attempt_active"`

	// 1-based, monotonically increasing per (exam, student); computed as
	// 1 + max existing number, never as a row count.
	AttemptNumber int `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_number"`

	Status      AttemptStatus `json:"status" gorm:"not null;default:InProgress;index"`
	StartedAt   time.Time     `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time    `json:"submitted_at"`

	TotalScore      float64 `json:"total_score" gorm:"type:decimal(10,2);default:0"`
	MaxScore        float64 `json:"max_score" gorm:"type:decimal(10,2);default:0"`
	ScorePercentage float64 `json:"score_percentage" gorm:"type:decimal(5,2);default:0"`
	CorrectCount    int     `json:"correct_count" gorm:"default:0"`
	TotalQuestions  int     `json:"total_questions" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Answers []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
	Exam    Exam            `json:"-" gorm:"foreignKey:ExamID"`
	Student Student         `json:"-" gorm:"foreignKey:StudentID"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// IncorrectCount derives the unanswered-or-wrong count from the persisted
// aggregates.
func (a *ExamAttempt) IncorrectCount() int {
	return a.TotalQuestions - a.CorrectCount
}

// AttemptAnswer records how one question was answered within one attempt.
// PointsEarned is all-or-nothing: either zero or the ExamQuestion's points.
type AttemptAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	AttemptID  uint `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_answer"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_answer"`

	SelectedAnswerID *uint   `json:"selected_answer_id"`
	TextAnswer       *string `json:"text_answer" gorm:"type:text"`

	IsCorrect      bool    `json:"is_correct" gorm:"default:false"`
	PointsEarned   float64 `json:"points_earned" gorm:"type:decimal(10,2);default:0"`
	PointsPossible float64 `json:"points_possible" gorm:"type:decimal(10,2);default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
