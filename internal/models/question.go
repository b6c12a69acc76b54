package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	FillBlank      QuestionType = "fill_blank"
)

// DifficultyLevel is a small positive integer; 1..3 carry symbolic names.
type DifficultyLevel int

const (
	DifficultyEasy   DifficultyLevel = 1
	DifficultyMedium DifficultyLevel = 2
	DifficultyHard   DifficultyLevel = 3
)

func (d DifficultyLevel) String() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ParseDifficulty maps a symbolic label to its level. The second return is
// false when the label matches no known difficulty.
func ParseDifficulty(label string) (DifficultyLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return 0, false
	}
}

type QuestionBank struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	GradeLevel  *int    `json:"grade_level"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuestionBankID"`
	Creator   Teacher    `json:"creator" gorm:"foreignKey:CreatedBy"`
}

func (QuestionBank) TableName() string {
	return "question_banks"
}

type Question struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	QuestionBankID uint            `json:"question_bank_id" gorm:"not null;index"`
	Title          *string         `json:"title" gorm:"size:200"`
	Content        string          `json:"content" gorm:"not null;type:text" validate:"required"`
	QuestionType   QuestionType    `json:"question_type" gorm:"not null;size:30;index" validate:"required,question_type"`
	Difficulty     DifficultyLevel `json:"difficulty" gorm:"not null;index" validate:"required,min=1"`
	IsActive       bool            `json:"is_active" gorm:"default:true;index"`

	// Free-form extras (images, hints, rendering flags).
	AdditionalData datatypes.JSON `json:"additional_data,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations: exactly one of the two answer sets is populated, keyed on
	// QuestionType. Grading dispatches on the type, never on both sets.
	MultipleChoiceAnswers []MultipleChoiceAnswer `json:"multiple_choice_answers,omitempty" gorm:"foreignKey:QuestionID"`
	FillBlankAnswers      []FillBlankAnswer      `json:"fill_blank_answers,omitempty" gorm:"foreignKey:QuestionID"`
	QuestionBank          QuestionBank           `json:"-" gorm:"foreignKey:QuestionBankID"`
}

func (Question) TableName() string {
	return "questions"
}

type MultipleChoiceAnswer struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	AnswerText string  `json:"answer_text" gorm:"not null;type:text" validate:"required"`
	IsCorrect  bool    `json:"is_correct" gorm:"default:false"`
	OrderIndex int     `json:"order_index" gorm:"not null;default:0"`
	Explanation *string `json:"explanation" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MultipleChoiceAnswer) TableName() string {
	return "question_multiple_choice_answers"
}

type FillBlankAnswer struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	QuestionID    uint    `json:"question_id" gorm:"not null;index"`
	CorrectAnswer string  `json:"correct_answer" gorm:"not null;type:text" validate:"required"`
	Explanation   *string `json:"explanation" gorm:"type:text"`

	// NormalizedCorrectAnswer is the trimmed, lower-cased form used for
	// matching. Kept in sync with CorrectAnswer by Normalize.
	NormalizedCorrectAnswer string `json:"-" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FillBlankAnswer) TableName() string {
	return "question_fill_blank_answers"
}

// Normalize derives the matching form from CorrectAnswer.
func (a *FillBlankAnswer) Normalize() {
	a.NormalizedCorrectAnswer = NormalizeAnswerText(a.CorrectAnswer)
}

// NormalizeAnswerText applies the tolerant-match normalization used for
// fill-in-blank grading: whitespace trimmed, case folded.
func NormalizeAnswerText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
