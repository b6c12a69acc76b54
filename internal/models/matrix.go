package models

import (
	"time"

	"gorm.io/gorm"
)

// ExamMatrix is a reusable blueprint of sampling rows used to auto-generate
// an exam's question set.
type ExamMatrix struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Declared totals: sum of row counts and count*points across rows. The
	// concrete exam may end up smaller when a bank cannot fill a row.
	TotalQuestions int     `json:"total_questions" gorm:"default:0"`
	TotalPoints    float64 `json:"total_points" gorm:"type:decimal(10,2);default:0"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Rows    []ExamMatrixRow `json:"rows,omitempty" gorm:"foreignKey:ExamMatrixID"`
	Creator Teacher         `json:"creator" gorm:"foreignKey:CreatedBy"`
}

func (ExamMatrix) TableName() string {
	return "exam_matrices"
}

// ExamMatrixRow asks for QuestionCount questions of the given difficulty from
// one bank, each worth PointsPerQuestion. It is a sampling spec, not a
// question list.
type ExamMatrixRow struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	ExamMatrixID      uint            `json:"exam_matrix_id" gorm:"not null;index"`
	QuestionBankID    uint            `json:"question_bank_id" gorm:"not null;index"`
	Domain            *string         `json:"domain" gorm:"size:100"`
	Difficulty        DifficultyLevel `json:"difficulty" gorm:"not null" validate:"required,min=1"`
	QuestionCount     int             `json:"question_count" gorm:"not null" validate:"required,min=1"`
	PointsPerQuestion float64         `json:"points_per_question" gorm:"type:decimal(10,2);not null;default:1" validate:"min=0"`
	OrderIndex        int             `json:"order_index" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`

	QuestionBank QuestionBank `json:"question_bank" gorm:"foreignKey:QuestionBankID"`
}

func (ExamMatrixRow) TableName() string {
	return "exam_matrix_rows"
}
