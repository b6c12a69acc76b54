package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

type Account struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index" validate:"omitempty,user_role"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Account) TableName() string {
	return "accounts"
}

// Teacher is the authoring profile attached to an account. Provisioned lazily
// via AccountService.EnsureTeacher the first time an account authors content.
type Teacher struct {
	AccountID  uint    `json:"account_id" gorm:"primaryKey"`
	SchoolName string  `json:"school_name" gorm:"size:200"`
	Subject    *string `json:"subject" gorm:"size:100"`
	IsActive   bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Account Account `json:"account" gorm:"foreignKey:AccountID"`
}

func (Teacher) TableName() string {
	return "teachers"
}

// Student is the exam-taking profile attached to an account. Provisioned
// lazily via AccountService.EnsureStudent before the first attempt.
type Student struct {
	AccountID  uint    `json:"account_id" gorm:"primaryKey"`
	GradeLevel *int    `json:"grade_level"`
	ClassName  *string `json:"class_name" gorm:"size:50"`
	IsActive   bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Account Account `json:"account" gorm:"foreignKey:AccountID"`
}

func (Student) TableName() string {
	return "students"
}
