package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

type UserRepository interface {
	GetAccountByID(ctx context.Context, id uint) (*models.Account, error)

	GetTeacherByID(ctx context.Context, accountID uint) (*models.Teacher, error)
	SaveTeacher(ctx context.Context, teacher *models.Teacher) error

	GetStudentByID(ctx context.Context, accountID uint) (*models.Student, error)
	SaveStudent(ctx context.Context, student *models.Student) error
}
