package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := u.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (u *UserPostgreSQL) GetTeacherByID(ctx context.Context, accountID uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := u.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (u *UserPostgreSQL) SaveTeacher(ctx context.Context, teacher *models.Teacher) error {
	return u.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoNothing: true,
		}).
		Create(teacher).Error
}

func (u *UserPostgreSQL) GetStudentByID(ctx context.Context, accountID uint) (*models.Student, error) {
	var student models.Student
	if err := u.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (u *UserPostgreSQL) SaveStudent(ctx context.Context, student *models.Student) error {
	return u.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoNothing: true,
		}).
		Create(student).Error
}
