package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema, including the partial unique
// index that guards at most one InProgress attempt per (exam, student).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Teacher{},
		&models.Student{},
		&models.QuestionBank{},
		&models.Question{},
		&models.MultipleChoiceAnswer{},
		&models.FillBlankAnswer{},
		&models.ExamMatrix{},
		&models.ExamMatrixRow{},
		&models.Exam{},
		&models.ExamQuestion{},
		&models.ExamAttempt{},
		&models.AttemptAnswer{},
	)
}
