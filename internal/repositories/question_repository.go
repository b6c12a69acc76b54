package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// QuestionRepository is the read-mostly store the matrix resolver and grading
// engine draw from.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetByBank(ctx context.Context, bankID uint, filters QuestionFilters) ([]*models.Question, int64, error)

	// FindRandomByBankAndDifficulty draws a uniform without-replacement
	// sample of up to count active, non-deleted questions. Fewer than count
	// rows is not an error; callers accept partial fulfillment.
	FindRandomByBankAndDifficulty(ctx context.Context, bankID uint, difficulty models.DifficultyLevel, count int) ([]*models.Question, error)
}

// QuestionBankRepository covers the bank lookups the matrix layer needs;
// bank authoring itself lives outside this service's core.
type QuestionBankRepository interface {
	Create(ctx context.Context, bank *models.QuestionBank) error
	GetByID(ctx context.Context, id uint) (*models.QuestionBank, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*models.QuestionBank, error)
	Update(ctx context.Context, bank *models.QuestionBank) error
	Delete(ctx context.Context, id uint) error
}
