package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).
		Preload("MultipleChoiceAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("FillBlankAnswers").
		First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Preload("MultipleChoiceAnswers").
		Preload("FillBlankAnswers").
		Where("id IN ?", ids).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	var questions []*models.Question
	var total int64

	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "", "", filters.Limit, filters.Offset)

	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetByBank(ctx context.Context, bankID uint, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.BankID = &bankID
	return q.List(ctx, filters)
}

func (q *QuestionPostgreSQL) FindRandomByBankAndDifficulty(ctx context.Context, bankID uint, difficulty models.DifficultyLevel, count int) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Preload("MultipleChoiceAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("FillBlankAnswers").
		Where("question_bank_id = ? AND difficulty = ? AND is_active = ?", bankID, difficulty, true).
		Order("RANDOM()").
		Limit(count).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.BankID != nil {
		query = query.Where("question_bank_id = ?", *filters.BankID)
	}
	if filters.Type != nil {
		query = query.Where("question_type = ?", *filters.Type)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	return query
}

type QuestionBankPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionBankPostgreSQL(db *gorm.DB) repositories.QuestionBankRepository {
	return &QuestionBankPostgreSQL{db: db}
}

func (b *QuestionBankPostgreSQL) Create(ctx context.Context, bank *models.QuestionBank) error {
	return b.db.WithContext(ctx).Create(bank).Error
}

func (b *QuestionBankPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuestionBank, error) {
	var bank models.QuestionBank
	if err := b.db.WithContext(ctx).First(&bank, id).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *QuestionBankPostgreSQL) GetByCreator(ctx context.Context, creatorID uint) ([]*models.QuestionBank, error) {
	var banks []*models.QuestionBank
	if err := b.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order("created_at DESC").
		Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (b *QuestionBankPostgreSQL) Update(ctx context.Context, bank *models.QuestionBank) error {
	return b.db.WithContext(ctx).Save(bank).Error
}

func (b *QuestionBankPostgreSQL) Delete(ctx context.Context, id uint) error {
	return b.db.WithContext(ctx).Delete(&models.QuestionBank{}, id).Error
}
