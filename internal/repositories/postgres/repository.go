package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Exam() repositories.ExamRepository {
	return &ExamPostgreSQL{db: r.db}
}

func (r *gormRepository) ExamQuestion() repositories.ExamQuestionRepository {
	return &ExamQuestionPostgreSQL{db: r.db}
}

func (r *gormRepository) Question() repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: r.db}
}

func (r *gormRepository) QuestionBank() repositories.QuestionBankRepository {
	return &QuestionBankPostgreSQL{db: r.db}
}

func (r *gormRepository) Matrix() repositories.MatrixRepository {
	return &MatrixPostgreSQL{db: r.db}
}

func (r *gormRepository) Attempt() repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: r.db}
}

func (r *gormRepository) AttemptAnswer() repositories.AttemptAnswerRepository {
	return &AttemptAnswerPostgreSQL{db: r.db}
}

func (r *gormRepository) User() repositories.UserRepository {
	return &UserPostgreSQL{db: r.db}
}

func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sortableColumns is the set of columns callers may sort by. Filter values
// come straight from the query string, so anything outside this set must
// never reach the ORDER BY clause.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
}

// orderExpr builds the ORDER BY expression for a requested sort, falling back
// to created_at DESC for unknown or empty columns.
func orderExpr(sortBy, sortOrder string) string {
	if !sortableColumns[sortBy] {
		return "created_at DESC"
	}
	if sortOrder == "desc" {
		return sortBy + " DESC"
	}
	return sortBy
}

// applyPaginationAndSort applies shared limit/offset/sort handling to a query.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	query = query.Order(orderExpr(sortBy, sortOrder))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
