package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories behind one handle so
// services can depend on a single interface and share transactions.
type Repository interface {
	Exam() ExamRepository
	ExamQuestion() ExamQuestionRepository
	Question() QuestionRepository
	QuestionBank() QuestionBankRepository
	Matrix() MatrixRepository
	Attempt() AttemptRepository
	AttemptAnswer() AttemptAnswerRepository
	User() UserRepository

	// WithTransaction runs fn against a Repository bound to one database
	// transaction; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err represents a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
