package services

import (
	"context"
	"log/slog"
	"os"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/stretchr/testify/mock"
)

// MockExamRepository is a mock implementation of ExamRepository
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Exam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamRepository) GetByCreator(ctx context.Context, creatorID uint, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	args := m.Called(ctx, creatorID, filters)
	return args.Get(0).([]*models.Exam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamRepository) UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockExamRepository) UpdateTotals(ctx context.Context, id uint, totalQuestions int, totalPoints float64) error {
	args := m.Called(ctx, id, totalQuestions, totalPoints)
	return args.Error(0)
}

func (m *MockExamRepository) GetStats(ctx context.Context, id uint) (*repositories.ExamStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ExamStats), args.Error(1)
}

// MockExamQuestionRepository is a mock implementation of ExamQuestionRepository
type MockExamQuestionRepository struct {
	mock.Mock
}

func (m *MockExamQuestionRepository) Create(ctx context.Context, eq *models.ExamQuestion) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}

func (m *MockExamQuestionRepository) CreateBatch(ctx context.Context, eqs []*models.ExamQuestion) error {
	args := m.Called(ctx, eqs)
	return args.Error(0)
}

func (m *MockExamQuestionRepository) GetByExam(ctx context.Context, examID uint) ([]*models.ExamQuestion, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).([]*models.ExamQuestion), args.Error(1)
}

func (m *MockExamQuestionRepository) GetByExamAndQuestion(ctx context.Context, examID, questionID uint) (*models.ExamQuestion, error) {
	args := m.Called(ctx, examID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamQuestion), args.Error(1)
}

func (m *MockExamQuestionRepository) Delete(ctx context.Context, examID, questionID uint) error {
	args := m.Called(ctx, examID, questionID)
	return args.Error(0)
}

func (m *MockExamQuestionRepository) MaxOrderIndex(ctx context.Context, examID uint) (int, error) {
	args := m.Called(ctx, examID)
	return args.Int(0), args.Error(1)
}

func (m *MockExamQuestionRepository) SumPoints(ctx context.Context, examID uint) (float64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockExamQuestionRepository) Count(ctx context.Context, examID uint) (int64, error) {
	args := m.Called(ctx, examID)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDWithAnswers(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetByBank(ctx context.Context, bankID uint, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, bankID, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) FindRandomByBankAndDifficulty(ctx context.Context, bankID uint, difficulty models.DifficultyLevel, count int) ([]*models.Question, error) {
	args := m.Called(ctx, bankID, difficulty, count)
	return args.Get(0).([]*models.Question), args.Error(1)
}

// MockQuestionBankRepository is a mock implementation of QuestionBankRepository
type MockQuestionBankRepository struct {
	mock.Mock
}

func (m *MockQuestionBankRepository) Create(ctx context.Context, bank *models.QuestionBank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockQuestionBankRepository) GetByID(ctx context.Context, id uint) (*models.QuestionBank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionBank), args.Error(1)
}

func (m *MockQuestionBankRepository) GetByCreator(ctx context.Context, creatorID uint) ([]*models.QuestionBank, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).([]*models.QuestionBank), args.Error(1)
}

func (m *MockQuestionBankRepository) Update(ctx context.Context, bank *models.QuestionBank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockQuestionBankRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMatrixRepository is a mock implementation of MatrixRepository
type MockMatrixRepository struct {
	mock.Mock
}

func (m *MockMatrixRepository) Create(ctx context.Context, matrix *models.ExamMatrix) error {
	args := m.Called(ctx, matrix)
	return args.Error(0)
}

func (m *MockMatrixRepository) GetByID(ctx context.Context, id uint) (*models.ExamMatrix, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamMatrix), args.Error(1)
}

func (m *MockMatrixRepository) Update(ctx context.Context, matrix *models.ExamMatrix) error {
	args := m.Called(ctx, matrix)
	return args.Error(0)
}

func (m *MockMatrixRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMatrixRepository) List(ctx context.Context, filters repositories.MatrixFilters) ([]*models.ExamMatrix, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.ExamMatrix), args.Get(1).(int64), args.Error(2)
}

func (m *MockMatrixRepository) GetByCreator(ctx context.Context, creatorID uint) ([]*models.ExamMatrix, error) {
	args := m.Called(ctx, creatorID)
	return args.Get(0).([]*models.ExamMatrix), args.Error(1)
}

func (m *MockMatrixRepository) ReplaceRows(ctx context.Context, matrixID uint, rows []*models.ExamMatrixRow) error {
	args := m.Called(ctx, matrixID, rows)
	return args.Error(0)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByIDWithAnswers(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetActive(ctx context.Context, examID, studentID uint) (*models.ExamAttempt, error) {
	args := m.Called(ctx, examID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByExamAndStudent(ctx context.Context, examID, studentID uint) ([]*models.ExamAttempt, error) {
	args := m.Called(ctx, examID, studentID)
	return args.Get(0).([]*models.ExamAttempt), args.Error(1)
}

func (m *MockAttemptRepository) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.ExamAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) CountTerminal(ctx context.Context, examID, studentID uint) (int64, error) {
	args := m.Called(ctx, examID, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) MaxAttemptNumber(ctx context.Context, examID, studentID uint) (int, error) {
	args := m.Called(ctx, examID, studentID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) Complete(ctx context.Context, id uint, score repositories.AttemptScore) (*models.ExamAttempt, error) {
	args := m.Called(ctx, id, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetStats(ctx context.Context, examID uint) (*repositories.AttemptStats, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.AttemptStats), args.Error(1)
}

// MockAttemptAnswerRepository is a mock implementation of AttemptAnswerRepository
type MockAttemptAnswerRepository struct {
	mock.Mock
}

func (m *MockAttemptAnswerRepository) CreateBatch(ctx context.Context, answers []*models.AttemptAnswer) error {
	args := m.Called(ctx, answers)
	return args.Error(0)
}

func (m *MockAttemptAnswerRepository) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.AttemptAnswer, error) {
	args := m.Called(ctx, attemptID)
	return args.Get(0).([]*models.AttemptAnswer), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockUserRepository) GetTeacherByID(ctx context.Context, accountID uint) (*models.Teacher, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockUserRepository) SaveTeacher(ctx context.Context, teacher *models.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockUserRepository) GetStudentByID(ctx context.Context, accountID uint) (*models.Student, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockUserRepository) SaveStudent(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

// MockRepository aggregates the sub-repository mocks behind the Repository
// interface. WithTransaction runs fn against the same mock set, so tests see
// every call regardless of transaction boundaries.
type MockRepository struct {
	exam          *MockExamRepository
	examQuestion  *MockExamQuestionRepository
	question      *MockQuestionRepository
	questionBank  *MockQuestionBankRepository
	matrix        *MockMatrixRepository
	attempt       *MockAttemptRepository
	attemptAnswer *MockAttemptAnswerRepository
	user          *MockUserRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		exam:          &MockExamRepository{},
		examQuestion:  &MockExamQuestionRepository{},
		question:      &MockQuestionRepository{},
		questionBank:  &MockQuestionBankRepository{},
		matrix:        &MockMatrixRepository{},
		attempt:       &MockAttemptRepository{},
		attemptAnswer: &MockAttemptAnswerRepository{},
		user:          &MockUserRepository{},
	}
}

func (m *MockRepository) Exam() repositories.ExamRepository                   { return m.exam }
func (m *MockRepository) ExamQuestion() repositories.ExamQuestionRepository   { return m.examQuestion }
func (m *MockRepository) Question() repositories.QuestionRepository           { return m.question }
func (m *MockRepository) QuestionBank() repositories.QuestionBankRepository   { return m.questionBank }
func (m *MockRepository) Matrix() repositories.MatrixRepository               { return m.matrix }
func (m *MockRepository) Attempt() repositories.AttemptRepository             { return m.attempt }
func (m *MockRepository) AttemptAnswer() repositories.AttemptAnswerRepository { return m.attemptAnswer }
func (m *MockRepository) User() repositories.UserRepository                   { return m.user }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// ===== SHARED TEST FIXTURES =====

func newTestLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
}

func newTestPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
}

func newTestCache() cache.CacheService {
	return cache.NewNoopCache()
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

func fillBlank(v string) models.FillBlankAnswer {
	a := models.FillBlankAnswer{CorrectAnswer: v}
	a.Normalize()
	return a
}
