package services

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

// ExamService covers exam authoring: CRUD, status transitions, question set
// management and matrix-driven generation.
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, creatorID uint) (*ExamResponse, error)
	CreateFromMatrix(ctx context.Context, req *CreateExamFromMatrixRequest, creatorID uint) (*ExamDetailResponse, error)
	GetByID(ctx context.Context, id, actorID uint, role models.UserRole) (*ExamDetailResponse, error)
	List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateExamRequest, actorID uint, role models.UserRole) (*ExamResponse, error)
	Delete(ctx context.Context, id, actorID uint, role models.UserRole) error

	Publish(ctx context.Context, id, actorID uint, role models.UserRole) (*ExamResponse, error)
	SaveToDraft(ctx context.Context, id, actorID uint, role models.UserRole) (*ExamResponse, error)

	AddQuestions(ctx context.Context, id uint, req *AddQuestionsRequest, actorID uint, role models.UserRole) (*ExamDetailResponse, error)
	RemoveQuestion(ctx context.Context, examID, questionID, actorID uint, role models.UserRole) error

	GetStats(ctx context.Context, id uint) (*repositories.ExamStats, error)
}

// ResolvedRow is the outcome of sampling one matrix row: the questions drawn
// plus the row spec they were drawn under. Questions may be shorter than
// Requested when the bank cannot fill the row.
type ResolvedRow struct {
	QuestionBankID    uint
	Difficulty        models.DifficultyLevel
	Requested         int
	PointsPerQuestion float64
	Questions         []*models.Question
}

// MatrixService covers matrix authoring plus row resolution, the shared core
// behind generation and preview.
type MatrixService interface {
	Create(ctx context.Context, req *CreateMatrixRequest, creatorID uint) (*MatrixResponse, error)
	GetByID(ctx context.Context, id uint) (*MatrixResponse, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*MatrixResponse, error)
	Update(ctx context.Context, id uint, req *UpdateMatrixRequest, actorID uint, role models.UserRole) (*MatrixResponse, error)
	Delete(ctx context.Context, id, actorID uint, role models.UserRole) error

	Preview(ctx context.Context, req *PreviewMatrixRequest) (*MatrixPreviewResponse, error)

	// Resolve samples questions for each row in order. Row banks override
	// defaultBankID; a row with neither fails with ErrBankRequired.
	Resolve(ctx context.Context, rows []MatrixRowRequest, defaultBankID *uint) ([]ResolvedRow, error)
	// ResolvePersisted runs the same sampling against a stored matrix.
	ResolvePersisted(ctx context.Context, matrixID uint) ([]ResolvedRow, error)
}

// AttemptService is the attempt state machine: start (or resume), submit with
// auto-grading, and read access to attempt history.
type AttemptService interface {
	Start(ctx context.Context, req *StartAttemptRequest, studentID uint) (*AttemptResponse, error)
	Submit(ctx context.Context, examID uint, req *SubmitAttemptRequest, studentID uint) (*AttemptResponse, error)

	GetByID(ctx context.Context, attemptID, actorID uint, role models.UserRole) (*AttemptDetailResponse, error)
	GetMyAttempts(ctx context.Context, examID, studentID uint) ([]*AttemptResponse, error)
	List(ctx context.Context, filters repositories.AttemptFilters) (*AttemptListResponse, error)
}

// AccountService provisions the role profiles lazily; both operations are
// idempotent.
type AccountService interface {
	EnsureTeacher(ctx context.Context, accountID uint) (*models.Teacher, error)
	EnsureStudent(ctx context.Context, accountID uint) (*models.Student, error)
}

// ExportService renders attempt results for an exam as an .xlsx workbook.
type ExportService interface {
	ExportAttempts(ctx context.Context, examID, actorID uint, role models.UserRole) ([]byte, string, error)
}

// ServiceManager wires all services over one repository, logger, validator,
// event publisher and cache.
type ServiceManager struct {
	exam    ExamService
	matrix  MatrixService
	attempt AttemptService
	account AccountService
	export  ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	logger utils.Logger,
	validator *utils.Validator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
) *ServiceManager {
	accountService := NewAccountService(repo, logger)
	matrixService := NewMatrixService(repo, logger, validator)
	examService := NewExamService(repo, logger, validator, matrixService, publisher, cacheService)
	attemptService := NewAttemptService(repo, logger, validator, publisher)
	exportService := NewExportService(repo, logger)

	return &ServiceManager{
		exam:    examService,
		matrix:  matrixService,
		attempt: attemptService,
		account: accountService,
		export:  exportService,
	}
}

func (m *ServiceManager) Exam() ExamService       { return m.exam }
func (m *ServiceManager) Matrix() MatrixService   { return m.matrix }
func (m *ServiceManager) Attempt() AttemptService { return m.attempt }
func (m *ServiceManager) Account() AccountService { return m.account }
func (m *ServiceManager) Export() ExportService   { return m.export }
