package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

const examDetailCacheTTL = 5 * time.Minute

type examService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
	matrix    MatrixService
	publisher events.EventPublisher
	cache     cache.CacheService
}

func NewExamService(
	repo repositories.Repository,
	logger utils.Logger,
	validator *utils.Validator,
	matrix MatrixService,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
) ExamService {
	return &examService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		matrix:    matrix,
		publisher: publisher,
		cache:     cacheService,
	}
}

// ===== EXAM CRUD =====

func (s *examService) Create(ctx context.Context, req *CreateExamRequest, creatorID uint) (*ExamResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam := s.buildExam(req, creatorID)
	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.InfoContext(ctx, "Created exam",
		"exam_id", exam.ID,
		"title", exam.Title,
		"creator_id", creatorID)

	return toExamResponse(exam), nil
}

// CreateFromMatrix creates the exam and fills its question set from a
// sampling spec in one transaction: either a persisted matrix or inline rows.
func (s *examService) CreateFromMatrix(ctx context.Context, req *CreateExamFromMatrixRequest, creatorID uint) (*ExamDetailResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var resolved []ResolvedRow
	var err error
	switch {
	case req.ExamMatrixID != nil:
		resolved, err = s.matrix.ResolvePersisted(ctx, *req.ExamMatrixID)
	case len(req.Rows) > 0:
		resolved, err = s.matrix.Resolve(ctx, req.Rows, req.QuestionBankID)
	default:
		return nil, ErrMatrixEmpty
	}
	if err != nil {
		return nil, err
	}

	exam := s.buildExam(&req.CreateExamRequest, creatorID)
	exam.ExamMatrixID = req.ExamMatrixID

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Exam().Create(ctx, exam); err != nil {
			return fmt.Errorf("failed to create exam: %w", err)
		}

		// Sequential zero-based order; a question sampled by two rows is
		// placed once, at its first position.
		seen := make(map[uint]bool)
		var examQuestions []*models.ExamQuestion
		orderIndex := 0
		for _, row := range resolved {
			for _, q := range row.Questions {
				if seen[q.ID] {
					continue
				}
				seen[q.ID] = true
				examQuestions = append(examQuestions, &models.ExamQuestion{
					ExamID:     exam.ID,
					QuestionID: q.ID,
					OrderIndex: orderIndex,
					Points:     row.PointsPerQuestion,
				})
				orderIndex++
			}
		}

		if err := tx.ExamQuestion().CreateBatch(ctx, examQuestions); err != nil {
			return fmt.Errorf("failed to attach questions: %w", err)
		}

		return s.refreshTotals(ctx, tx, exam.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Generated exam from matrix",
		"exam_id", exam.ID,
		"matrix_id", req.ExamMatrixID,
		"creator_id", creatorID)

	return s.loadDetail(ctx, exam.ID, true)
}

func (s *examService) GetByID(ctx context.Context, id, actorID uint, role models.UserRole) (*ExamDetailResponse, error) {
	includeKeys := role == models.RoleAdmin

	// The student view (no answer keys) is the hot read path; serve it from
	// cache when possible.
	if !includeKeys {
		var cached ExamDetailResponse
		if err := s.cache.Get(ctx, examDetailCacheKey(id), &cached); err == nil {
			if cached.CreatedBy == actorID {
				// Owner asked; rebuild with keys instead.
				return s.loadDetail(ctx, id, true)
			}
			if cached.Status != models.ExamStatusActive {
				return nil, ErrExamNotFound
			}
			return &cached, nil
		}
	}

	exam, err := s.getExam(ctx, id)
	if err != nil {
		return nil, err
	}

	if exam.CreatedBy == actorID || role == models.RoleAdmin {
		return s.loadDetail(ctx, id, true)
	}

	// Non-owners only ever see published exams.
	if exam.Status != models.ExamStatusActive {
		return nil, ErrExamNotFound
	}

	detail, err := s.loadDetail(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, examDetailCacheKey(id), detail, examDetailCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache exam detail", "exam_id", id, "error", err)
	}

	return detail, nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error) {
	exams, total, err := s.repo.Exam().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	responses := make([]*ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, toExamResponse(exam))
	}

	return &ExamListResponse{
		Exams:  responses,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *examService) Update(ctx context.Context, id uint, req *UpdateExamRequest, actorID uint, role models.UserRole) (*ExamResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.getOwnedExam(ctx, id, actorID, role, "update")
	if err != nil {
		return nil, err
	}
	if exam.Status == models.ExamStatusActive {
		return nil, ErrExamNotEditable
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.GradeLevel != nil {
		exam.GradeLevel = req.GradeLevel
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.MaxAttempts != nil {
		exam.MaxAttempts = *req.MaxAttempts
	}
	if req.ScoringMethod != nil {
		exam.ScoringMethod = *req.ScoringMethod
	}
	if req.StartTime != nil {
		exam.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		exam.EndTime = req.EndTime
	}

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	s.invalidate(ctx, id)

	return toExamResponse(exam), nil
}

func (s *examService) Delete(ctx context.Context, id, actorID uint, role models.UserRole) error {
	if _, err := s.getOwnedExam(ctx, id, actorID, role, "delete"); err != nil {
		return err
	}

	if err := s.repo.Exam().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	s.invalidate(ctx, id)

	s.logger.InfoContext(ctx, "Deleted exam", "exam_id", id, "actor_id", actorID)
	return nil
}

// ===== STATUS TRANSITIONS =====

func (s *examService) Publish(ctx context.Context, id, actorID uint, role models.UserRole) (*ExamResponse, error) {
	exam, err := s.getOwnedExam(ctx, id, actorID, role, "publish")
	if err != nil {
		return nil, err
	}

	if exam.Status != models.ExamStatusActive {
		if err := s.repo.Exam().UpdateStatus(ctx, id, models.ExamStatusActive); err != nil {
			return nil, fmt.Errorf("failed to publish exam: %w", err)
		}
		exam.Status = models.ExamStatusActive
		s.invalidate(ctx, id)

		event := events.NewExamPublishedEvent(exam.ID, exam.Title, exam.DurationMinutes,
			exam.MaxAttempts, exam.TotalQuestions, exam.TotalPoints, exam.CreatedBy)
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish exam event",
				"exam_id", id, "error", err)
		}

		s.logger.InfoContext(ctx, "Published exam", "exam_id", id, "actor_id", actorID)
	}

	return toExamResponse(exam), nil
}

func (s *examService) SaveToDraft(ctx context.Context, id, actorID uint, role models.UserRole) (*ExamResponse, error) {
	exam, err := s.getOwnedExam(ctx, id, actorID, role, "save to draft")
	if err != nil {
		return nil, err
	}

	if exam.Status != models.ExamStatusDraft {
		if err := s.repo.Exam().UpdateStatus(ctx, id, models.ExamStatusDraft); err != nil {
			return nil, fmt.Errorf("failed to save exam to draft: %w", err)
		}
		exam.Status = models.ExamStatusDraft
		s.invalidate(ctx, id)

		event := events.NewExamDraftedEvent(exam.ID, exam.Title, exam.CreatedBy)
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish exam drafted event",
				"exam_id", id, "error", err)
		}

		s.logger.InfoContext(ctx, "Saved exam to draft", "exam_id", id, "actor_id", actorID)
	}

	return toExamResponse(exam), nil
}

// ===== QUESTION SET =====

// AddQuestions appends after the current max order index. Questions already
// in the exam are skipped silently, so retried requests converge.
func (s *examService) AddQuestions(ctx context.Context, id uint, req *AddQuestionsRequest, actorID uint, role models.UserRole) (*ExamDetailResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.getOwnedExam(ctx, id, actorID, role, "add questions to")
	if err != nil {
		return nil, err
	}
	if exam.Status == models.ExamStatusActive {
		return nil, ErrExamNotEditable
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		maxOrder, err := tx.ExamQuestion().MaxOrderIndex(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get max order index: %w", err)
		}

		nextOrder := maxOrder + 1
		seen := make(map[uint]bool, len(req.Questions))
		var toCreate []*models.ExamQuestion
		for _, input := range req.Questions {
			// A question repeated within the request is the same silent skip
			// as one already attached; nothing is persisted until the batch,
			// so the per-row existence check cannot catch it.
			if seen[input.QuestionID] {
				continue
			}
			seen[input.QuestionID] = true

			existing, err := tx.ExamQuestion().GetByExamAndQuestion(ctx, id, input.QuestionID)
			if err != nil && !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to check exam question: %w", err)
			}
			if existing != nil {
				continue
			}

			if _, err := tx.Question().GetByID(ctx, input.QuestionID); err != nil {
				if repositories.IsNotFoundError(err) {
					return fmt.Errorf("question %d: %w", input.QuestionID, ErrQuestionNotFound)
				}
				return fmt.Errorf("failed to get question: %w", err)
			}

			toCreate = append(toCreate, &models.ExamQuestion{
				ExamID:     id,
				QuestionID: input.QuestionID,
				OrderIndex: nextOrder,
				Points:     input.Points,
			})
			nextOrder++
		}

		if err := tx.ExamQuestion().CreateBatch(ctx, toCreate); err != nil {
			return fmt.Errorf("failed to add questions: %w", err)
		}

		return s.refreshTotals(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	return s.loadDetail(ctx, id, true)
}

func (s *examService) RemoveQuestion(ctx context.Context, examID, questionID, actorID uint, role models.UserRole) error {
	exam, err := s.getOwnedExam(ctx, examID, actorID, role, "remove a question from")
	if err != nil {
		return err
	}
	if exam.Status == models.ExamStatusActive {
		return ErrExamNotEditable
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.ExamQuestion().GetByExamAndQuestion(ctx, examID, questionID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuestionNotInExam
			}
			return fmt.Errorf("failed to get exam question: %w", err)
		}

		if err := tx.ExamQuestion().Delete(ctx, examID, questionID); err != nil {
			return fmt.Errorf("failed to remove question: %w", err)
		}

		return s.refreshTotals(ctx, tx, examID)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, examID)

	return nil
}

func (s *examService) GetStats(ctx context.Context, id uint) (*repositories.ExamStats, error) {
	stats, err := s.repo.Exam().GetStats(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam stats: %w", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *examService) buildExam(req *CreateExamRequest, creatorID uint) *models.Exam {
	exam := &models.Exam{
		Title:           req.Title,
		Description:     req.Description,
		GradeLevel:      req.GradeLevel,
		Status:          models.ExamStatusDraft,
		ScoringMethod:   models.ScoringLatest,
		DurationMinutes: req.DurationMinutes,
		MaxAttempts:     req.MaxAttempts,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		CreatedBy:       creatorID,
	}
	if exam.MaxAttempts == 0 {
		exam.MaxAttempts = 1
	}
	if req.ScoringMethod != nil {
		exam.ScoringMethod = *req.ScoringMethod
	}
	return exam
}

func (s *examService) getExam(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

func (s *examService) getOwnedExam(ctx context.Context, id, actorID uint, role models.UserRole, action string) (*models.Exam, error) {
	exam, err := s.getExam(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.CreatedBy != actorID && role != models.RoleAdmin {
		return nil, NewPermissionError(actorID, id, "exam", action, "not the owner")
	}
	return exam, nil
}

func (s *examService) loadDetail(ctx context.Context, id uint, includeKeys bool) (*ExamDetailResponse, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return toExamDetailResponse(exam, includeKeys), nil
}

// refreshTotals recomputes the denormalized counters from the question set,
// inside the same transaction that changed it.
func (s *examService) refreshTotals(ctx context.Context, tx repositories.Repository, examID uint) error {
	count, err := tx.ExamQuestion().Count(ctx, examID)
	if err != nil {
		return fmt.Errorf("failed to count exam questions: %w", err)
	}
	sum, err := tx.ExamQuestion().SumPoints(ctx, examID)
	if err != nil {
		return fmt.Errorf("failed to sum exam points: %w", err)
	}
	if err := tx.Exam().UpdateTotals(ctx, examID, int(count), roundHalfUp(sum)); err != nil {
		return fmt.Errorf("failed to update exam totals: %w", err)
	}
	return nil
}

func (s *examService) invalidate(ctx context.Context, examID uint) {
	if err := s.cache.Delete(ctx, examDetailCacheKey(examID)); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "Failed to invalidate exam cache", "exam_id", examID, "error", err)
	}
}

func examDetailCacheKey(examID uint) string {
	return fmt.Sprintf("exam:%d:detail", examID)
}
