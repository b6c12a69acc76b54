package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

type attemptService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
	publisher events.EventPublisher
}

func NewAttemptService(
	repo repositories.Repository,
	logger utils.Logger,
	validator *utils.Validator,
	publisher events.EventPublisher,
) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== STATE MACHINE =====

// Start opens a sitting of an exam. An open attempt is resumed, never
// duplicated; otherwise terminal attempts are counted against the exam's max
// before a new InProgress row is created with the next attempt number.
func (s *attemptService) Start(ctx context.Context, req *StartAttemptRequest, studentID uint) (*AttemptResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.Status != models.ExamStatusActive {
		return nil, ErrExamNotActive
	}

	active, err := s.repo.Attempt().GetActive(ctx, req.ExamID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active attempt: %w", err)
	}
	if active != nil {
		s.logger.InfoContext(ctx, "Resuming open attempt",
			"attempt_id", active.ID,
			"exam_id", req.ExamID,
			"student_id", studentID)
		resp := toAttemptResponse(active)
		resp.Resumed = true
		return resp, nil
	}

	attempt := &models.ExamAttempt{
		ExamID:    req.ExamID,
		StudentID: studentID,
		Status:    models.AttemptInProgress,
		StartedAt: time.Now(),
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		terminal, err := tx.Attempt().CountTerminal(ctx, req.ExamID, studentID)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}
		if terminal >= int64(exam.MaxAttempts) {
			return ErrAttemptLimitExceeded
		}

		maxNumber, err := tx.Attempt().MaxAttemptNumber(ctx, req.ExamID, studentID)
		if err != nil {
			return fmt.Errorf("failed to get max attempt number: %w", err)
		}
		attempt.AttemptNumber = maxNumber + 1

		return tx.Attempt().Create(ctx, attempt)
	})
	if err != nil {
		// A concurrent start may have won the partial unique index race;
		// resume the row it created.
		if active, activeErr := s.repo.Attempt().GetActive(ctx, req.ExamID, studentID); activeErr == nil && active != nil {
			resp := toAttemptResponse(active)
			resp.Resumed = true
			return resp, nil
		}
		return nil, err
	}

	event := events.NewAttemptStartedEvent(attempt.ID, exam.ID, exam.Title,
		studentID, attempt.AttemptNumber, attempt.StartedAt)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish attempt started event",
			"attempt_id", attempt.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "Started attempt",
		"attempt_id", attempt.ID,
		"exam_id", req.ExamID,
		"student_id", studentID,
		"attempt_number", attempt.AttemptNumber)

	return toAttemptResponse(attempt), nil
}

// Submit grades the open attempt and performs the one transition out of
// InProgress. The transition is a conditional update, so a concurrent double
// submit yields exactly one success; the loser gets ErrAttemptAlreadySubmitted.
func (s *attemptService) Submit(ctx context.Context, examID uint, req *SubmitAttemptRequest, studentID uint) (*AttemptResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	active, err := s.repo.Attempt().GetActive(ctx, examID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active attempt: %w", err)
	}
	if active == nil {
		return nil, ErrNoActiveAttempt
	}

	examQuestions := make([]*models.ExamQuestion, 0, len(exam.Questions))
	for i := range exam.Questions {
		examQuestions = append(examQuestions, &exam.Questions[i])
	}
	result := GradeSubmission(examQuestions, req.Answers)

	var completed *models.ExamAttempt
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		completed, err = tx.Attempt().Complete(ctx, active.ID, repositories.AttemptScore{
			TotalScore:      result.TotalScore,
			MaxScore:        result.MaxScore,
			ScorePercentage: result.ScorePercentage,
			CorrectCount:    result.CorrectCount,
			TotalQuestions:  result.TotalQuestions,
		})
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAttemptAlreadySubmitted
			}
			return fmt.Errorf("failed to complete attempt: %w", err)
		}

		for _, row := range result.Answers {
			row.AttemptID = active.ID
		}
		if err := tx.AttemptAnswer().CreateBatch(ctx, result.Answers); err != nil {
			return fmt.Errorf("failed to save attempt answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewAttemptSubmittedEvent(completed.ID, examID, exam.Title,
		studentID, *completed.SubmittedAt, completed.TotalScore, completed.MaxScore,
		completed.ScorePercentage, completed.CorrectCount)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish attempt submitted event",
			"attempt_id", completed.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "Submitted attempt",
		"attempt_id", completed.ID,
		"exam_id", examID,
		"student_id", studentID,
		"score", completed.TotalScore,
		"percentage", completed.ScorePercentage)

	return toAttemptResponse(completed), nil
}

// ===== READS =====

func (s *attemptService) GetByID(ctx context.Context, attemptID, actorID uint, role models.UserRole) (*AttemptDetailResponse, error) {
	attempt, err := s.repo.Attempt().GetByIDWithAnswers(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.StudentID != actorID && role != models.RoleAdmin {
		exam, err := s.repo.Exam().GetByID(ctx, attempt.ExamID)
		if err != nil {
			return nil, fmt.Errorf("failed to get exam: %w", err)
		}
		if exam.CreatedBy != actorID {
			return nil, NewPermissionError(actorID, attemptID, "attempt", "view", "not the student or exam owner")
		}
	}

	return toAttemptDetailResponse(attempt), nil
}

func (s *attemptService) GetMyAttempts(ctx context.Context, examID, studentID uint) ([]*AttemptResponse, error) {
	attempts, err := s.repo.Attempt().GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	responses := make([]*AttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, toAttemptResponse(attempt))
	}
	return responses, nil
}

func (s *attemptService) List(ctx context.Context, filters repositories.AttemptFilters) (*AttemptListResponse, error) {
	attempts, total, err := s.repo.Attempt().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	responses := make([]*AttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, toAttemptResponse(attempt))
	}

	return &AttemptListResponse{
		Attempts: responses,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}
