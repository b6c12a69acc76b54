package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newExamService(repo *MockRepository, publisher *events.MockEventPublisher) ExamService {
	validator := utils.NewValidator()
	logger := newTestLogger()
	matrixService := NewMatrixService(repo, logger, validator)
	return NewExamService(repo, logger, validator, matrixService, publisher, newTestCache())
}

func TestExamService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("Create", mock.Anything, mock.MatchedBy(func(e *models.Exam) bool {
			return e.Status == models.ExamStatusDraft &&
				e.MaxAttempts == 1 &&
				e.ScoringMethod == models.ScoringLatest &&
				e.CreatedBy == 7
		})).Return(nil)

		service := newExamService(repo, newTestPublisher())
		resp, err := service.Create(ctx, &CreateExamRequest{
			Title:           "Midterm",
			DurationMinutes: 45,
		}, 7)

		assert.NoError(t, err)
		assert.Equal(t, models.ExamStatusDraft, resp.Status)
		repo.exam.AssertExpectations(t)
	})

	t.Run("rejects invalid duration", func(t *testing.T) {
		service := newExamService(NewMockRepository(), newTestPublisher())
		_, err := service.Create(ctx, &CreateExamRequest{
			Title:           "Midterm",
			DurationMinutes: 2,
		}, 7)

		assert.True(t, IsValidation(err))
	})
}

func TestExamService_GetByID_Visibility(t *testing.T) {
	ctx := context.Background()

	draftExam := &models.Exam{ID: 1, Title: "Draft exam", Status: models.ExamStatusDraft, CreatedBy: 7}

	t.Run("owner sees draft with answer keys", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(draftExam, nil)
		repo.exam.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
			Questions: []models.ExamQuestion{
				{QuestionID: 11, Points: 5, Question: models.Question{
					ID:           11,
					QuestionType: models.MultipleChoice,
					MultipleChoiceAnswers: []models.MultipleChoiceAnswer{
						{ID: 100, IsCorrect: true},
					},
				}},
			},
		}, nil)

		service := newExamService(repo, newTestPublisher())
		resp, err := service.GetByID(ctx, 1, 7, models.RoleTeacher)

		assert.NoError(t, err)
		assert.Len(t, resp.Questions, 1)
		// Owner view carries the key.
		assert.NotNil(t, resp.Questions[0].Choices[0].IsCorrect)
		assert.True(t, *resp.Questions[0].Choices[0].IsCorrect)
	})

	t.Run("non-owner cannot see a draft exam", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(draftExam, nil)

		service := newExamService(repo, newTestPublisher())
		_, err := service.GetByID(ctx, 1, 99, models.RoleStudent)

		// Draft exams are invisible to non-owners, not forbidden.
		assert.ErrorIs(t, err, ErrExamNotFound)
	})

	t.Run("student sees active exam without answer keys", func(t *testing.T) {
		repo := NewMockRepository()
		activeExam := &models.Exam{ID: 2, Status: models.ExamStatusActive, CreatedBy: 7}
		repo.exam.On("GetByID", mock.Anything, uint(2)).Return(activeExam, nil)
		repo.exam.On("GetByIDWithQuestions", mock.Anything, uint(2)).Return(&models.Exam{
			ID: 2, Status: models.ExamStatusActive, CreatedBy: 7,
			Questions: []models.ExamQuestion{
				{QuestionID: 11, Points: 5, Question: models.Question{
					ID:           11,
					QuestionType: models.MultipleChoice,
					MultipleChoiceAnswers: []models.MultipleChoiceAnswer{
						{ID: 100, IsCorrect: true},
					},
				}},
			},
		}, nil)

		service := newExamService(repo, newTestPublisher())
		resp, err := service.GetByID(ctx, 2, 99, models.RoleStudent)

		assert.NoError(t, err)
		assert.Nil(t, resp.Questions[0].Choices[0].IsCorrect)
	})
}

func TestExamService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes draft and emits event", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Title: "Midterm", Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)
		repo.exam.On("UpdateStatus", mock.Anything, uint(1), models.ExamStatusActive).Return(nil)

		publisher := newTestPublisher()
		service := newExamService(repo, publisher)
		resp, err := service.Publish(ctx, 1, 7, models.RoleTeacher)

		assert.NoError(t, err)
		assert.Equal(t, models.ExamStatusActive, resp.Status)

		published := publisher.GetPublishedEvents()
		assert.Len(t, published, 1)
		assert.Equal(t, events.EventExamPublished, published[0].Type)
	})

	t.Run("publishing an active exam is a no-op", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusActive, CreatedBy: 7,
		}, nil)

		publisher := newTestPublisher()
		service := newExamService(repo, publisher)
		resp, err := service.Publish(ctx, 1, 7, models.RoleTeacher)

		assert.NoError(t, err)
		assert.Equal(t, models.ExamStatusActive, resp.Status)
		assert.Empty(t, publisher.GetPublishedEvents())
		repo.exam.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-owner cannot publish", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)

		service := newExamService(repo, newTestPublisher())
		_, err := service.Publish(ctx, 1, 99, models.RoleTeacher)

		assert.True(t, IsForbidden(err))
	})
}

func TestExamService_AddQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("appends after max order and refreshes totals", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)
		repo.examQuestion.On("MaxOrderIndex", mock.Anything, uint(1)).Return(4, nil)
		// Question 11 is already attached and must be skipped silently.
		repo.examQuestion.On("GetByExamAndQuestion", mock.Anything, uint(1), uint(11)).
			Return(&models.ExamQuestion{ExamID: 1, QuestionID: 11}, nil)
		repo.examQuestion.On("GetByExamAndQuestion", mock.Anything, uint(1), uint(12)).
			Return(nil, gorm.ErrRecordNotFound)
		repo.question.On("GetByID", mock.Anything, uint(12)).Return(&models.Question{ID: 12}, nil)
		repo.examQuestion.On("CreateBatch", mock.Anything, mock.MatchedBy(func(eqs []*models.ExamQuestion) bool {
			return len(eqs) == 1 && eqs[0].QuestionID == 12 && eqs[0].OrderIndex == 5
		})).Return(nil)
		repo.examQuestion.On("Count", mock.Anything, uint(1)).Return(int64(2), nil)
		repo.examQuestion.On("SumPoints", mock.Anything, uint(1)).Return(7.5, nil)
		repo.exam.On("UpdateTotals", mock.Anything, uint(1), 2, 7.5).Return(nil)
		repo.exam.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(&models.Exam{ID: 1}, nil)

		service := newExamService(repo, newTestPublisher())
		_, err := service.AddQuestions(ctx, 1, &AddQuestionsRequest{
			Questions: []ExamQuestionInput{
				{QuestionID: 11, Points: 2},
				{QuestionID: 12, Points: 2.5},
			},
		}, 7, models.RoleTeacher)

		assert.NoError(t, err)
		repo.examQuestion.AssertExpectations(t)
		repo.exam.AssertExpectations(t)
	})

	t.Run("question repeated in one request is attached once", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)
		repo.examQuestion.On("MaxOrderIndex", mock.Anything, uint(1)).Return(-1, nil)
		repo.examQuestion.On("GetByExamAndQuestion", mock.Anything, uint(1), uint(5)).
			Return(nil, gorm.ErrRecordNotFound).Once()
		repo.question.On("GetByID", mock.Anything, uint(5)).Return(&models.Question{ID: 5}, nil)
		// Two identical rows would violate the unique (exam, question) index.
		repo.examQuestion.On("CreateBatch", mock.Anything, mock.MatchedBy(func(eqs []*models.ExamQuestion) bool {
			return len(eqs) == 1 && eqs[0].QuestionID == 5 && eqs[0].OrderIndex == 0
		})).Return(nil)
		repo.examQuestion.On("Count", mock.Anything, uint(1)).Return(int64(1), nil)
		repo.examQuestion.On("SumPoints", mock.Anything, uint(1)).Return(float64(2), nil)
		repo.exam.On("UpdateTotals", mock.Anything, uint(1), 1, float64(2)).Return(nil)
		repo.exam.On("GetByIDWithQuestions", mock.Anything, uint(1)).Return(&models.Exam{ID: 1}, nil)

		service := newExamService(repo, newTestPublisher())
		_, err := service.AddQuestions(ctx, 1, &AddQuestionsRequest{
			Questions: []ExamQuestionInput{
				{QuestionID: 5, Points: 2},
				{QuestionID: 5, Points: 2},
			},
		}, 7, models.RoleTeacher)

		assert.NoError(t, err)
		repo.examQuestion.AssertExpectations(t)
	})

	t.Run("active exam is not editable", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusActive, CreatedBy: 7,
		}, nil)

		service := newExamService(repo, newTestPublisher())
		_, err := service.AddQuestions(ctx, 1, &AddQuestionsRequest{
			Questions: []ExamQuestionInput{{QuestionID: 11, Points: 2}},
		}, 7, models.RoleTeacher)

		assert.ErrorIs(t, err, ErrExamNotEditable)
	})

	t.Run("unknown question fails the batch", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)
		repo.examQuestion.On("MaxOrderIndex", mock.Anything, uint(1)).Return(-1, nil)
		repo.examQuestion.On("GetByExamAndQuestion", mock.Anything, uint(1), uint(99)).
			Return(nil, gorm.ErrRecordNotFound)
		repo.question.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := newExamService(repo, newTestPublisher())
		_, err := service.AddQuestions(ctx, 1, &AddQuestionsRequest{
			Questions: []ExamQuestionInput{{QuestionID: 99, Points: 1}},
		}, 7, models.RoleTeacher)

		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})
}

func TestExamService_RemoveQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and refreshes totals", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)
		repo.examQuestion.On("GetByExamAndQuestion", mock.Anything, uint(1), uint(11)).
			Return(&models.ExamQuestion{ExamID: 1, QuestionID: 11}, nil)
		repo.examQuestion.On("Delete", mock.Anything, uint(1), uint(11)).Return(nil)
		repo.examQuestion.On("Count", mock.Anything, uint(1)).Return(int64(0), nil)
		repo.examQuestion.On("SumPoints", mock.Anything, uint(1)).Return(float64(0), nil)
		repo.exam.On("UpdateTotals", mock.Anything, uint(1), 0, float64(0)).Return(nil)

		service := newExamService(repo, newTestPublisher())
		err := service.RemoveQuestion(ctx, 1, 11, 7, models.RoleTeacher)

		assert.NoError(t, err)
		repo.examQuestion.AssertExpectations(t)
	})

	t.Run("question not in exam", func(t *testing.T) {
		repo := NewMockRepository()
		repo.exam.On("GetByID", mock.Anything, uint(1)).Return(&models.Exam{
			ID: 1, Status: models.ExamStatusDraft, CreatedBy: 7,
		}, nil)
		repo.examQuestion.On("GetByExamAndQuestion", mock.Anything, uint(1), uint(99)).
			Return(nil, gorm.ErrRecordNotFound)

		service := newExamService(repo, newTestPublisher())
		err := service.RemoveQuestion(ctx, 1, 99, 7, models.RoleTeacher)

		assert.ErrorIs(t, err, ErrQuestionNotInExam)
	})
}

func TestExamService_CreateFromMatrix(t *testing.T) {
	ctx := context.Background()

	t.Run("deduplicates questions sampled by multiple rows", func(t *testing.T) {
		repo := NewMockRepository()
		repo.questionBank.On("GetByID", mock.Anything, uint(1)).Return(&models.QuestionBank{ID: 1}, nil)
		// Both rows return question 5; it must appear once, at its first slot.
		repo.question.On("FindRandomByBankAndDifficulty", mock.Anything, uint(1), models.DifficultyEasy, 2).
			Return(sampleQuestions(5, 6), nil)
		repo.question.On("FindRandomByBankAndDifficulty", mock.Anything, uint(1), models.DifficultyHard, 2).
			Return(sampleQuestions(5, 7), nil)

		repo.exam.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Exam).ID = 3
		}).Return(nil)
		repo.examQuestion.On("CreateBatch", mock.Anything, mock.MatchedBy(func(eqs []*models.ExamQuestion) bool {
			if len(eqs) != 3 {
				return false
			}
			return eqs[0].QuestionID == 5 && eqs[0].OrderIndex == 0 &&
				eqs[1].QuestionID == 6 && eqs[1].OrderIndex == 1 &&
				eqs[2].QuestionID == 7 && eqs[2].OrderIndex == 2
		})).Return(nil)
		repo.examQuestion.On("Count", mock.Anything, uint(3)).Return(int64(3), nil)
		repo.examQuestion.On("SumPoints", mock.Anything, uint(3)).Return(float64(6), nil)
		repo.exam.On("UpdateTotals", mock.Anything, uint(3), 3, float64(6)).Return(nil)
		repo.exam.On("GetByIDWithQuestions", mock.Anything, uint(3)).Return(&models.Exam{ID: 3}, nil)

		service := newExamService(repo, newTestPublisher())
		resp, err := service.CreateFromMatrix(ctx, &CreateExamFromMatrixRequest{
			CreateExamRequest: CreateExamRequest{Title: "Generated", DurationMinutes: 30},
			QuestionBankID:    uintPtr(1),
			Rows: []MatrixRowRequest{
				{Difficulty: "Easy", QuestionCount: 2, PointsPerQuestion: 2},
				{Difficulty: "Hard", QuestionCount: 2, PointsPerQuestion: 2},
			},
		}, 7)

		assert.NoError(t, err)
		assert.Equal(t, uint(3), resp.ID)
		repo.examQuestion.AssertExpectations(t)
	})

	t.Run("no matrix and no rows fails", func(t *testing.T) {
		service := newExamService(NewMockRepository(), newTestPublisher())
		_, err := service.CreateFromMatrix(ctx, &CreateExamFromMatrixRequest{
			CreateExamRequest: CreateExamRequest{Title: "Generated", DurationMinutes: 30},
		}, 7)

		assert.ErrorIs(t, err, ErrMatrixEmpty)
	})
}
