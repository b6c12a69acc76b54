package services

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// ===== EXAM REQUESTS =====

type CreateExamRequest struct {
	Title           string                `json:"title" validate:"required,min=1,max=200"`
	Description     *string               `json:"description" validate:"omitempty,max=1000"`
	GradeLevel      *int                  `json:"grade_level" validate:"omitempty,min=1,max=12"`
	DurationMinutes int                   `json:"duration_minutes" validate:"required,min=5,max=300"`
	MaxAttempts     int                   `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	ScoringMethod   *models.ScoringMethod `json:"scoring_method" validate:"omitempty,scoring_method"`
	StartTime       *time.Time            `json:"start_time"`
	EndTime         *time.Time            `json:"end_time"`
}

type UpdateExamRequest struct {
	Title           *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string               `json:"description" validate:"omitempty,max=1000"`
	GradeLevel      *int                  `json:"grade_level" validate:"omitempty,min=1,max=12"`
	DurationMinutes *int                  `json:"duration_minutes" validate:"omitempty,min=5,max=300"`
	MaxAttempts     *int                  `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	ScoringMethod   *models.ScoringMethod `json:"scoring_method" validate:"omitempty,scoring_method"`
	StartTime       *time.Time            `json:"start_time"`
	EndTime         *time.Time            `json:"end_time"`
}

// CreateExamFromMatrixRequest builds an exam and fills its question set from a
// sampling spec: either a persisted matrix (ExamMatrixID) or inline Rows.
// QuestionBankID is the request-level default bank for rows that name none.
type CreateExamFromMatrixRequest struct {
	CreateExamRequest

	ExamMatrixID   *uint              `json:"exam_matrix_id"`
	QuestionBankID *uint              `json:"question_bank_id"`
	Rows           []MatrixRowRequest `json:"rows" validate:"omitempty,dive"`
}

type AddQuestionsRequest struct {
	Questions []ExamQuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type ExamQuestionInput struct {
	QuestionID uint    `json:"question_id" validate:"required"`
	Points     float64 `json:"points" validate:"required,gt=0"`
}

// ===== MATRIX REQUESTS =====

// MatrixRowRequest is one sampling row. Difficulty accepts a numeric level
// ("2") or a symbolic label ("Medium").
type MatrixRowRequest struct {
	QuestionBankID    *uint   `json:"question_bank_id"`
	Domain            *string `json:"domain" validate:"omitempty,max=100"`
	Difficulty        string  `json:"difficulty" validate:"required,difficulty_level"`
	QuestionCount     int     `json:"question_count" validate:"required,min=1"`
	PointsPerQuestion float64 `json:"points_per_question" validate:"required,gt=0"`
}

type CreateMatrixRequest struct {
	Name           string             `json:"name" validate:"required,min=1,max=200"`
	Description    *string            `json:"description" validate:"omitempty,max=1000"`
	QuestionBankID *uint              `json:"question_bank_id"`
	Rows           []MatrixRowRequest `json:"rows" validate:"required,min=1,dive"`
}

type UpdateMatrixRequest struct {
	Name           *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string            `json:"description" validate:"omitempty,max=1000"`
	QuestionBankID *uint              `json:"question_bank_id"`
	Rows           []MatrixRowRequest `json:"rows" validate:"omitempty,min=1,dive"`
}

// PreviewMatrixRequest is the dry-run form of CreateExamFromMatrixRequest:
// same resolution rules, nothing persisted.
type PreviewMatrixRequest struct {
	ExamMatrixID   *uint              `json:"exam_matrix_id"`
	QuestionBankID *uint              `json:"question_bank_id"`
	Rows           []MatrixRowRequest `json:"rows" validate:"omitempty,dive"`
}

// ===== ATTEMPT REQUESTS =====

type StartAttemptRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

type SubmitAttemptRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"dive"`
}

// SubmittedAnswer carries one answer; SelectedAnswerID for multiple choice,
// TextAnswer for fill-in-blank.
type SubmittedAnswer struct {
	QuestionID       uint    `json:"question_id" validate:"required"`
	SelectedAnswerID *uint   `json:"selected_answer_id"`
	TextAnswer       *string `json:"text_answer"`
}

// ===== EXAM RESPONSES =====

type ExamResponse struct {
	ID              uint                 `json:"id"`
	Title           string               `json:"title"`
	Description     *string              `json:"description,omitempty"`
	GradeLevel      *int                 `json:"grade_level,omitempty"`
	ExamMatrixID    *uint                `json:"exam_matrix_id,omitempty"`
	Status          models.ExamStatus    `json:"status"`
	ScoringMethod   models.ScoringMethod `json:"scoring_method"`
	DurationMinutes int                  `json:"duration_minutes"`
	MaxAttempts     int                  `json:"max_attempts"`
	StartTime       *time.Time           `json:"start_time,omitempty"`
	EndTime         *time.Time           `json:"end_time,omitempty"`
	TotalQuestions  int                  `json:"total_questions"`
	TotalPoints     float64              `json:"total_points"`
	CreatedBy       uint                 `json:"created_by"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type ExamDetailResponse struct {
	ExamResponse
	Questions []ExamQuestionResponse `json:"questions"`
}

type ExamQuestionResponse struct {
	QuestionID   uint                `json:"question_id"`
	OrderIndex   int                 `json:"order_index"`
	Points       float64             `json:"points"`
	Content      string              `json:"content"`
	QuestionType models.QuestionType `json:"question_type"`
	Difficulty   string              `json:"difficulty"`
	Choices      []ChoiceResponse    `json:"choices,omitempty"`
}

// ChoiceResponse is one multiple-choice option. IsCorrect is only populated
// for the exam owner or an admin; student views never see it.
type ChoiceResponse struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answer_text"`
	OrderIndex int    `json:"order_index"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

type ExamListResponse struct {
	Exams  []*ExamResponse `json:"exams"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ===== MATRIX RESPONSES =====

type MatrixResponse struct {
	ID             uint                `json:"id"`
	Name           string              `json:"name"`
	Description    *string             `json:"description,omitempty"`
	TotalQuestions int                 `json:"total_questions"`
	TotalPoints    float64             `json:"total_points"`
	CreatedBy      uint                `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Rows           []MatrixRowResponse `json:"rows"`
}

type MatrixRowResponse struct {
	ID                uint    `json:"id"`
	QuestionBankID    uint    `json:"question_bank_id"`
	Domain            *string `json:"domain,omitempty"`
	Difficulty        string  `json:"difficulty"`
	QuestionCount     int     `json:"question_count"`
	PointsPerQuestion float64 `json:"points_per_question"`
	OrderIndex        int     `json:"order_index"`
}

// MatrixPreviewResponse reports what a generation run would produce right now.
type MatrixPreviewResponse struct {
	TotalQuestions int                  `json:"total_questions"`
	TotalPoints    float64              `json:"total_points"`
	Rows           []PreviewRowResponse `json:"rows"`
}

type PreviewRowResponse struct {
	QuestionBankID    uint                      `json:"question_bank_id"`
	Difficulty        string                    `json:"difficulty"`
	Requested         int                       `json:"requested"`
	Available         int                       `json:"available"`
	PointsPerQuestion float64                   `json:"points_per_question"`
	Questions         []PreviewQuestionResponse `json:"questions"`
}

type PreviewQuestionResponse struct {
	ID           uint                `json:"id"`
	Content      string              `json:"content"`
	QuestionType models.QuestionType `json:"question_type"`
	Difficulty   string              `json:"difficulty"`
}

// ===== ATTEMPT RESPONSES =====

type AttemptResponse struct {
	ID              uint                 `json:"id"`
	ExamID          uint                 `json:"exam_id"`
	StudentID       uint                 `json:"student_id"`
	AttemptNumber   int                  `json:"attempt_number"`
	Status          models.AttemptStatus `json:"status"`
	StartedAt       time.Time            `json:"started_at"`
	SubmittedAt     *time.Time           `json:"submitted_at,omitempty"`
	TotalScore      float64              `json:"total_score"`
	MaxScore        float64              `json:"max_score"`
	ScorePercentage float64              `json:"score_percentage"`
	CorrectCount    int                  `json:"correct_count"`
	IncorrectCount  int                  `json:"incorrect_count"`
	TotalQuestions  int                  `json:"total_questions"`

	// Resumed is true when Start found an open attempt instead of creating
	// a new one.
	Resumed bool `json:"resumed,omitempty"`
}

type AttemptDetailResponse struct {
	AttemptResponse
	Answers []AttemptAnswerResponse `json:"answers"`
}

type AttemptAnswerResponse struct {
	QuestionID       uint    `json:"question_id"`
	SelectedAnswerID *uint   `json:"selected_answer_id,omitempty"`
	TextAnswer       *string `json:"text_answer,omitempty"`
	IsCorrect        bool    `json:"is_correct"`
	PointsEarned     float64 `json:"points_earned"`
	PointsPossible   float64 `json:"points_possible"`
}

type AttemptListResponse struct {
	Attempts []*AttemptResponse `json:"attempts"`
	Total    int64              `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// ===== RESPONSE BUILDERS =====

func toExamResponse(exam *models.Exam) *ExamResponse {
	return &ExamResponse{
		ID:              exam.ID,
		Title:           exam.Title,
		Description:     exam.Description,
		GradeLevel:      exam.GradeLevel,
		ExamMatrixID:    exam.ExamMatrixID,
		Status:          exam.Status,
		ScoringMethod:   exam.ScoringMethod,
		DurationMinutes: exam.DurationMinutes,
		MaxAttempts:     exam.MaxAttempts,
		StartTime:       exam.StartTime,
		EndTime:         exam.EndTime,
		TotalQuestions:  exam.TotalQuestions,
		TotalPoints:     exam.TotalPoints,
		CreatedBy:       exam.CreatedBy,
		CreatedAt:       exam.CreatedAt,
		UpdatedAt:       exam.UpdatedAt,
	}
}

func toExamDetailResponse(exam *models.Exam, includeKeys bool) *ExamDetailResponse {
	resp := &ExamDetailResponse{
		ExamResponse: *toExamResponse(exam),
		Questions:    make([]ExamQuestionResponse, 0, len(exam.Questions)),
	}

	for _, eq := range exam.Questions {
		qr := ExamQuestionResponse{
			QuestionID:   eq.QuestionID,
			OrderIndex:   eq.OrderIndex,
			Points:       eq.Points,
			Content:      eq.Question.Content,
			QuestionType: eq.Question.QuestionType,
			Difficulty:   eq.Question.Difficulty.String(),
		}
		for _, mc := range eq.Question.MultipleChoiceAnswers {
			choice := ChoiceResponse{
				ID:         mc.ID,
				AnswerText: mc.AnswerText,
				OrderIndex: mc.OrderIndex,
			}
			if includeKeys {
				isCorrect := mc.IsCorrect
				choice.IsCorrect = &isCorrect
			}
			qr.Choices = append(qr.Choices, choice)
		}
		resp.Questions = append(resp.Questions, qr)
	}

	return resp
}

func toMatrixResponse(matrix *models.ExamMatrix) *MatrixResponse {
	resp := &MatrixResponse{
		ID:             matrix.ID,
		Name:           matrix.Name,
		Description:    matrix.Description,
		TotalQuestions: matrix.TotalQuestions,
		TotalPoints:    matrix.TotalPoints,
		CreatedBy:      matrix.CreatedBy,
		CreatedAt:      matrix.CreatedAt,
		UpdatedAt:      matrix.UpdatedAt,
		Rows:           make([]MatrixRowResponse, 0, len(matrix.Rows)),
	}

	for _, row := range matrix.Rows {
		resp.Rows = append(resp.Rows, MatrixRowResponse{
			ID:                row.ID,
			QuestionBankID:    row.QuestionBankID,
			Domain:            row.Domain,
			Difficulty:        row.Difficulty.String(),
			QuestionCount:     row.QuestionCount,
			PointsPerQuestion: row.PointsPerQuestion,
			OrderIndex:        row.OrderIndex,
		})
	}

	return resp
}

func toAttemptResponse(attempt *models.ExamAttempt) *AttemptResponse {
	return &AttemptResponse{
		ID:              attempt.ID,
		ExamID:          attempt.ExamID,
		StudentID:       attempt.StudentID,
		AttemptNumber:   attempt.AttemptNumber,
		Status:          attempt.Status,
		StartedAt:       attempt.StartedAt,
		SubmittedAt:     attempt.SubmittedAt,
		TotalScore:      attempt.TotalScore,
		MaxScore:        attempt.MaxScore,
		ScorePercentage: attempt.ScorePercentage,
		CorrectCount:    attempt.CorrectCount,
		IncorrectCount:  attempt.IncorrectCount(),
		TotalQuestions:  attempt.TotalQuestions,
	}
}

func toAttemptDetailResponse(attempt *models.ExamAttempt) *AttemptDetailResponse {
	resp := &AttemptDetailResponse{
		AttemptResponse: *toAttemptResponse(attempt),
		Answers:         make([]AttemptAnswerResponse, 0, len(attempt.Answers)),
	}

	for _, ans := range attempt.Answers {
		resp.Answers = append(resp.Answers, AttemptAnswerResponse{
			QuestionID:       ans.QuestionID,
			SelectedAnswerID: ans.SelectedAnswerID,
			TextAnswer:       ans.TextAnswer,
			IsCorrect:        ans.IsCorrect,
			PointsEarned:     ans.PointsEarned,
			PointsPossible:   ans.PointsPossible,
		})
	}

	return resp
}
