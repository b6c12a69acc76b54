package services

import (
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func mcQuestion(id uint, options ...models.MultipleChoiceAnswer) models.Question {
	return models.Question{
		ID:                    id,
		QuestionType:          models.MultipleChoice,
		MultipleChoiceAnswers: options,
	}
}

func fbQuestion(id uint, accepted ...string) models.Question {
	q := models.Question{
		ID:           id,
		QuestionType: models.FillBlank,
	}
	for _, a := range accepted {
		q.FillBlankAnswers = append(q.FillBlankAnswers, fillBlank(a))
	}
	return q
}

func TestGradeSubmission_MultipleChoice(t *testing.T) {
	question := mcQuestion(1,
		models.MultipleChoiceAnswer{ID: 10, AnswerText: "Paris", IsCorrect: true},
		models.MultipleChoiceAnswer{ID: 11, AnswerText: "London"},
	)
	examQuestions := []*models.ExamQuestion{
		{QuestionID: 1, Points: 4, Question: question},
	}

	tests := []struct {
		name          string
		selected      *uint
		expectCorrect bool
		expectScore   float64
	}{
		{"correct option", uintPtr(10), true, 4},
		{"wrong option", uintPtr(11), false, 0},
		{"option from another question", uintPtr(99), false, 0},
		{"no selection", nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GradeSubmission(examQuestions, []SubmittedAnswer{
				{QuestionID: 1, SelectedAnswerID: tt.selected},
			})

			assert.Equal(t, tt.expectScore, result.TotalScore)
			assert.Equal(t, float64(4), result.MaxScore)
			assert.Len(t, result.Answers, 1)
			assert.Equal(t, tt.expectCorrect, result.Answers[0].IsCorrect)
			if tt.expectCorrect {
				assert.Equal(t, float64(4), result.Answers[0].PointsEarned)
				assert.Equal(t, 1, result.CorrectCount)
			} else {
				assert.Equal(t, float64(0), result.Answers[0].PointsEarned)
				assert.Equal(t, 0, result.CorrectCount)
			}
		})
	}
}

func TestGradeSubmission_FillBlank(t *testing.T) {
	examQuestions := []*models.ExamQuestion{
		{QuestionID: 1, Points: 2, Question: fbQuestion(1, "Photosynthesis", "photo synthesis")},
	}

	tests := []struct {
		name          string
		text          *string
		expectCorrect bool
	}{
		{"exact match", strPtr("Photosynthesis"), true},
		{"case and whitespace folded", strPtr("  PHOTOSYNTHESIS  "), true},
		{"second accepted answer", strPtr("photo synthesis"), true},
		{"wrong answer", strPtr("respiration"), false},
		{"whitespace only", strPtr("   "), false},
		{"nil text", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GradeSubmission(examQuestions, []SubmittedAnswer{
				{QuestionID: 1, TextAnswer: tt.text},
			})

			assert.Len(t, result.Answers, 1)
			assert.Equal(t, tt.expectCorrect, result.Answers[0].IsCorrect)
		})
	}
}

func TestGradeSubmission_UnansweredCountsTowardMax(t *testing.T) {
	examQuestions := []*models.ExamQuestion{
		{QuestionID: 1, Points: 3, Question: mcQuestion(1, models.MultipleChoiceAnswer{ID: 10, IsCorrect: true})},
		{QuestionID: 2, Points: 7, Question: fbQuestion(2, "answer")},
	}

	result := GradeSubmission(examQuestions, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
	})

	assert.Equal(t, float64(3), result.TotalScore)
	assert.Equal(t, float64(10), result.MaxScore)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectCount)
	// Only the answered question produces an answer row.
	assert.Len(t, result.Answers, 1)
	assert.Equal(t, float64(30), result.ScorePercentage)
}

func TestGradeSubmission_IgnoresUnknownQuestions(t *testing.T) {
	examQuestions := []*models.ExamQuestion{
		{QuestionID: 1, Points: 5, Question: mcQuestion(1, models.MultipleChoiceAnswer{ID: 10, IsCorrect: true})},
	}

	result := GradeSubmission(examQuestions, []SubmittedAnswer{
		{QuestionID: 999, SelectedAnswerID: uintPtr(10)},
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
	})

	assert.Equal(t, float64(5), result.TotalScore)
	assert.Len(t, result.Answers, 1)
}

func TestGradeSubmission_FirstAnswerWinsOnDuplicate(t *testing.T) {
	examQuestions := []*models.ExamQuestion{
		{QuestionID: 1, Points: 5, Question: mcQuestion(1,
			models.MultipleChoiceAnswer{ID: 10, IsCorrect: true},
			models.MultipleChoiceAnswer{ID: 11},
		)},
	}

	result := GradeSubmission(examQuestions, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(11)},
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
	})

	assert.Equal(t, float64(0), result.TotalScore)
	assert.Len(t, result.Answers, 1)
	assert.False(t, result.Answers[0].IsCorrect)
}

func TestGradeSubmission_EmptyExam(t *testing.T) {
	result := GradeSubmission(nil, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
	})

	assert.Equal(t, float64(0), result.TotalScore)
	assert.Equal(t, float64(0), result.MaxScore)
	// Zero max score yields zero percentage, not a division by zero.
	assert.Equal(t, float64(0), result.ScorePercentage)
	assert.Empty(t, result.Answers)
}

func TestGradeSubmission_PercentageRounding(t *testing.T) {
	// 1 of 3 one-point questions: 33.333...% rounds to 33.33.
	examQuestions := []*models.ExamQuestion{
		{QuestionID: 1, Points: 1, Question: mcQuestion(1, models.MultipleChoiceAnswer{ID: 10, IsCorrect: true})},
		{QuestionID: 2, Points: 1, Question: mcQuestion(2, models.MultipleChoiceAnswer{ID: 20, IsCorrect: true})},
		{QuestionID: 3, Points: 1, Question: mcQuestion(3, models.MultipleChoiceAnswer{ID: 30, IsCorrect: true})},
	}

	result := GradeSubmission(examQuestions, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
	})
	assert.Equal(t, 33.33, result.ScorePercentage)

	// 2 of 3 rounds half up: 66.666...% becomes 66.67.
	result = GradeSubmission(examQuestions, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswerID: uintPtr(10)},
		{QuestionID: 2, SelectedAnswerID: uintPtr(20)},
	})
	assert.Equal(t, 66.67, result.ScorePercentage)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 33.33, roundHalfUp(33.333333))
	assert.Equal(t, 66.67, roundHalfUp(66.666666))
	assert.Equal(t, 3.33, roundHalfUp(10.0/3))
	assert.Equal(t, 12.5, roundHalfUp(12.5))
	assert.Equal(t, 0.0, roundHalfUp(0))
}
