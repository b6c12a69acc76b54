package services

import (
	"math"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// GradeResult is the outcome of grading one submission: the aggregates to
// persist on the attempt plus the per-question answer rows.
type GradeResult struct {
	TotalScore      float64
	MaxScore        float64
	ScorePercentage float64
	CorrectCount    int
	TotalQuestions  int
	Answers         []*models.AttemptAnswer
}

// GradeSubmission grades a full submission against the exam's question set.
// It is pure: no storage access, no clock.
//
// Every exam question contributes its points to MaxScore whether answered or
// not. Submitted answers whose question id is not in the exam are ignored.
// Scoring is all-or-nothing per question: full points when correct, zero
// otherwise.
func GradeSubmission(examQuestions []*models.ExamQuestion, submitted []SubmittedAnswer) *GradeResult {
	answersByQuestion := make(map[uint]*SubmittedAnswer, len(submitted))
	for i := range submitted {
		ans := &submitted[i]
		if _, seen := answersByQuestion[ans.QuestionID]; !seen {
			answersByQuestion[ans.QuestionID] = ans
		}
	}

	result := &GradeResult{
		TotalQuestions: len(examQuestions),
		Answers:        make([]*models.AttemptAnswer, 0, len(examQuestions)),
	}

	for _, eq := range examQuestions {
		result.MaxScore += eq.Points

		ans, answered := answersByQuestion[eq.QuestionID]
		if !answered {
			continue
		}

		correct := gradeAnswer(&eq.Question, ans)

		row := &models.AttemptAnswer{
			QuestionID:       eq.QuestionID,
			SelectedAnswerID: ans.SelectedAnswerID,
			TextAnswer:       ans.TextAnswer,
			IsCorrect:        correct,
			PointsPossible:   eq.Points,
		}
		if correct {
			row.PointsEarned = eq.Points
			result.TotalScore += eq.Points
			result.CorrectCount++
		}
		result.Answers = append(result.Answers, row)
	}

	result.TotalScore = roundHalfUp(result.TotalScore)
	result.MaxScore = roundHalfUp(result.MaxScore)
	if result.MaxScore > 0 {
		result.ScorePercentage = roundHalfUp(result.TotalScore / result.MaxScore * 100)
	}

	return result
}

// gradeAnswer dispatches on the question kind.
func gradeAnswer(question *models.Question, ans *SubmittedAnswer) bool {
	switch question.QuestionType {
	case models.MultipleChoice:
		return gradeMultipleChoice(question, ans.SelectedAnswerID)
	case models.FillBlank:
		return gradeFillBlank(question, ans.TextAnswer)
	default:
		return false
	}
}

// gradeMultipleChoice is correct iff the selected option exists for this
// question and is flagged correct.
func gradeMultipleChoice(question *models.Question, selectedID *uint) bool {
	if selectedID == nil {
		return false
	}
	for _, option := range question.MultipleChoiceAnswers {
		if option.ID == *selectedID {
			return option.IsCorrect
		}
	}
	return false
}

// gradeFillBlank matches the normalized submission against every accepted
// answer's normalized form.
func gradeFillBlank(question *models.Question, text *string) bool {
	if text == nil {
		return false
	}
	normalized := models.NormalizeAnswerText(*text)
	if normalized == "" {
		return false
	}
	for _, accepted := range question.FillBlankAnswers {
		if normalized == accepted.NormalizedCorrectAnswer {
			return true
		}
	}
	return false
}

// roundHalfUp rounds to two decimal places, half away from zero, matching the
// decimal(10,2) storage of every score column.
func roundHalfUp(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
