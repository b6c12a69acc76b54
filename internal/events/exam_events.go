package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of domain events
type EventType string

const (
	// Exam events
	EventExamPublished EventType = "exam.published"
	EventExamDrafted   EventType = "exam.drafted"

	// Attempt events
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

// DomainEvent is the base event structure for all published events
type DomainEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Exam event payloads

type ExamPublishedEvent struct {
	ExamID          uint    `json:"exam_id"`
	ExamTitle       string  `json:"exam_title"`
	DurationMinutes int     `json:"duration_minutes"`
	MaxAttempts     int     `json:"max_attempts"`
	TotalQuestions  int     `json:"total_questions"`
	TotalPoints     float64 `json:"total_points"`
	CreatorID       uint    `json:"creator_id"`
}

// Attempt event payloads

type AttemptStartedEvent struct {
	AttemptID     uint      `json:"attempt_id"`
	ExamID        uint      `json:"exam_id"`
	ExamTitle     string    `json:"exam_title"`
	StudentID     uint      `json:"student_id"`
	AttemptNumber int       `json:"attempt_number"`
	StartedAt     time.Time `json:"started_at"`
}

type AttemptSubmittedEvent struct {
	AttemptID       uint      `json:"attempt_id"`
	ExamID          uint      `json:"exam_id"`
	ExamTitle       string    `json:"exam_title"`
	StudentID       uint      `json:"student_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `json:"max_score"`
	ScorePercentage float64   `json:"score_percentage"`
	CorrectCount    int       `json:"correct_count"`
}

// Event factory functions

func NewExamPublishedEvent(examID uint, title string, durationMinutes, maxAttempts, totalQuestions int, totalPoints float64, creatorID uint) *DomainEvent {
	return &DomainEvent{
		ID:        watermill.NewUUID(),
		Type:      EventExamPublished,
		Timestamp: time.Now(),
		Source:    "exam-service",
		Version:   "1.0",
		Data: ExamPublishedEvent{
			ExamID:          examID,
			ExamTitle:       title,
			DurationMinutes: durationMinutes,
			MaxAttempts:     maxAttempts,
			TotalQuestions:  totalQuestions,
			TotalPoints:     totalPoints,
			CreatorID:       creatorID,
		},
	}
}

type ExamDraftedEvent struct {
	ExamID    uint   `json:"exam_id"`
	ExamTitle string `json:"exam_title"`
	CreatorID uint   `json:"creator_id"`
}

func NewExamDraftedEvent(examID uint, title string, creatorID uint) *DomainEvent {
	return &DomainEvent{
		ID:        watermill.NewUUID(),
		Type:      EventExamDrafted,
		Timestamp: time.Now(),
		Source:    "exam-service",
		Version:   "1.0",
		Data: ExamDraftedEvent{
			ExamID:    examID,
			ExamTitle: title,
			CreatorID: creatorID,
		},
	}
}

func NewAttemptStartedEvent(attemptID, examID uint, title string, studentID uint, attemptNumber int, startedAt time.Time) *DomainEvent {
	return &DomainEvent{
		ID:        watermill.NewUUID(),
		Type:      EventAttemptStarted,
		Timestamp: time.Now(),
		Source:    "exam-service",
		Version:   "1.0",
		Data: AttemptStartedEvent{
			AttemptID:     attemptID,
			ExamID:        examID,
			ExamTitle:     title,
			StudentID:     studentID,
			AttemptNumber: attemptNumber,
			StartedAt:     startedAt,
		},
	}
}

func NewAttemptSubmittedEvent(attemptID, examID uint, title string, studentID uint, submittedAt time.Time, totalScore, maxScore, percentage float64, correctCount int) *DomainEvent {
	return &DomainEvent{
		ID:        watermill.NewUUID(),
		Type:      EventAttemptSubmitted,
		Timestamp: time.Now(),
		Source:    "exam-service",
		Version:   "1.0",
		Data: AttemptSubmittedEvent{
			AttemptID:       attemptID,
			ExamID:          examID,
			ExamTitle:       title,
			StudentID:       studentID,
			SubmittedAt:     submittedAt,
			TotalScore:      totalScore,
			MaxScore:        maxScore,
			ScorePercentage: percentage,
			CorrectCount:    correctCount,
		},
	}
}
