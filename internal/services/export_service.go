package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var attemptExportHeaders = []string{
	"Attempt ID", "Student ID", "Attempt #", "Status",
	"Started At", "Submitted At",
	"Score", "Max Score", "Percentage", "Correct", "Incorrect", "Total Questions",
}

// ExportAttempts renders every attempt of an exam into an .xlsx workbook.
// Only the exam owner or an admin may export.
func (s *exportService) ExportAttempts(ctx context.Context, examID, actorID uint, role models.UserRole) ([]byte, string, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrExamNotFound
		}
		return nil, "", fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.CreatedBy != actorID && role != models.RoleAdmin {
		return nil, "", NewPermissionError(actorID, examID, "exam", "export attempts of", "not the owner")
	}

	attempts, _, err := s.repo.Attempt().List(ctx, repositories.AttemptFilters{ExamID: &examID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attempts"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range attemptExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, attempt := range attempts {
		row := i + 2
		submittedAt := ""
		if attempt.SubmittedAt != nil {
			submittedAt = attempt.SubmittedAt.Format(time.RFC3339)
		}
		values := []interface{}{
			attempt.ID,
			attempt.StudentID,
			attempt.AttemptNumber,
			string(attempt.Status),
			attempt.StartedAt.Format(time.RFC3339),
			submittedAt,
			attempt.TotalScore,
			attempt.MaxScore,
			attempt.ScorePercentage,
			attempt.CorrectCount,
			attempt.IncorrectCount(),
			attempt.TotalQuestions,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write attempt row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("exam_%d_attempts_%s.xlsx", examID, time.Now().Format("20060102_150405"))

	s.logger.InfoContext(ctx, "Exported attempt report",
		"exam_id", examID,
		"attempts", len(attempts),
		"actor_id", actorID)

	return buf.Bytes(), filename, nil
}
