package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

type accountService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewAccountService(repo repositories.Repository, logger utils.Logger) AccountService {
	return &accountService{
		repo:   repo,
		logger: logger,
	}
}

// EnsureTeacher returns the teacher profile for the account, creating it on
// first use. Safe to call repeatedly and from concurrent requests; the insert
// is an upsert keyed on account id.
func (s *accountService) EnsureTeacher(ctx context.Context, accountID uint) (*models.Teacher, error) {
	teacher, err := s.repo.User().GetTeacherByID(ctx, accountID)
	if err == nil {
		return teacher, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}

	account, err := s.repo.User().GetAccountByID(ctx, accountID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.Role != models.RoleTeacher && account.Role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	teacher = &models.Teacher{
		AccountID: accountID,
		IsActive:  true,
	}
	if err := s.repo.User().SaveTeacher(ctx, teacher); err != nil {
		return nil, fmt.Errorf("failed to provision teacher profile: %w", err)
	}

	s.logger.InfoContext(ctx, "Provisioned teacher profile", "account_id", accountID)
	return s.repo.User().GetTeacherByID(ctx, accountID)
}

// EnsureStudent mirrors EnsureTeacher for the exam-taking profile. Invoked
// before the first attempt so starting an exam never fails on a missing
// profile row.
func (s *accountService) EnsureStudent(ctx context.Context, accountID uint) (*models.Student, error) {
	student, err := s.repo.User().GetStudentByID(ctx, accountID)
	if err == nil {
		return student, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	account, err := s.repo.User().GetAccountByID(ctx, accountID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.Role != models.RoleStudent {
		return nil, ErrInvalidRole
	}

	student = &models.Student{
		AccountID: accountID,
		IsActive:  true,
	}
	if err := s.repo.User().SaveStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to provision student profile: %w", err)
	}

	s.logger.InfoContext(ctx, "Provisioned student profile", "account_id", accountID)
	return s.repo.User().GetStudentByID(ctx, accountID)
}
