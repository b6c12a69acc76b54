package utils

import (
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-service/internal/errors"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation with the custom tags the
// request DTOs use.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Custom validation functions

func ValidateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.MultipleChoice,
		models.FillBlank,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

// ValidateDifficultyLevel accepts a numeric level ("1") or a symbolic label
// ("Easy", case-insensitive). Applied to the string difficulty field on
// matrix row requests.
func ValidateDifficultyLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return n >= 1
	}
	_, ok := models.ParseDifficulty(value)
	return ok
}

func ValidateExamStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ExamStatus{
		models.ExamStatusDraft,
		models.ExamStatusActive,
		models.ExamStatusInactive,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func ValidateScoringMethod(fl validator.FieldLevel) bool {
	validMethods := []models.ScoringMethod{
		models.ScoringAverage,
		models.ScoringHighest,
		models.ScoringLatest,
	}

	value := fl.Field().String()
	for _, validMethod := range validMethods {
		if string(validMethod) == value {
			return true
		}
	}
	return false
}

func ValidateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleTeacher,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("difficulty_level", ValidateDifficultyLevel)
	validate.RegisterValidation("exam_status", ValidateExamStatus)
	validate.RegisterValidation("scoring_method", ValidateScoringMethod)
	validate.RegisterValidation("user_role", ValidateUserRole)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
