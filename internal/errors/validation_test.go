package errors_test

import (
	"errors"
	"testing"

	apperrors "github.com/SAP-F-2025/exam-service/internal/errors"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := apperrors.NewValidationError("title", "is required", "")

	assert.Equal(t, "title", err.Field)
	assert.Equal(t, "is required", err.Message)
	assert.Equal(t, "validation error on field 'title': is required", err.Error())

	withRule := apperrors.NewValidationErrorWithRule("max_attempts", "must be at least 1", "min", 0)
	assert.Equal(t, "min", withRule.Rule)
}

func TestValidationErrors_Error(t *testing.T) {
	var errs apperrors.ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *apperrors.NewValidationError("title", "is required", nil))
	assert.Equal(t, "validation failed: title is required", errs.Error())

	errs = append(errs, *apperrors.NewValidationError("duration_minutes", "must be at least 5", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestToValidationErrors_CustomTags(t *testing.T) {
	validate := validator.New()
	utils.RegisterCustomValidators(validate)

	type examInput struct {
		Title         string `json:"title" validate:"required"`
		Status        string `json:"status" validate:"omitempty,exam_status"`
		ScoringMethod string `json:"scoring_method" validate:"omitempty,scoring_method"`
		Difficulty    string `json:"difficulty" validate:"omitempty,difficulty_level"`
		Duration      int    `json:"duration_minutes" validate:"min=5"`
	}

	err := validate.Struct(&examInput{
		Status:        "Published",
		ScoringMethod: "Best",
		Difficulty:    "impossible",
		Duration:      2,
	})
	assert.Error(t, err)

	converted := apperrors.ToValidationErrors(err)
	assert.Len(t, converted, 5)

	byField := make(map[string]apperrors.ValidationError, len(converted))
	for _, ve := range converted {
		byField[ve.Field] = ve
	}

	// Field names come from the json tags, not the Go struct fields.
	assert.Equal(t, "is required", byField["title"].Message)
	assert.Equal(t, "must be a valid exam status (Draft, Active, Inactive)", byField["status"].Message)
	assert.Equal(t, "must be a valid scoring method (Average, Highest, Latest)", byField["scoring_method"].Message)
	assert.Equal(t, "must be a numeric level or one of Easy, Medium, Hard", byField["difficulty"].Message)
	assert.Equal(t, "must be at least 5", byField["duration_minutes"].Message)

	assert.Equal(t, "exam_status", byField["status"].Rule)
	assert.Equal(t, "Published", byField["status"].Value)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	converted := apperrors.ToValidationErrors(errors.New("connection refused"))
	assert.Empty(t, converted)
}
