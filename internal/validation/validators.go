package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/werkgeheugen/backend/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("task_category", validateTaskCategory); err != nil {
		panic(fmt.Sprintf("failed to register task_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_effort", validateTaskEffort); err != nil {
		panic(fmt.Sprintf("failed to register task_effort validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("poll_vote", validatePollVote); err != nil {
		panic(fmt.Sprintf("failed to register poll_vote validator: %v", err))
	}
}

// validateTaskCategory validates that a string is a valid TaskCategory enum value
func validateTaskCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.TaskCategory(value) {
	case models.CategoryWerk, models.CategoryApps, models.CategoryVoetbal,
		models.CategoryStraatambassadeurs, models.CategoryGezin,
		models.CategoryFinancien, models.CategoryOverig:
		return true
	default:
		return false
	}
}

// validateTaskEffort validates that a string is a valid TaskEffort enum value
func validateTaskEffort(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.TaskEffort(value) {
	case models.EffortMicro, models.EffortKlein, models.EffortMiddel, models.EffortGroot:
		return true
	default:
		return false
	}
}

// validateTaskStatus validates that a string is a valid TaskStatus enum value
func validateTaskStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.TaskStatus(value) {
	case models.StatusInbox, models.StatusActive, models.StatusDone, models.StatusSnoozed:
		return true
	default:
		return false
	}
}

// validatePollVote validates that a string is a valid Vote enum value
func validatePollVote(fl validator.FieldLevel) bool {
	return models.ValidVote(models.Vote(fl.Field().String()))
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTaskStatus validates a TaskStatus string value
func ValidateTaskStatus(value string) error {
	status := models.TaskStatus(value)
	switch status {
	case models.StatusInbox, models.StatusActive, models.StatusDone, models.StatusSnoozed:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'inbox', 'active', 'done', or 'snoozed')", value)
	}
}

// ValidateTaskCategory validates a TaskCategory string value
func ValidateTaskCategory(value string) error {
	switch models.TaskCategory(value) {
	case models.CategoryWerk, models.CategoryApps, models.CategoryVoetbal,
		models.CategoryStraatambassadeurs, models.CategoryGezin,
		models.CategoryFinancien, models.CategoryOverig:
		return nil
	default:
		return fmt.Errorf("invalid category: %s", value)
	}
}

// ValidatePriority validates an ordinal priority value
func ValidatePriority(value int) error {
	if value < 1 || value > 3 {
		return fmt.Errorf("invalid priority: %d (must be 1, 2, or 3)", value)
	}
	return nil
}

// ValidateVote validates a poll Vote string value
func ValidateVote(value string) error {
	if !models.ValidVote(models.Vote(value)) {
		return fmt.Errorf("invalid vote: %s (must be 'ja', 'misschien', or 'nee')", value)
	}
	return nil
}
