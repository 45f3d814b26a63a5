package services

import (
	stderrors "errors"
	"fmt"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/repository"
)

// Service errors
var (
	ErrNoTablesSpecified  = &ServiceError{Message: "no tables specified"}
	ErrNoCurrentLifter    = apperrors.NotFound("no lifter is on the platform")
	ErrInvalidDiscipline  = apperrors.Validation("discipline must be Powerlifting, Squat, Bench or Deadlift")
	ErrInvalidGender      = apperrors.Validation("gender must be Male or Female")
	ErrInvalidDate        = apperrors.Validation("dates must be formatted YYYY-MM-DD")
	ErrInvalidBodyweight  = apperrors.Validation("bodyweight must be positive")
	ErrInvalidAttemptNum  = apperrors.Validation("attempt number must be between 1 and 3")
	ErrInvalidAttemptKg   = apperrors.Validation("attempt weight must be positive")
	ErrInvalidLiftKind    = apperrors.Validation("lift must be Squat, Bench or Deadlift")
	ErrInvalidStatus      = apperrors.Validation("status must be Pending, Successful or Failed")
	ErrInvalidTargetKg    = apperrors.Validation("target weight must be positive")
	ErrInvalidPlate       = apperrors.Validation("plate weight must be positive and pairs must not be negative")
	ErrInvalidDescriptor  = apperrors.Validation("descriptor code is required and bounds must not cross")
	ErrMissingContestName = apperrors.Validation("contest name is required")
	ErrMissingName        = apperrors.Validation("first and last name are required")
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// UnknownTableError is returned when a reset names a table that cannot be cleared
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}

// notFoundOr translates a missing row into a NotFound error, passing other errors through
func notFoundOr(err error, format string, args ...interface{}) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFoundf(format, args...)
	}
	return err
}

// conflictOr translates a uniqueness violation into a Conflict error
func conflictOr(err error, format string, args ...interface{}) error {
	if stderrors.Is(err, repository.ErrDuplicate) {
		return apperrors.Conflictf(format, args...)
	}
	return err
}
