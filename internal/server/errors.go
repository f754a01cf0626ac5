package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/ingestion"
	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/scheduling"
	"github.com/jonathan/talentflow/internal/schemas"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrNotFound indicates a missing job, candidate, interview or user
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		creds       *ErrInvalidCredentials
		validation  *ErrValidation
		invalid     *ranking.InvalidInputError
		schema      *schemas.ValidationError
		unsupported *ingestion.UnsupportedFormatError
		extraction  *ingestion.ExtractionError
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &creds):
		return http.StatusUnauthorized
	case errors.As(err, &validation), errors.As(err, &invalid), errors.As(err, &schema),
		errors.As(err, &unsupported), errors.Is(err, scheduling.ErrPastTime),
		errors.Is(err, scheduling.ErrUnknownResponse):
		return http.StatusBadRequest
	case errors.Is(err, scheduling.ErrSlotUnavailable), errors.Is(err, scheduling.ErrInterviewClosed):
		return http.StatusConflict
	case errors.As(err, &extraction), errors.Is(err, ingestion.ErrNoText):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
