package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionAccountGone = errors.New("authenticated account no longer exists")
)

// ===== Authorization Errors =====
var (
	ErrStaffRequired     = errors.New("staff or admin role required")
	ErrAdminRequired     = errors.New("admin role required")
	ErrContractForbidden = errors.New("contract is not visible to the requester")
	ErrAccountProtected  = errors.New("admin accounts cannot be changed or deleted here")
)

// ===== Not Found Errors =====
var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrAccountNotFound  = errors.New("account not found")
)

// ===== Validation Errors =====
var (
	ErrValidation              = errors.New("validation failed")
	ErrInvalidDateRange        = errors.New("end date must be after start date")
	ErrInvalidStatusFilter     = errors.New("status must be one of active, past, future")
	ErrPlayerReferenceMissing  = errors.New("referenced player does not exist")
	ErrTeamReferenceMissing    = errors.New("referenced team does not exist")
	ErrAccountReferenceMissing = errors.New("referenced account does not exist")
)

// ===== Conflict Errors =====
var (
	ErrReferentialConflict  = errors.New("record is still referenced")
	ErrConcurrencyConflict  = errors.New("record was modified concurrently")
	ErrAccountAlreadyLinked = errors.New("account is already linked to another player")
	ErrEmailTaken           = errors.New("email is already in use")
)

// ValidationError carries the failing fields. It matches ErrValidation and,
// when set, the specific Cause.
type ValidationError struct {
	Fields []model.FieldError
	Cause  error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValidation, e.Cause}
	}
	return []error{ErrValidation}
}

// newValidationError returns nil when there is nothing to report. The cause
// is derived from the first field with a dedicated sentinel.
func newValidationError(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	ve := &ValidationError{Fields: fields}
	for _, f := range fields {
		if f.Field == "end_date" && strings.Contains(f.Message, "after") {
			ve.Cause = ErrInvalidDateRange
			break
		}
	}
	return ve
}

// fieldError builds a single-field validation error with a cause
func fieldError(field string, cause error) error {
	return &ValidationError{
		Fields: []model.FieldError{{Field: field, Message: cause.Error()}},
		Cause:  cause,
	}
}

// missingReference turns a link the store could not resolve into the
// validation error for that field. Other errors pass through.
func missingReference(err error) error {
	var missing *database.MissingReferenceError
	if !errors.As(err, &missing) {
		return err
	}
	switch missing.Field {
	case "player_id":
		return fieldError("player_id", ErrPlayerReferenceMissing)
	case "team_id":
		return fieldError("team_id", ErrTeamReferenceMissing)
	case "account_id":
		return fieldError("account_id", ErrAccountReferenceMissing)
	}
	return err
}

// ReferentialConflictError names what still references a record that was
// asked to be deleted
type ReferentialConflictError struct {
	Resource string
	Blockers []model.Blocker
}

func (e *ReferentialConflictError) Error() string {
	if len(e.Blockers) == 0 {
		return fmt.Sprintf("%s: %s", ErrReferentialConflict, e.Resource)
	}
	parts := make([]string, 0, len(e.Blockers))
	for _, b := range e.Blockers {
		parts = append(parts, fmt.Sprintf("%d %s", b.Count, b.Relation))
	}
	return fmt.Sprintf("%s: %s referenced by %s", ErrReferentialConflict, e.Resource, strings.Join(parts, ", "))
}

func (e *ReferentialConflictError) Unwrap() error {
	return ErrReferentialConflict
}
