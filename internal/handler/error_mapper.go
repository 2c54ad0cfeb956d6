package handler

import (
	"errors"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Validation Errors → 422 =====
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return model.NewValidationError(validation.Fields)
	}

	// ===== Referential Conflicts → 409 =====
	var referenced *service.ReferentialConflictError
	if errors.As(err, &referenced) {
		return model.NewReferentialConflictError(referenced.Resource, referenced.Blockers)
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return model.NewValidationError([]model.FieldError{{Field: "body", Message: err.Error()}})

	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		pd := model.NewUnauthorizedError(err.Error())
		pd.Code = model.ErrCodeLoginFailed
		return pd
	case errors.Is(err, service.ErrSessionAccountGone):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrContractForbidden):
		pd := model.NewForbiddenError(err.Error())
		pd.Code = model.ErrCodeNotVisible
		return pd
	case errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrStaffRequired):
		pd := model.NewForbiddenError(err.Error())
		pd.Code = model.ErrCodeRoleRequired
		return pd
	case errors.Is(err, service.ErrAccountProtected):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrContractNotFound):
		return model.NewNotFoundError("contract")
	case errors.Is(err, service.ErrPlayerNotFound):
		return model.NewNotFoundError("player")
	case errors.Is(err, service.ErrTeamNotFound):
		return model.NewNotFoundError("team")
	case errors.Is(err, service.ErrAccountNotFound):
		return model.NewNotFoundError("account")
	case errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("record")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrConcurrencyConflict),
		errors.Is(err, database.ErrVersionMismatch):
		return model.NewConcurrencyConflictError("record")
	case errors.Is(err, service.ErrReferentialConflict),
		errors.Is(err, database.ErrReferenced):
		return model.NewReferentialConflictError("record", nil)
	case errors.Is(err, service.ErrAccountAlreadyLinked),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, database.ErrDuplicate):
		pd := model.NewConflictError(err.Error())
		pd.Code = model.ErrCodeAlreadyExists
		return pd

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
