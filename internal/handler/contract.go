package handler

import (
	"context"
	"net/http"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/internal/service"
)

// ContractService is the contract use-case surface the handler needs
type ContractService interface {
	List(ctx context.Context, requester model.Requester, filter *model.ContractStatus) ([]model.ContractView, error)
	Get(ctx context.Context, requester model.Requester, id string) (*model.ContractView, error)
	Create(ctx context.Context, requester model.Requester, req *model.CreateContractRequest) (*model.ContractView, error)
	Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateContractRequest) (*model.ContractView, error)
	Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

// ContractHandler handles contract HTTP requests
type ContractHandler struct {
	contractService ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func contractLinks(id string) map[string]string {
	return map[string]string{"self": "/v1/contracts/" + id}
}

// List handles GET /v1/contracts - contracts visible to the caller. Staff
// and admins may narrow it with ?status=active|past|future; the parameter
// is ignored for everyone else.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetRequester(r.Context())

	var filter *model.ContractStatus
	if raw := r.URL.Query().Get("status"); raw != "" && model.IsPrivileged(requester) {
		status, err := model.ParseContractStatus(raw)
		if err != nil {
			WriteError(w, model.NewValidationError([]model.FieldError{{
				Field:   "status",
				Message: service.ErrInvalidStatusFilter.Error(),
			}}))
			return
		}
		filter = &status
	}

	contracts, err := h.contractService.List(r.Context(), requester, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, contracts, nil)
}

// Get handles GET /v1/contracts/{contractId}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("contractId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("contract ID required"))
		return
	}

	contract, err := h.contractService.Get(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, contract, contract.Version, contractLinks(contract.ID))
}

// Create handles POST /v1/contracts
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateContractRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	contract, err := h.contractService.Create(r.Context(), middleware.GetRequester(r.Context()), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusCreated, contract, contract.Version, contractLinks(contract.ID))
}

// Update handles PATCH /v1/contracts/{contractId}
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("contractId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("contract ID required"))
		return
	}

	var req model.UpdateContractRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	contract, err := h.contractService.Update(r.Context(), middleware.GetRequester(r.Context()), id, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, contract, contract.Version, contractLinks(contract.ID))
}

// Delete handles DELETE /v1/contracts/{contractId}
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("contractId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("contract ID required"))
		return
	}

	version, err := ifMatchVersion(r)
	if err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return
	}

	if err := h.contractService.Delete(r.Context(), middleware.GetRequester(r.Context()), id, version); err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteNoContent(w)
}
