package handler

import (
	"context"
	"net/http"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
)

// AccountService is the account administration surface the handler needs
type AccountService interface {
	List(ctx context.Context, requester model.Requester) ([]*model.Account, error)
	Get(ctx context.Context, requester model.Requester, id string) (*model.AccountDetail, error)
	Create(ctx context.Context, requester model.Requester, req *model.CreateAccountRequest) (*model.Account, error)
	Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateAccountRequest) (*model.Account, error)
	Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

// AccountHandler handles account administration requests
type AccountHandler struct {
	accountService AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func accountLinks(id string) map[string]string {
	return map[string]string{"self": "/v1/accounts/" + id}
}

// List handles GET /v1/accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context(), middleware.GetRequester(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, accounts, nil)
}

// Get handles GET /v1/accounts/{accountId}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("account ID required"))
		return
	}

	detail, err := h.accountService.Get(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, detail, detail.Version, accountLinks(detail.ID))
}

// Create handles POST /v1/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	account, err := h.accountService.Create(r.Context(), middleware.GetRequester(r.Context()), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusCreated, account, account.Version, accountLinks(account.ID))
}

// Update handles PATCH /v1/accounts/{accountId}
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("account ID required"))
		return
	}

	var req model.UpdateAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	account, err := h.accountService.Update(r.Context(), middleware.GetRequester(r.Context()), id, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, account, account.Version, accountLinks(account.ID))
}

// Delete handles DELETE /v1/accounts/{accountId}. Accounts a player is
// linked to are refused with a referential conflict.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("account ID required"))
		return
	}

	version, err := ifMatchVersion(r)
	if err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return
	}

	if err := h.accountService.Delete(r.Context(), middleware.GetRequester(r.Context()), id, version); err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteNoContent(w)
}
