package handler

import (
	"context"
	"net/http"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
)

// PlayerService is the player use-case surface the handler needs
type PlayerService interface {
	List(ctx context.Context) ([]*model.Player, error)
	Get(ctx context.Context, requester model.Requester, id string) (*model.PlayerDetail, error)
	Create(ctx context.Context, requester model.Requester, req *model.CreatePlayerRequest) (*model.Player, error)
	Update(ctx context.Context, requester model.Requester, id string, req *model.UpdatePlayerRequest) (*model.Player, error)
	Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

// PlayerHandler handles player HTTP requests
type PlayerHandler struct {
	playerService PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

func playerLinks(id string) map[string]string {
	return map[string]string{"self": "/v1/players/" + id}
}

// List handles GET /v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, players, nil)
}

// Get handles GET /v1/players/{playerId} - the player with the contracts
// the caller may see
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("playerId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("player ID required"))
		return
	}

	detail, err := h.playerService.Get(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, detail, detail.Version, playerLinks(detail.ID))
}

// Create handles POST /v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePlayerRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	player, err := h.playerService.Create(r.Context(), middleware.GetRequester(r.Context()), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusCreated, player, player.Version, playerLinks(player.ID))
}

// Update handles PATCH /v1/players/{playerId}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("playerId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("player ID required"))
		return
	}

	var req model.UpdatePlayerRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	player, err := h.playerService.Update(r.Context(), middleware.GetRequester(r.Context()), id, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, player, player.Version, playerLinks(player.ID))
}

// Delete handles DELETE /v1/players/{playerId}. Players with contracts are
// refused with a referential conflict.
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("playerId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("player ID required"))
		return
	}

	version, err := ifMatchVersion(r)
	if err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return
	}

	if err := h.playerService.Delete(r.Context(), middleware.GetRequester(r.Context()), id, version); err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteNoContent(w)
}
