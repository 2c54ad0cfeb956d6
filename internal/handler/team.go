package handler

import (
	"context"
	"net/http"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
)

// TeamService is the team use-case surface the handler needs
type TeamService interface {
	List(ctx context.Context) ([]*model.Team, error)
	Get(ctx context.Context, requester model.Requester, id string) (*model.TeamDetail, error)
	Create(ctx context.Context, requester model.Requester, req *model.CreateTeamRequest) (*model.Team, error)
	Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateTeamRequest) (*model.Team, error)
	Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

// TeamHandler handles team HTTP requests
type TeamHandler struct {
	teamService TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func teamLinks(id string) map[string]string {
	return map[string]string{"self": "/v1/teams/" + id}
}

// List handles GET /v1/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, teams, nil)
}

// Get handles GET /v1/teams/{teamId} - the team with the contracts
// the caller may see
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("teamId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	detail, err := h.teamService.Get(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, detail, detail.Version, teamLinks(detail.ID))
}

// Create handles POST /v1/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	team, err := h.teamService.Create(r.Context(), middleware.GetRequester(r.Context()), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusCreated, team, team.Version, teamLinks(team.ID))
}

// Update handles PATCH /v1/teams/{teamId}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("teamId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	var req model.UpdateTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	team, err := h.teamService.Update(r.Context(), middleware.GetRequester(r.Context()), id, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, team, team.Version, teamLinks(team.ID))
}

// Delete handles DELETE /v1/teams/{teamId}. Teams with contracts are
// refused with a referential conflict.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("teamId")
	if id == "" {
		WriteError(w, model.NewBadRequestError("team ID required"))
		return
	}

	version, err := ifMatchVersion(r)
	if err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return
	}

	if err := h.teamService.Delete(r.Context(), middleware.GetRequester(r.Context()), id, version); err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteNoContent(w)
}
