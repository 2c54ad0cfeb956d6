package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/roster/internal/model"
)

// TeamRepository defines the interface for team storage
type TeamRepository interface {
	List(ctx context.Context) ([]*model.Team, error)
	GetByID(ctx context.Context, id string) (*model.Team, error)
	Create(ctx context.Context, t *model.Team) error
	Update(ctx context.Context, t *model.Team, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
	Count(ctx context.Context) (int, error)
}

// TeamService handles team business logic
type TeamService struct {
	teamRepo     TeamRepository
	playerRepo   PlayerRepository
	contractRepo ContractRepository
	clock        Clock
	logger       *slog.Logger
}

// TeamServiceConfig holds configuration for the team service
type TeamServiceConfig struct {
	TeamRepo     TeamRepository
	PlayerRepo   PlayerRepository
	ContractRepo ContractRepository
	Clock        Clock        // Optional, defaults to time.Now
	Logger       *slog.Logger // Optional
}

// NewTeamService creates a new team service
func NewTeamService(cfg TeamServiceConfig) *TeamService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{
		teamRepo:     cfg.TeamRepo,
		playerRepo:   cfg.PlayerRepo,
		contractRepo: cfg.ContractRepo,
		clock:        clockOrNow(cfg.Clock),
		logger:       logger,
	}
}

// List returns all teams ordered by name
func (s *TeamService) List(ctx context.Context) ([]*model.Team, error) {
	return s.teamRepo.List(ctx)
}

// Get returns a team with the contracts the requester may see
func (s *TeamService) Get(ctx context.Context, requester model.Requester, id string) (*model.TeamDetail, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	var (
		contracts []*model.Contract
		players   []*model.Player
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contracts, err = s.contractRepo.ListByTeam(gctx, team.ID)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	today := model.DateOf(s.clock())
	visible := VisibleContracts(requester, nil, contracts, today)
	sortContracts(visible)

	return &model.TeamDetail{
		Team:      *team,
		Contracts: newDirectory(players, []*model.Team{team}).views(visible, today),
	}, nil
}

// Create creates a new team
func (s *TeamService) Create(ctx context.Context, requester model.Requester, req *model.CreateTeamRequest) (*model.Team, error) {
	if !model.CanWrite(requester) {
		return nil, ErrStaffRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	team := req.ToTeam()
	if err := newValidationError(team.Validate()); err != nil {
		return nil, err
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		slog.String("team_id", team.ID),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return team, nil
}

// Update applies a partial update. req.Version must match the stored version.
func (s *TeamService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateTeamRequest) (*model.Team, error) {
	if !model.CanWrite(requester) {
		return nil, ErrStaffRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	if team.Version != req.Version {
		return nil, ErrConcurrencyConflict
	}

	req.ApplyTo(team)
	if err := newValidationError(team.Validate()); err != nil {
		return nil, err
	}

	if err := s.teamRepo.Update(ctx, team, req.Version); err != nil {
		return nil, mapWriteError(err, ErrTeamNotFound)
	}

	s.logger.Info("team updated",
		slog.String("team_id", team.ID),
		slog.Int("version", team.Version),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return team, nil
}

// Delete removes a team no contract references. expectedVersion 0 skips
// the version check.
func (s *TeamService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	if !model.CanDelete(requester) {
		return ErrAdminRequired
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrTeamNotFound
	}

	count := func() (int, error) { return s.contractRepo.CountByTeam(ctx, team.ID) }
	if err := guardDelete(ctx, "team", count, func() error {
		return s.teamRepo.Delete(ctx, team.ID, expectedVersion)
	}); err != nil {
		if errors.Is(err, ErrReferentialConflict) {
			s.logger.Warn("team delete refused",
				slog.String("team_id", team.ID),
				slog.String("reason", err.Error()),
			)
		}
		return mapWriteError(err, ErrTeamNotFound)
	}

	s.logger.Info("team deleted",
		slog.String("team_id", team.ID),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return nil
}
