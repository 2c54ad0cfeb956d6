package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// ContractRepository defines the interface for contract storage
type ContractRepository interface {
	List(ctx context.Context) ([]*model.Contract, error)
	GetByID(ctx context.Context, id string) (*model.Contract, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*model.Contract, error)
	ListByTeam(ctx context.Context, teamID string) ([]*model.Contract, error)
	CountByPlayer(ctx context.Context, playerID string) (int, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
	Create(ctx context.Context, c *model.Contract) error
	Update(ctx context.Context, c *model.Contract, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

// ContractService handles contract business logic
type ContractService struct {
	contractRepo ContractRepository
	playerRepo   PlayerRepository
	teamRepo     TeamRepository
	clock        Clock
	logger       *slog.Logger
}

// ContractServiceConfig holds configuration for the contract service
type ContractServiceConfig struct {
	ContractRepo ContractRepository
	PlayerRepo   PlayerRepository
	TeamRepo     TeamRepository
	Clock        Clock        // Optional, defaults to time.Now
	Logger       *slog.Logger // Optional
}

// NewContractService creates a new contract service
func NewContractService(cfg ContractServiceConfig) *ContractService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractService{
		contractRepo: cfg.ContractRepo,
		playerRepo:   cfg.PlayerRepo,
		teamRepo:     cfg.TeamRepo,
		clock:        clockOrNow(cfg.Clock),
		logger:       logger,
	}
}

// List returns the contracts visible to the requester, joined with their
// player and team. filter is honored for staff and admin only.
func (s *ContractService) List(ctx context.Context, requester model.Requester, filter *model.ContractStatus) ([]model.ContractView, error) {
	var (
		contracts []*model.Contract
		players   []*model.Player
		teams     []*model.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if pr, ok := requester.(model.PlayerRequester); ok {
			if pr.PlayerID == "" {
				return nil
			}
			contracts, err = s.contractRepo.ListByPlayer(gctx, pr.PlayerID)
			return err
		}
		contracts, err = s.contractRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	today := model.DateOf(s.clock())
	visible := VisibleContracts(requester, filter, contracts, today)
	sortContracts(visible)
	return newDirectory(players, teams).views(visible, today), nil
}

// Get returns a single contract. A contract that exists but is not visible
// to the requester yields ErrContractForbidden.
func (s *ContractService) Get(ctx context.Context, requester model.Requester, id string) (*model.ContractView, error) {
	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContractNotFound
	}

	today := model.DateOf(s.clock())
	if err := AuthorizeContract(requester, c, today); err != nil {
		return nil, err
	}
	return s.view(ctx, c, today)
}

// Create creates a new contract
func (s *ContractService) Create(ctx context.Context, requester model.Requester, req *model.CreateContractRequest) (*model.ContractView, error) {
	if !model.CanWrite(requester) {
		return nil, ErrStaffRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	c := req.ToContract()
	if err := s.check(ctx, c); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Create(ctx, c); err != nil {
		return nil, missingReference(err)
	}

	s.logger.Info("contract created",
		slog.String("contract_id", c.ID),
		slog.String("player_id", c.PlayerID),
		slog.String("team_id", c.TeamID),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return s.view(ctx, c, model.DateOf(s.clock()))
}

// Update applies a partial update. req.Version must match the stored version.
func (s *ContractService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateContractRequest) (*model.ContractView, error) {
	if !model.CanWrite(requester) {
		return nil, ErrStaffRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContractNotFound
	}
	if c.Version != req.Version {
		return nil, ErrConcurrencyConflict
	}

	req.ApplyTo(c)
	if err := s.check(ctx, c); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Update(ctx, c, req.Version); err != nil {
		return nil, mapWriteError(missingReference(err), ErrContractNotFound)
	}

	s.logger.Info("contract updated",
		slog.String("contract_id", c.ID),
		slog.Int("version", c.Version),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return s.view(ctx, c, model.DateOf(s.clock()))
}

// Delete physically removes a contract. expectedVersion 0 skips the
// version check.
func (s *ContractService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	if !model.CanDelete(requester) {
		return ErrAdminRequired
	}

	if err := s.contractRepo.Delete(ctx, id, expectedVersion); err != nil {
		return mapWriteError(err, ErrContractNotFound)
	}

	s.logger.Info("contract deleted",
		slog.String("contract_id", id),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return nil
}

// check validates the contract and that its references exist
func (s *ContractService) check(ctx context.Context, c *model.Contract) error {
	if err := newValidationError(c.Validate()); err != nil {
		return err
	}

	player, err := s.playerRepo.GetByID(ctx, c.PlayerID)
	if err != nil {
		return err
	}
	if player == nil {
		return fieldError("player_id", ErrPlayerReferenceMissing)
	}

	team, err := s.teamRepo.GetByID(ctx, c.TeamID)
	if err != nil {
		return err
	}
	if team == nil {
		return fieldError("team_id", ErrTeamReferenceMissing)
	}
	return nil
}

// view joins a single contract with its player and team
func (s *ContractService) view(ctx context.Context, c *model.Contract, today time.Time) (*model.ContractView, error) {
	var (
		player *model.Player
		team   *model.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		player, err = s.playerRepo.GetByID(gctx, c.PlayerID)
		return err
	})
	g.Go(func() error {
		var err error
		team, err = s.teamRepo.GetByID(gctx, c.TeamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var players []*model.Player
	var teams []*model.Team
	if player != nil {
		players = append(players, player)
	}
	if team != nil {
		teams = append(teams, team)
	}
	v := newDirectory(players, teams).view(c, today)
	return &v, nil
}

// mapWriteError translates store errors from a versioned write
func mapWriteError(err, notFound error) error {
	switch {
	case errors.Is(err, database.ErrVersionMismatch):
		return ErrConcurrencyConflict
	case errors.Is(err, database.ErrNotFound):
		return notFound
	default:
		return err
	}
}
