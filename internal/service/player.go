package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// PlayerRepository defines the interface for player storage
type PlayerRepository interface {
	List(ctx context.Context) ([]*model.Player, error)
	GetByID(ctx context.Context, id string) (*model.Player, error)
	GetByAccountID(ctx context.Context, accountID string) (*model.Player, error)
	Create(ctx context.Context, p *model.Player) error
	Update(ctx context.Context, p *model.Player, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
	Count(ctx context.Context) (int, error)
}

// PlayerService handles player business logic
type PlayerService struct {
	playerRepo   PlayerRepository
	teamRepo     TeamRepository
	contractRepo ContractRepository
	accountRepo  AccountRepository
	clock        Clock
	logger       *slog.Logger
}

// PlayerServiceConfig holds configuration for the player service
type PlayerServiceConfig struct {
	PlayerRepo   PlayerRepository
	TeamRepo     TeamRepository
	ContractRepo ContractRepository
	AccountRepo  AccountRepository // Optional, account links are not checked when nil
	Clock        Clock             // Optional, defaults to time.Now
	Logger       *slog.Logger      // Optional
}

// NewPlayerService creates a new player service
func NewPlayerService(cfg PlayerServiceConfig) *PlayerService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerService{
		playerRepo:   cfg.PlayerRepo,
		teamRepo:     cfg.TeamRepo,
		contractRepo: cfg.ContractRepo,
		accountRepo:  cfg.AccountRepo,
		clock:        clockOrNow(cfg.Clock),
		logger:       logger,
	}
}

// List returns all players ordered by name
func (s *PlayerService) List(ctx context.Context) ([]*model.Player, error) {
	return s.playerRepo.List(ctx)
}

// Get returns a player with the contracts the requester may see
func (s *PlayerService) Get(ctx context.Context, requester model.Requester, id string) (*model.PlayerDetail, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	var (
		contracts []*model.Contract
		teams     []*model.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contracts, err = s.contractRepo.ListByPlayer(gctx, player.ID)
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
	visible := VisibleContracts(requester, nil, contracts, today)
	sortContracts(visible)

	return &model.PlayerDetail{
		Player:    *player,
		Contracts: newDirectory([]*model.Player{player}, teams).views(visible, today),
	}, nil
}

// Create creates a new player
func (s *PlayerService) Create(ctx context.Context, requester model.Requester, req *model.CreatePlayerRequest) (*model.Player, error) {
	if !model.CanWrite(requester) {
		return nil, ErrStaffRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	player := req.ToPlayer()
	if err := newValidationError(player.Validate()); err != nil {
		return nil, err
	}
	if err := s.checkAccountLink(ctx, player); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAccountAlreadyLinked
		}
		return nil, missingReference(err)
	}

	s.logger.Info("player created",
		slog.String("player_id", player.ID),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return player, nil
}

// Update applies a partial update. req.Version must match the stored version.
func (s *PlayerService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdatePlayerRequest) (*model.Player, error) {
	if !model.CanWrite(requester) {
		return nil, ErrStaffRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if player.Version != req.Version {
		return nil, ErrConcurrencyConflict
	}

	req.ApplyTo(player)
	if err := newValidationError(player.Validate()); err != nil {
		return nil, err
	}
	if err := s.checkAccountLink(ctx, player); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Update(ctx, player, req.Version); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAccountAlreadyLinked
		}
		return nil, mapWriteError(missingReference(err), ErrPlayerNotFound)
	}

	s.logger.Info("player updated",
		slog.String("player_id", player.ID),
		slog.Int("version", player.Version),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return player, nil
}

// Delete removes a player no contract references. expectedVersion 0 skips
// the version check.
func (s *PlayerService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	if !model.CanDelete(requester) {
		return ErrAdminRequired
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if player == nil {
		return ErrPlayerNotFound
	}

	count := func() (int, error) { return s.contractRepo.CountByPlayer(ctx, player.ID) }
	if err := guardDelete(ctx, "player", count, func() error {
		return s.playerRepo.Delete(ctx, player.ID, expectedVersion)
	}); err != nil {
		if errors.Is(err, ErrReferentialConflict) {
			s.logger.Warn("player delete refused",
				slog.String("player_id", player.ID),
				slog.String("reason", err.Error()),
			)
		}
		return mapWriteError(err, ErrPlayerNotFound)
	}

	s.logger.Info("player deleted",
		slog.String("player_id", player.ID),
		slog.String("account_id", model.RequesterAccountID(requester)),
	)
	return nil
}

// checkAccountLink enforces that a linked account exists and belongs to no
// other player
func (s *PlayerService) checkAccountLink(ctx context.Context, player *model.Player) error {
	if player.AccountID == nil {
		return nil
	}
	accountID := *player.AccountID

	if s.accountRepo != nil {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return fieldError("account_id", ErrAccountReferenceMissing)
		}
	}

	linked, err := s.playerRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if linked != nil && linked.ID != player.ID {
		return ErrAccountAlreadyLinked
	}
	return nil
}

// guardDelete refuses the delete while count reports contracts. When the
// store itself refuses (a reference appeared after the count) it recounts so
// the conflict still names how many contracts block it.
func guardDelete(ctx context.Context, resource string, count func() (int, error), del func() error) error {
	return guardDeleteBy(ctx, resource, "contracts", count, del)
}

func guardDeleteBy(ctx context.Context, resource, relation string, count func() (int, error), del func() error) error {
	n, err := count()
	if err != nil {
		return err
	}
	if n > 0 {
		return referentialConflict(resource, relation, n)
	}

	err = del()
	if !errors.Is(err, database.ErrReferenced) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	n, cerr := count()
	if cerr != nil {
		return cerr
	}
	return referentialConflict(resource, relation, n)
}

func referentialConflict(resource, relation string, n int) error {
	var blockers []model.Blocker
	if n > 0 {
		blockers = []model.Blocker{{Relation: relation, Count: n}}
	}
	return &ReferentialConflictError{Resource: resource, Blockers: blockers}
}
