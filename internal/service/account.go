package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// AccountService lets admins manage staff and player accounts. Admin
// accounts are provisioned by the seeder and are read-only here.
type AccountService struct {
	accountRepo AccountRepository
	playerRepo  PlayerRepository
	logger      *slog.Logger
}

// AccountServiceConfig holds configuration for the account service
type AccountServiceConfig struct {
	AccountRepo AccountRepository
	PlayerRepo  PlayerRepository
	Logger      *slog.Logger // Optional
}

// NewAccountService creates a new account service
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		accountRepo: cfg.AccountRepo,
		playerRepo:  cfg.PlayerRepo,
		logger:      logger,
	}
}

// List returns all accounts ordered by email
func (s *AccountService) List(ctx context.Context, requester model.Requester) ([]*model.Account, error) {
	if !model.CanManageAccounts(requester) {
		return nil, ErrAdminRequired
	}
	return s.accountRepo.List(ctx)
}

// Get returns an account and the player linked to it
func (s *AccountService) Get(ctx context.Context, requester model.Requester, id string) (*model.AccountDetail, error) {
	if !model.CanManageAccounts(requester) {
		return nil, ErrAdminRequired
	}

	account, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.AccountDetail{Account: account}
	player, err := s.playerRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if player != nil {
		detail.PlayerID = &player.ID
	}
	return detail, nil
}

// Create stores a staff or player account with a bcrypt hashed password
func (s *AccountService) Create(ctx context.Context, requester model.Requester, req *model.CreateAccountRequest) (*model.Account, error) {
	if !model.CanManageAccounts(requester) {
		return nil, ErrAdminRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	account := req.ToAccount("")
	existing, err := s.accountRepo.GetByEmail(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	account.PasswordHash, err = HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("account created",
		slog.String("account_id", account.ID),
		slog.Any("roles", account.RoleStrings()),
		slog.String("by", model.RequesterAccountID(requester)),
	)
	return account, nil
}

// Update changes a non-admin account's name or roles if req.Version is
// still current
func (s *AccountService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateAccountRequest) (*model.Account, error) {
	if !model.CanManageAccounts(requester) {
		return nil, ErrAdminRequired
	}
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	account, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.HasRole(model.RoleAdmin) {
		return nil, ErrAccountProtected
	}
	if account.Version != req.Version {
		return nil, ErrConcurrencyConflict
	}

	req.ApplyTo(account)
	if err := s.accountRepo.Update(ctx, account, req.Version); err != nil {
		return nil, mapWriteError(err, ErrAccountNotFound)
	}

	s.logger.Info("account updated",
		slog.String("account_id", account.ID),
		slog.Any("roles", account.RoleStrings()),
		slog.String("by", model.RequesterAccountID(requester)),
	)
	return account, nil
}

// Delete removes a non-admin account no player is linked to.
// expectedVersion 0 skips the version check.
func (s *AccountService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	if !model.CanManageAccounts(requester) {
		return ErrAdminRequired
	}

	account, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if account.HasRole(model.RoleAdmin) {
		return ErrAccountProtected
	}

	count := func() (int, error) {
		player, err := s.playerRepo.GetByAccountID(ctx, account.ID)
		if err != nil || player == nil {
			return 0, err
		}
		return 1, nil
	}
	if err := guardDeleteBy(ctx, "account", "players", count, func() error {
		return s.accountRepo.Delete(ctx, account.ID, expectedVersion)
	}); err != nil {
		if errors.Is(err, ErrReferentialConflict) {
			s.logger.Warn("account delete refused",
				slog.String("account_id", account.ID),
				slog.String("reason", err.Error()),
			)
		}
		return mapWriteError(err, ErrAccountNotFound)
	}

	s.logger.Info("account deleted",
		slog.String("account_id", account.ID),
		slog.String("by", model.RequesterAccountID(requester)),
	)
	return nil
}

func (s *AccountService) find(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
