package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/pkg/jwt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12
)

// AccountRepository defines the interface for account storage
type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, a *model.Account, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

// AuthService handles login and requester resolution
type AuthService struct {
	accountRepo AccountRepository
	playerRepo  PlayerRepository
	jwtService  *jwt.Service
	logger      *slog.Logger
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	AccountRepo AccountRepository
	PlayerRepo  PlayerRepository
	JWTService  *jwt.Service
	Logger      *slog.Logger // Optional
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accountRepo: cfg.AccountRepo,
		playerRepo:  cfg.PlayerRepo,
		jwtService:  cfg.JWTService,
		logger:      logger,
	}
}

// Login verifies an email and password and issues an access token
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil || account.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(req.Password, account.PasswordHash) {
		s.logger.Warn("login failed", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Sign(jwt.Claims{
		AccountID: account.ID,
		Email:     account.Email,
		Name:      account.FullName,
		Roles:     account.RoleStrings(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", slog.String("account_id", account.ID))
	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.GetExpiration().Seconds()),
		Account:     account,
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *AuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}

// ResolveRequester turns token claims into a requester. Nil claims are
// anonymous. The linked player is looked up only for the player tier.
func (s *AuthService) ResolveRequester(ctx context.Context, claims *jwt.Claims) (model.Requester, error) {
	if claims == nil || claims.AccountID == "" {
		return model.AnonymousRequester{}, nil
	}

	roles := model.ParseRoles(claims.Roles)
	requester := model.ResolveRequester(claims.AccountID, roles, "")
	if _, ok := requester.(model.PlayerRequester); !ok {
		return requester, nil
	}

	player, err := s.playerRepo.GetByAccountID(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return requester, nil
	}
	return model.ResolveRequester(claims.AccountID, roles, player.ID), nil
}

// Me describes the authenticated account and how the API sees it
func (s *AuthService) Me(ctx context.Context, claims *jwt.Claims) (*model.MeResponse, error) {
	account, err := s.sessionAccount(ctx, claims)
	if err != nil {
		return nil, err
	}

	resp := &model.MeResponse{Account: account}
	player, err := s.playerRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	var playerID string
	if player != nil {
		playerID = player.ID
		resp.PlayerID = &playerID
	}
	resp.Kind = model.ResolveRequester(account.ID, account.Roles, playerID).Kind()
	return resp, nil
}

// UpdateProfile lets the authenticated account change its display name.
// Roles and email are admin concerns.
func (s *AuthService) UpdateProfile(ctx context.Context, claims *jwt.Claims, req *model.UpdateProfileRequest) (*model.Account, error) {
	if err := newValidationError(req.Validate()); err != nil {
		return nil, err
	}

	account, err := s.sessionAccount(ctx, claims)
	if err != nil {
		return nil, err
	}
	if account.Version != req.Version {
		return nil, ErrConcurrencyConflict
	}

	account.FullName = strings.TrimSpace(req.FullName)
	if err := s.accountRepo.Update(ctx, account, req.Version); err != nil {
		return nil, mapWriteError(err, ErrSessionAccountGone)
	}

	s.logger.Info("profile updated", slog.String("account_id", account.ID))
	return account, nil
}

func (s *AuthService) sessionAccount(ctx context.Context, claims *jwt.Claims) (*model.Account, error) {
	if claims == nil || claims.AccountID == "" {
		return nil, ErrSessionAccountGone
	}
	account, err := s.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrSessionAccountGone
	}
	return account, nil
}

// HashPassword hashes a password with the service's bcrypt cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
