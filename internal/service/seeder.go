package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/roster/internal/model"
)

// Demo credentials for seeded accounts
const (
	DemoPlayerPassword = "Jogador123!"
	DemoStaffEmail     = "staff@roster.local"
)

// SeederService fills an empty store with demo data
type SeederService struct {
	accountRepo  AccountRepository
	playerRepo   PlayerRepository
	teamRepo     TeamRepository
	contractRepo ContractRepository
	clock        Clock
	rng          *mrand.Rand
	hashCost     int
	logger       *slog.Logger
}

// SeederServiceConfig holds configuration for the seeder
type SeederServiceConfig struct {
	AccountRepo  AccountRepository
	PlayerRepo   PlayerRepository
	TeamRepo     TeamRepository
	ContractRepo ContractRepository
	Clock        Clock        // Optional, defaults to time.Now
	RandomSeed   int64        // Optional, 0 picks a random seed
	HashCost     int          // Optional, defaults to the login bcrypt cost
	Logger       *slog.Logger // Optional
}

// NewSeederService creates a new seeder service
func NewSeederService(cfg SeederServiceConfig) *SeederService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := uint64(cfg.RandomSeed)
	if seed == 0 {
		seed = mrand.Uint64()
	}
	cost := cfg.HashCost
	if cost == 0 {
		cost = bcryptCost
	}
	return &SeederService{
		accountRepo:  cfg.AccountRepo,
		playerRepo:   cfg.PlayerRepo,
		teamRepo:     cfg.TeamRepo,
		contractRepo: cfg.ContractRepo,
		clock:        clockOrNow(cfg.Clock),
		rng:          mrand.New(mrand.NewPCG(seed, seed>>1|1)),
		hashCost:     cost,
		logger:       logger,
	}
}

// SeedRequest names the privileged accounts to create. An empty
// AdminPassword is replaced with a generated one, which is logged.
type SeedRequest struct {
	AdminEmail    string
	AdminPassword string
}

// SeedResult contains the results of a seeding operation
type SeedResult struct {
	Skipped   bool  `json:"skipped"`
	Accounts  int   `json:"accounts"`
	Teams     int   `json:"teams"`
	Players   int   `json:"players"`
	Contracts int   `json:"contracts"`
	Duration  int64 `json:"duration_ms"`
}

type seedTeam struct {
	name     string
	locality string
	stadium  string
	founded  time.Time
}

type seedPlayer struct {
	name  string
	email string
	born  time.Time
}

// Sample data
var (
	seedTeams = []seedTeam{
		{"FC Porto", "Porto", "Estádio do Dragão", seedDate(1893, 9, 28)},
		{"Sporting CP", "Lisboa", "Estádio José Alvalade", seedDate(1906, 7, 1)},
		{"SL Benfica", "Lisboa", "Estádio da Luz", seedDate(1904, 2, 28)},
		{"SC Braga", "Braga", "Estádio Municipal de Braga", seedDate(1921, 1, 19)},
		{"Vitória SC", "Guimarães", "Estádio D. Afonso Henriques", seedDate(1922, 9, 22)},
		{"FC Paços de Ferreira", "Paços de Ferreira", "Estádio Capital do Móvel", seedDate(1950, 4, 5)},
		{"Rio Ave FC", "Vila do Conde", "Estádio dos Arcos", seedDate(1939, 5, 10)},
		{"FC Famalicão", "Vila Nova de Famalicão", "Estádio Municipal 22 de Junho", seedDate(1931, 8, 21)},
	}
	seedPlayers = []seedPlayer{
		{"Cristiano Ronaldo", "cristiano@example.com", seedDate(1985, 2, 5)},
		{"Lionel Messi", "messi@example.com", seedDate(1987, 6, 24)},
		{"Neymar Jr", "neymar@example.com", seedDate(1992, 2, 5)},
		{"Kylian Mbappé", "mbappe@example.com", seedDate(1998, 12, 20)},
		{"Erling Haaland", "haaland@example.com", seedDate(2000, 7, 21)},
		{"Kevin De Bruyne", "debruyne@example.com", seedDate(1991, 6, 28)},
		{"Mohamed Salah", "salah@example.com", seedDate(1992, 6, 15)},
		{"Virgil van Dijk", "vandijk@example.com", seedDate(1991, 7, 8)},
		{"Bruno Fernandes", "bruno@example.com", seedDate(1994, 9, 8)},
		{"Bernardo Silva", "bernardo@example.com", seedDate(1994, 8, 10)},
		{"Rúben Dias", "ruben@example.com", seedDate(1997, 5, 14)},
		{"João Félix", "joaofelix@example.com", seedDate(1999, 11, 10)},
		{"Rafael Leão", "leao@example.com", seedDate(1999, 6, 10)},
		{"Diogo Jota", "jota@example.com", seedDate(1996, 12, 4)},
		{"Gonçalo Ramos", "ramos@example.com", seedDate(2001, 6, 20)},
		{"Vitinha", "vitinha@example.com", seedDate(2000, 2, 13)},
		{"Pedro Gonçalves", "pedro@example.com", seedDate(1998, 6, 28)},
		{"Nuno Mendes", "nunomendes@example.com", seedDate(2002, 6, 19)},
		{"António Silva", "antonio@example.com", seedDate(2003, 10, 30)},
		{"Diogo Costa", "diogocosta@example.com", seedDate(1999, 9, 19)},
	}
	seedPositions = []string{"Avançado", "Médio", "Defesa", "Guarda-Redes"}
)

const seedNationality = "Portuguesa"

// Seed creates demo accounts, teams, players and contracts. It does nothing
// when any team already exists.
func (s *SeederService) Seed(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	start := time.Now()
	result := &SeedResult{}

	existing, err := s.teamRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		result.Skipped = true
		s.logger.Info("seed skipped, store already has data", slog.Int("teams", existing))
		return result, nil
	}

	today := model.DateOf(s.clock())

	adminPassword := req.AdminPassword
	if adminPassword == "" {
		adminPassword, err = generatePassword()
		if err != nil {
			return nil, err
		}
		s.logger.Warn("generated demo admin password",
			slog.String("email", req.AdminEmail),
			slog.String("password", adminPassword),
		)
	}
	if _, err := s.createAccount(ctx, req.AdminEmail, "Administrador", adminPassword, today, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.createAccount(ctx, DemoStaffEmail, "Funcionário", adminPassword, today, model.RoleStaff); err != nil {
		return nil, err
	}
	result.Accounts += 2

	teams := make([]*model.Team, 0, len(seedTeams))
	for _, st := range seedTeams {
		team := &model.Team{
			Name:      st.name,
			Locality:  &st.locality,
			Stadium:   &st.stadium,
			FoundedOn: st.founded,
		}
		if err := s.teamRepo.Create(ctx, team); err != nil {
			return nil, fmt.Errorf("seed team %s: %w", st.name, err)
		}
		teams = append(teams, team)
	}
	result.Teams = len(teams)

	// Demo players share one password, so it is hashed once
	playerHash, err := bcrypt.GenerateFromPassword([]byte(DemoPlayerPassword), s.hashCost)
	if err != nil {
		return nil, err
	}

	for _, sp := range seedPlayers {
		registered := today.AddDate(0, 0, -s.between(30, 365))
		account := &model.Account{
			Email:        sp.email,
			FullName:     sp.name,
			PasswordHash: string(playerHash),
			Roles:        []model.Role{model.RolePlayer},
			CreatedOn:    registered,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("seed account %s: %w", sp.email, err)
		}
		result.Accounts++

		nationality := seedNationality
		position := seedPositions[s.rng.IntN(len(seedPositions))]
		player := &model.Player{
			Name:        sp.name,
			Email:       sp.email,
			BirthDate:   sp.born,
			Nationality: &nationality,
			Position:    &position,
			AccountID:   &account.ID,
		}
		if err := s.playerRepo.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("seed player %s: %w", sp.name, err)
		}
		result.Players++

		for _, c := range s.contractsFor(player, teams, today) {
			if err := s.contractRepo.Create(ctx, c); err != nil {
				return nil, fmt.Errorf("seed contract for %s: %w", sp.name, err)
			}
			result.Contracts++
		}
	}

	result.Duration = time.Since(start).Milliseconds()
	s.logger.Info("demo data seeded",
		slog.Int("accounts", result.Accounts),
		slog.Int("teams", result.Teams),
		slog.Int("players", result.Players),
		slog.Int("contracts", result.Contracts),
		slog.Int64("duration_ms", result.Duration),
	)
	return result, nil
}

// contractsFor draws one current contract, a past one half of the time and
// a future one 30% of the time
func (s *SeederService) contractsFor(player *model.Player, teams []*model.Team, today time.Time) []*model.Contract {
	var out []*model.Contract

	start := model.AddMonths(today, -s.between(1, 12))
	out = append(out, s.contract(player, teams, start,
		model.AddMonths(start, 12*s.between(1, 3)),
		s.between(5000, 50000), s.between(100000, 5000000),
		start.AddDate(0, 0, -s.between(1, 30)),
	))

	if s.rng.IntN(2) == 0 {
		end := model.AddMonths(today, -s.between(1, 24))
		start := model.AddMonths(end, -12*s.between(1, 3))
		out = append(out, s.contract(player, teams, start, end,
			s.between(3000, 40000), s.between(50000, 3000000),
			start.AddDate(0, 0, -s.between(1, 30)),
		))
	}

	if s.rng.IntN(10) < 3 {
		start := model.AddMonths(today, s.between(1, 12))
		out = append(out, s.contract(player, teams, start,
			model.AddMonths(start, 12*s.between(1, 3)),
			s.between(6000, 60000), s.between(150000, 6000000),
			today.AddDate(0, 0, -s.between(1, 90)),
		))
	}

	return out
}

func (s *SeederService) contract(player *model.Player, teams []*model.Team, start, end time.Time, salary, release int, created time.Time) *model.Contract {
	amount := float64(salary)
	clauses := fmt.Sprintf("Cláusula de rescisão: %d€", release)
	return &model.Contract{
		PlayerID:  player.ID,
		TeamID:    teams[s.rng.IntN(len(teams))].ID,
		StartDate: start,
		EndDate:   end,
		Salary:    &amount,
		Clauses:   &clauses,
		CreatedOn: created,
	}
}

func (s *SeederService) createAccount(ctx context.Context, email, name, password string, now time.Time, role model.Role) (*model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}
	account := &model.Account{
		Email:        email,
		FullName:     name,
		PasswordHash: string(hash),
		Roles:        []model.Role{role},
		CreatedOn:    now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("seed account %s: %w", email, err)
	}
	return account, nil
}

// between returns a value in [lo, hi)
func (s *SeederService) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo)
}

func generatePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func seedDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
