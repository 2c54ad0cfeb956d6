package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/roster/internal/model"
)

// Store is the write side of the repositories the factory populates. Both
// the SurrealDB repositories and the SQL store satisfy it.
type Store struct {
	Accounts  interface{ Create(context.Context, *model.Account) error }
	Players   interface{ Create(context.Context, *model.Player) error }
	Teams     interface{ Create(context.Context, *model.Team) error }
	Contracts interface{ Create(context.Context, *model.Contract) error }
}

// Factory creates test entities in a store
type Factory struct {
	store Store
}

// New creates a new fixture factory
func New(store Store) *Factory {
	return &Factory{store: store}
}

// DefaultPassword is the password of every fixture account
const DefaultPassword = "testpass123"

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// Account Fixtures
// ============================================================================

// CreateAccount creates an account holding the given roles
func (f *Factory) CreateAccount(t *testing.T, roles ...model.Role) *model.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: hashing password: %v", err)
	}

	account := &model.Account{
		Email:        fmt.Sprintf("account_%s@test.local", randomID()),
		FullName:     "Test Account",
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := f.store.Accounts.Create(ctx(t), account); err != nil {
		t.Fatalf("fixtures: creating account: %v", err)
	}
	account.PasswordHash = string(hash)
	return account
}

// ============================================================================
// Player / Team Fixtures
// ============================================================================

// PlayerOpts customizes player creation
type PlayerOpts struct {
	Name      string
	Position  *string
	AccountID *string
}

// CreatePlayer creates a player with optional customizations
func (f *Factory) CreatePlayer(t *testing.T, opts ...func(*PlayerOpts)) *model.Player {
	t.Helper()

	o := &PlayerOpts{Name: "Player " + randomID()[:6]}
	for _, fn := range opts {
		fn(o)
	}

	player := &model.Player{
		Name:      o.Name,
		Email:     fmt.Sprintf("player_%s@test.local", randomID()),
		BirthDate: time.Date(1998, time.May, 14, 0, 0, 0, 0, time.UTC),
		Position:  o.Position,
		AccountID: o.AccountID,
	}
	if err := f.store.Players.Create(ctx(t), player); err != nil {
		t.Fatalf("fixtures: creating player: %v", err)
	}
	return player
}

// LinkedTo links the player to an account
func LinkedTo(account *model.Account) func(*PlayerOpts) {
	return func(o *PlayerOpts) { o.AccountID = &account.ID }
}

// CreateTeam creates a team with the given name, or a random one
func (f *Factory) CreateTeam(t *testing.T, name ...string) *model.Team {
	t.Helper()

	team := &model.Team{
		Name:      "Team " + randomID()[:6],
		FoundedOn: time.Date(1920, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if len(name) > 0 {
		team.Name = name[0]
	}
	if err := f.store.Teams.Create(ctx(t), team); err != nil {
		t.Fatalf("fixtures: creating team: %v", err)
	}
	return team
}

// ============================================================================
// Contract Fixtures
// ============================================================================

// CreateContract creates a contract for [start, end]
func (f *Factory) CreateContract(t *testing.T, player *model.Player, team *model.Team, start, end time.Time, salary *float64) *model.Contract {
	t.Helper()

	contract := &model.Contract{
		PlayerID:  player.ID,
		TeamID:    team.ID,
		StartDate: start,
		EndDate:   end,
		Salary:    salary,
	}
	if err := f.store.Contracts.Create(ctx(t), contract); err != nil {
		t.Fatalf("fixtures: creating contract: %v", err)
	}
	return contract
}
