package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/internal/repository"
	"github.com/forgo/roster/internal/testing/fixtures"
	"github.com/forgo/roster/internal/testing/testdb"
)

type repos struct {
	accounts  *repository.AccountRepository
	players   *repository.PlayerRepository
	teams     *repository.TeamRepository
	contracts *repository.ContractRepository
	factory   *fixtures.Factory
}

func newRepos(t *testing.T) (*testdb.TestDB, repos) {
	tdb := testdb.New(t)
	r := repos{
		accounts:  repository.NewAccountRepository(tdb.DB),
		players:   repository.NewPlayerRepository(tdb.DB),
		teams:     repository.NewTeamRepository(tdb.DB),
		contracts: repository.NewContractRepository(tdb.DB),
	}
	r.factory = fixtures.New(fixtures.Store{
		Accounts:  r.accounts,
		Players:   r.players,
		Teams:     r.teams,
		Contracts: r.contracts,
	})
	return tdb, r
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContractRepository_RoundTrip(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	player := r.factory.CreatePlayer(t)
	team := r.factory.CreateTeam(t, "Vitória SC")
	salary := 4200.0
	created := r.factory.CreateContract(t, player, team, day(2024, time.July, 1), day(2026, time.June, 30), &salary)

	assert.Equal(t, 1, created.Version)
	assert.False(t, created.CreatedOn.IsZero())

	got, err := r.contracts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, player.ID, got.PlayerID)
	assert.Equal(t, team.ID, got.TeamID)
	assert.True(t, got.StartDate.Equal(day(2024, time.July, 1)))
	require.NotNil(t, got.Salary)
	assert.Equal(t, salary, *got.Salary)

	byPlayer, err := r.contracts.ListByPlayer(ctx, player.ID)
	require.NoError(t, err)
	assert.Len(t, byPlayer, 1)

	n, err := r.contracts.CountByTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContractRepository_UpdateKeepsCreatedOnAndChecksVersion(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	c := r.factory.CreateContract(t, r.factory.CreatePlayer(t), r.factory.CreateTeam(t), day(2024, time.January, 1), day(2025, time.January, 1), nil)
	createdOn := c.CreatedOn

	clauses := "release clause 1M"
	c.Clauses = &clauses
	require.NoError(t, r.contracts.Update(ctx, c, 1))
	assert.Equal(t, 2, c.Version)
	assert.True(t, c.CreatedOn.Equal(createdOn))

	// Stale version
	err := r.contracts.Update(ctx, c, 1)
	assert.True(t, errors.Is(err, database.ErrVersionMismatch))

	err = r.contracts.Update(ctx, &model.Contract{ID: "contract:missing"}, 1)
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestTeamRepository_DeleteGuardedByContracts(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	team := r.factory.CreateTeam(t)
	c := r.factory.CreateContract(t, r.factory.CreatePlayer(t), team, day(2024, time.January, 1), day(2025, time.January, 1), nil)

	err := r.teams.Delete(ctx, team.ID, team.Version)
	assert.True(t, errors.Is(err, database.ErrReferenced))

	still, err := r.teams.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)

	require.NoError(t, r.contracts.Delete(ctx, c.ID, c.Version))
	require.NoError(t, r.teams.Delete(ctx, team.ID, team.Version))

	gone, err := r.teams.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = r.teams.Delete(ctx, team.ID, 0)
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestPlayerRepository_AccountLink(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	account := r.factory.CreateAccount(t, model.RolePlayer)
	player := r.factory.CreatePlayer(t, fixtures.LinkedTo(account))
	require.NotNil(t, player.AccountID)
	assert.Equal(t, account.ID, *player.AccountID)

	linked, err := r.players.GetByAccountID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, player.ID, linked.ID)

	player.AccountID = nil
	require.NoError(t, r.players.Update(ctx, player, player.Version))
	assert.Nil(t, player.AccountID)

	unlinked, err := r.players.GetByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, unlinked)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	a := r.factory.CreateAccount(t, model.RoleStaff)
	dup := &model.Account{Email: a.Email, FullName: "Dup", PasswordHash: "x", Roles: []model.Role{model.RoleStaff}}

	err := r.accounts.Create(ctx, dup)
	assert.True(t, errors.Is(err, database.ErrDuplicate))

	n, err := r.accounts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestContractRepository_RejectsDeletedPlayer(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	player := r.factory.CreatePlayer(t)
	team := r.factory.CreateTeam(t)
	require.NoError(t, r.players.Delete(ctx, player.ID, player.Version))

	// The service read the player before it was deleted
	c := &model.Contract{PlayerID: player.ID, TeamID: team.ID, StartDate: day(2025, time.January, 1), EndDate: day(2026, time.January, 1)}
	err := r.contracts.Create(ctx, c)

	var missing *database.MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "player_id", missing.Field)

	n, err := r.contracts.CountByTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestContractRepository_UpdateRejectsDeletedTeam(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	player := r.factory.CreatePlayer(t)
	c := r.factory.CreateContract(t, player, r.factory.CreateTeam(t), day(2024, time.January, 1), day(2025, time.January, 1), nil)
	other := r.factory.CreateTeam(t)
	require.NoError(t, r.teams.Delete(ctx, other.ID, other.Version))

	c.TeamID = other.ID
	err := r.contracts.Update(ctx, c, c.Version)
	assert.True(t, errors.Is(err, database.ErrMissingReference))

	stored, err := r.contracts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestAccountRepository_UpdateAndGuardedDelete(t *testing.T) {
	tdb, r := newRepos(t)
	ctx := tdb.Ctx()

	account := r.factory.CreateAccount(t, model.RoleStaff)
	require.Equal(t, 1, account.Version)

	account.FullName = "Renamed"
	account.Roles = []model.Role{model.RolePlayer}
	require.NoError(t, r.accounts.Update(ctx, account, 1))
	assert.Equal(t, 2, account.Version)
	assert.NotEmpty(t, account.PasswordHash)

	err := r.accounts.Update(ctx, account, 1)
	assert.True(t, errors.Is(err, database.ErrVersionMismatch))

	player := r.factory.CreatePlayer(t, fixtures.LinkedTo(account))
	err = r.accounts.Delete(ctx, account.ID, account.Version)
	assert.True(t, errors.Is(err, database.ErrReferenced))

	player.AccountID = nil
	require.NoError(t, r.players.Update(ctx, player, player.Version))
	require.NoError(t, r.accounts.Delete(ctx, account.ID, 0))

	all, err := r.accounts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
