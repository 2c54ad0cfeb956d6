package service

import (
	"context"
	"time"

	"github.com/forgo/roster/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockPlayerRepo struct {
	listFunc           func(ctx context.Context) ([]*model.Player, error)
	getByIDFunc        func(ctx context.Context, id string) (*model.Player, error)
	getByAccountIDFunc func(ctx context.Context, accountID string) (*model.Player, error)
	createFunc         func(ctx context.Context, p *model.Player) error
	updateFunc         func(ctx context.Context, p *model.Player, expectedVersion int) error
	deleteFunc         func(ctx context.Context, id string, expectedVersion int) error
	countFunc          func(ctx context.Context) (int, error)
}

func (m *mockPlayerRepo) List(ctx context.Context) ([]*model.Player, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlayerRepo) GetByAccountID(ctx context.Context, accountID string) (*model.Player, error) {
	if m.getByAccountIDFunc != nil {
		return m.getByAccountIDFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *mockPlayerRepo) Create(ctx context.Context, p *model.Player) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockPlayerRepo) Update(ctx context.Context, p *model.Player, expectedVersion int) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p, expectedVersion)
	}
	return nil
}

func (m *mockPlayerRepo) Delete(ctx context.Context, id string, expectedVersion int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, expectedVersion)
	}
	return nil
}

func (m *mockPlayerRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockTeamRepo struct {
	listFunc    func(ctx context.Context) ([]*model.Team, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Team, error)
	createFunc  func(ctx context.Context, t *model.Team) error
	updateFunc  func(ctx context.Context, t *model.Team, expectedVersion int) error
	deleteFunc  func(ctx context.Context, id string, expectedVersion int) error
	countFunc   func(ctx context.Context) (int, error)
}

func (m *mockTeamRepo) List(ctx context.Context) ([]*model.Team, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTeamRepo) Create(ctx context.Context, t *model.Team) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	return nil
}

func (m *mockTeamRepo) Update(ctx context.Context, t *model.Team, expectedVersion int) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, t, expectedVersion)
	}
	return nil
}

func (m *mockTeamRepo) Delete(ctx context.Context, id string, expectedVersion int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, expectedVersion)
	}
	return nil
}

func (m *mockTeamRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockContractRepo struct {
	listFunc          func(ctx context.Context) ([]*model.Contract, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Contract, error)
	listByPlayerFunc  func(ctx context.Context, playerID string) ([]*model.Contract, error)
	listByTeamFunc    func(ctx context.Context, teamID string) ([]*model.Contract, error)
	countByPlayerFunc func(ctx context.Context, playerID string) (int, error)
	countByTeamFunc   func(ctx context.Context, teamID string) (int, error)
	createFunc        func(ctx context.Context, c *model.Contract) error
	updateFunc        func(ctx context.Context, c *model.Contract, expectedVersion int) error
	deleteFunc        func(ctx context.Context, id string, expectedVersion int) error
}

func (m *mockContractRepo) List(ctx context.Context) ([]*model.Contract, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContractRepo) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockContractRepo) ListByPlayer(ctx context.Context, playerID string) ([]*model.Contract, error) {
	if m.listByPlayerFunc != nil {
		return m.listByPlayerFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *mockContractRepo) ListByTeam(ctx context.Context, teamID string) ([]*model.Contract, error) {
	if m.listByTeamFunc != nil {
		return m.listByTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *mockContractRepo) CountByPlayer(ctx context.Context, playerID string) (int, error) {
	if m.countByPlayerFunc != nil {
		return m.countByPlayerFunc(ctx, playerID)
	}
	return 0, nil
}

func (m *mockContractRepo) CountByTeam(ctx context.Context, teamID string) (int, error) {
	if m.countByTeamFunc != nil {
		return m.countByTeamFunc(ctx, teamID)
	}
	return 0, nil
}

func (m *mockContractRepo) Create(ctx context.Context, c *model.Contract) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockContractRepo) Update(ctx context.Context, c *model.Contract, expectedVersion int) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c, expectedVersion)
	}
	return nil
}

func (m *mockContractRepo) Delete(ctx context.Context, id string, expectedVersion int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, expectedVersion)
	}
	return nil
}

type mockAccountRepo struct {
	createFunc     func(ctx context.Context, a *model.Account) error
	getByIDFunc    func(ctx context.Context, id string) (*model.Account, error)
	getByEmailFunc func(ctx context.Context, email string) (*model.Account, error)
	listFunc       func(ctx context.Context) ([]*model.Account, error)
	countFunc      func(ctx context.Context) (int, error)
	updateFunc     func(ctx context.Context, a *model.Account, expectedVersion int) error
	deleteFunc     func(ctx context.Context, id string, expectedVersion int) error
}

func (m *mockAccountRepo) Create(ctx context.Context, a *model.Account) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return nil
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockAccountRepo) List(ctx context.Context) ([]*model.Account, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockAccountRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockAccountRepo) Update(ctx context.Context, a *model.Account, expectedVersion int) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, a, expectedVersion)
	}
	return nil
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string, expectedVersion int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, expectedVersion)
	}
	return nil
}

// ============================================================================
// Fixtures
// ============================================================================

// refDay is the reference "today" used across service tests
var refDay = day(2025, time.June, 15)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func salary(v float64) *float64 {
	return &v
}

func contract(id, playerID, teamID string, start, end time.Time) *model.Contract {
	return &model.Contract{
		ID:        id,
		PlayerID:  playerID,
		TeamID:    teamID,
		StartDate: start,
		EndDate:   end,
		Version:   1,
	}
}

// mixedContracts holds one contract per status relative to refDay
func mixedContracts() []*model.Contract {
	return []*model.Contract{
		contract("contract:active", "player:p1", "team:t1", day(2025, time.January, 1), day(2025, time.December, 31)),
		contract("contract:past", "player:p1", "team:t2", day(2023, time.January, 1), day(2024, time.December, 31)),
		contract("contract:future", "player:p2", "team:t1", day(2025, time.July, 1), day(2026, time.June, 30)),
	}
}

func ids(contracts []*model.Contract) []string {
	out := make([]string, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, c.ID)
	}
	return out
}
