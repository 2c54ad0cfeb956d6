package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgo/roster/internal/model"
)

// Snapshot is the data set the dashboard is computed from
type Snapshot struct {
	Players   []*model.Player
	Teams     []*model.Team
	Contracts []*model.Contract
	Accounts  int
}

// AccountCounter is the part of the account store the dashboard needs
type AccountCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardService serves the admin analytics view
type DashboardService struct {
	playerRepo   PlayerRepository
	teamRepo     TeamRepository
	contractRepo ContractRepository
	accountRepo  AccountCounter
	clock        Clock
	logger       *slog.Logger
}

// DashboardServiceConfig holds configuration for the dashboard service
type DashboardServiceConfig struct {
	PlayerRepo   PlayerRepository
	TeamRepo     TeamRepository
	ContractRepo ContractRepository
	AccountRepo  AccountCounter
	Clock        Clock        // Optional, defaults to time.Now
	Logger       *slog.Logger // Optional
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(cfg DashboardServiceConfig) *DashboardService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		playerRepo:   cfg.PlayerRepo,
		teamRepo:     cfg.TeamRepo,
		contractRepo: cfg.ContractRepo,
		accountRepo:  cfg.AccountRepo,
		clock:        clockOrNow(cfg.Clock),
		logger:       logger,
	}
}

// Stats computes the dashboard for an admin requester
func (s *DashboardService) Stats(ctx context.Context, requester model.Requester) (*model.DashboardStats, error) {
	if _, ok := requester.(model.AdminRequester); !ok {
		return nil, ErrAdminRequired
	}

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(*snap, model.DateOf(s.clock())), nil
}

// Today returns the service's current calendar day
func (s *DashboardService) Today() time.Time {
	return model.DateOf(s.clock())
}

// LoadSnapshot reads players, teams, contracts and the account count in
// parallel
func (s *DashboardService) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Players, err = s.playerRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Teams, err = s.teamRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Contracts, err = s.contractRepo.List(gctx)
		return err
	})
	if s.accountRepo != nil {
		g.Go(func() error {
			var err error
			snap.Accounts, err = s.accountRepo.Count(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ============================================================================
// Aggregation
// ============================================================================

// salaryBrackets are half-open [min, max) ranges; the last is unbounded
var salaryBrackets = []struct {
	label string
	min   float64
	max   float64 // 0 = unbounded
}{
	{"0 - 5.000€", 0, 5000},
	{"5.000€ - 10.000€", 5000, 10000},
	{"10.000€ - 20.000€", 10000, 20000},
	{"20.000€ - 50.000€", 20000, 50000},
	{"> 50.000€", 50000, 0},
}

// Aggregate summarizes a snapshot as of today. It is pure: the snapshot is
// not modified and equal inputs give equal output.
func Aggregate(snap Snapshot, today time.Time) *model.DashboardStats {
	today = model.DateOf(today)
	dir := newDirectory(snap.Players, snap.Teams)

	stats := &model.DashboardStats{
		ReferenceDate: today,
		Totals: model.DashboardTotals{
			Players:   len(snap.Players),
			Teams:     len(snap.Teams),
			Contracts: len(snap.Contracts),
			Accounts:  snap.Accounts,
		},
		ContractsPerMonth: contractsPerMonth(snap.Contracts, today),
		ExpiringSoon:      []model.ContractView{},
	}

	var active []*model.Contract
	var salarySum float64
	var salaried int
	for _, c := range snap.Contracts {
		switch c.StatusAt(today) {
		case model.ContractStatusActive:
			stats.Totals.ActiveContracts++
			active = append(active, c)
			if c.Salary != nil {
				stats.ActiveSalaryTotal += *c.Salary
			}
		case model.ContractStatusPast:
			stats.Totals.PastContracts++
		case model.ContractStatusFuture:
			stats.Totals.FutureContracts++
		}
		if c.Salary != nil {
			salarySum += *c.Salary
			salaried++
		}
	}
	if salaried > 0 {
		stats.AverageSalary = salarySum / float64(salaried)
	}

	stats.RosterSizes = rosterSizes(active, dir)
	stats.SalaryBrackets = salaryDistribution(active)
	for _, c := range ExpiringContracts(snap.Contracts, today, model.DashboardExpiringLimit) {
		stats.ExpiringSoon = append(stats.ExpiringSoon, dir.view(c, today))
	}
	stats.TopPlayers = topPlayers(snap.Contracts, dir)

	return stats
}

// contractsPerMonth counts contracts by creation month over the twelve
// months ending with today's month, oldest first
func contractsPerMonth(contracts []*model.Contract, today time.Time) []model.MonthBucket {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(model.DashboardHistogramMonths - 1), 0)

	buckets := make([]model.MonthBucket, model.DashboardHistogramMonths)
	index := make(map[[2]int]int, len(buckets))
	for i := range buckets {
		m := first.AddDate(0, i, 0)
		buckets[i] = model.MonthBucket{
			Label: model.MonthLabel(m.Year(), m.Month()),
			Year:  m.Year(),
			Month: int(m.Month()),
		}
		index[[2]int{m.Year(), int(m.Month())}] = i
	}

	for _, c := range contracts {
		created := c.CreatedOn.UTC()
		if i, ok := index[[2]int{created.Year(), int(created.Month())}]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// rosterSizes counts distinct players per team among active contracts.
// Equal sizes keep team creation order, then id; teams missing from the
// directory go last.
func rosterSizes(active []*model.Contract, dir directory) []model.RosterSize {
	players := make(map[string]map[string]struct{})
	for _, c := range active {
		if players[c.TeamID] == nil {
			players[c.TeamID] = make(map[string]struct{})
		}
		players[c.TeamID][c.PlayerID] = struct{}{}
	}

	type ranked struct {
		size    model.RosterSize
		created time.Time
		known   bool
	}
	rows := make([]ranked, 0, len(players))
	for teamID, set := range players {
		row := ranked{size: model.RosterSize{TeamID: teamID, Players: len(set)}}
		if t, ok := dir.teams[teamID]; ok {
			row.size.TeamName = t.Name
			row.created = t.CreatedOn
			row.known = true
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.size.Players != b.size.Players:
			return a.size.Players > b.size.Players
		case a.known != b.known:
			return a.known
		case !a.created.Equal(b.created):
			return a.created.Before(b.created)
		}
		return a.size.TeamID < b.size.TeamID
	})
	if len(rows) > model.DashboardRosterLimit {
		rows = rows[:model.DashboardRosterLimit]
	}

	out := make([]model.RosterSize, len(rows))
	for i, row := range rows {
		out[i] = row.size
	}
	return out
}

// salaryDistribution buckets active salaried contracts. All brackets are
// listed once any salaried contract exists; otherwise the list is empty.
func salaryDistribution(active []*model.Contract) []model.SalaryBracket {
	out := make([]model.SalaryBracket, 0, len(salaryBrackets))
	counted := 0
	for _, b := range salaryBrackets {
		bracket := model.SalaryBracket{Label: b.label, Min: b.min}
		if b.max > 0 {
			upper := b.max
			bracket.Max = &upper
		}
		out = append(out, bracket)
	}

	for _, c := range active {
		if c.Salary == nil {
			continue
		}
		for i, b := range salaryBrackets {
			if *c.Salary >= b.min && (b.max == 0 || *c.Salary < b.max) {
				out[i].Count++
				counted++
				break
			}
		}
	}

	if counted == 0 {
		return []model.SalaryBracket{}
	}
	return out
}

// ExpiringContracts returns contracts whose end date falls within
// [today, today + 3 months], soonest first, ties by id, at most limit
// (limit <= 0 means no limit)
func ExpiringContracts(contracts []*model.Contract, today time.Time, limit int) []*model.Contract {
	today = model.DateOf(today)
	horizon := model.AddMonths(today, model.DashboardExpiringMonths)

	var out []*model.Contract
	for _, c := range contracts {
		end := model.DateOf(c.EndDate)
		if !end.Before(today) && !end.After(horizon) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndDate.Equal(out[j].EndDate) {
			return out[i].EndDate.Before(out[j].EndDate)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// topPlayers ranks players by number of contracts of any status
func topPlayers(contracts []*model.Contract, dir directory) []model.PlayerContracts {
	counts := make(map[string]int)
	for _, c := range contracts {
		counts[c.PlayerID]++
	}

	out := make([]model.PlayerContracts, 0, len(counts))
	for playerID, n := range counts {
		entry := model.PlayerContracts{PlayerID: playerID, Contracts: n}
		if p, ok := dir.players[playerID]; ok {
			entry.PlayerName = p.Name
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contracts != out[j].Contracts {
			return out[i].Contracts > out[j].Contracts
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > model.DashboardTopPlayersLimit {
		out = out[:model.DashboardTopPlayersLimit]
	}
	return out
}
