package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/roster/internal/model"
)

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	stats := Aggregate(Snapshot{}, refDay)

	assert.Equal(t, model.DashboardTotals{}, stats.Totals)
	require.Len(t, stats.ContractsPerMonth, model.DashboardHistogramMonths)
	for _, b := range stats.ContractsPerMonth {
		assert.Zero(t, b.Count)
	}
	assert.Empty(t, stats.RosterSizes)
	assert.Empty(t, stats.SalaryBrackets)
	assert.Empty(t, stats.ExpiringSoon)
	assert.Empty(t, stats.TopPlayers)
	assert.Zero(t, stats.AverageSalary)
}

func TestAggregate_TotalsConsistency(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Contracts: mixedContracts(), Accounts: 4}
	stats := Aggregate(snap, refDay)

	totals := stats.Totals
	assert.Equal(t, 1, totals.ActiveContracts)
	assert.Equal(t, 1, totals.PastContracts)
	assert.Equal(t, 1, totals.FutureContracts)
	assert.Equal(t, totals.Contracts, totals.ActiveContracts+totals.PastContracts+totals.FutureContracts)
	assert.Equal(t, 4, totals.Accounts)
}

func TestAggregate_Histogram_CountsByCreationMonth(t *testing.T) {
	t.Parallel()

	a := contract("c1", "p1", "t1", day(2024, time.April, 1), day(2025, time.April, 1))
	a.CreatedOn = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	b := contract("c2", "p2", "t1", day(2024, time.April, 1), day(2025, time.April, 1))
	b.CreatedOn = time.Date(2024, time.March, 20, 18, 0, 0, 0, time.UTC)
	old := contract("c3", "p3", "t1", day(2022, time.April, 1), day(2023, time.April, 1))
	old.CreatedOn = day(2022, time.March, 1)

	stats := Aggregate(Snapshot{Contracts: []*model.Contract{a, b, old}}, day(2024, time.June, 15))

	require.Len(t, stats.ContractsPerMonth, 12)
	assert.Equal(t, "07/2023", stats.ContractsPerMonth[0].Label)
	assert.Equal(t, "06/2024", stats.ContractsPerMonth[11].Label)

	var march model.MonthBucket
	total := 0
	for _, bucket := range stats.ContractsPerMonth {
		if bucket.Label == "03/2024" {
			march = bucket
		}
		total += bucket.Count
	}
	assert.Equal(t, 2, march.Count)
	assert.Equal(t, 2, total, "contracts outside the window are not counted")
}

func TestAggregate_Histogram_AlwaysTwelveBuckets(t *testing.T) {
	t.Parallel()

	for _, today := range []time.Time{day(2024, time.January, 1), day(2024, time.February, 29), day(2025, time.December, 31)} {
		stats := Aggregate(Snapshot{Contracts: mixedContracts()}, today)
		assert.Len(t, stats.ContractsPerMonth, 12)
	}
}

func TestAggregate_SalaryBrackets_LowerInclusive(t *testing.T) {
	t.Parallel()

	a := contract("c1", "p1", "t1", day(2025, time.January, 1), day(2026, time.January, 1))
	a.Salary = salary(9999.99)
	b := contract("c2", "p2", "t1", day(2025, time.January, 1), day(2026, time.January, 1))
	b.Salary = salary(10000)
	top := contract("c3", "p3", "t1", day(2025, time.January, 1), day(2026, time.January, 1))
	top.Salary = salary(50000)
	pastHigh := contract("c4", "p4", "t1", day(2020, time.January, 1), day(2021, time.January, 1))
	pastHigh.Salary = salary(1000000)

	stats := Aggregate(Snapshot{Contracts: []*model.Contract{a, b, top, pastHigh}}, refDay)

	counts := map[string]int{}
	for _, br := range stats.SalaryBrackets {
		counts[br.Label] = br.Count
	}
	require.Len(t, stats.SalaryBrackets, 5)
	assert.Equal(t, 0, counts["0 - 5.000€"])
	assert.Equal(t, 1, counts["5.000€ - 10.000€"])
	assert.Equal(t, 1, counts["10.000€ - 20.000€"])
	assert.Equal(t, 1, counts["> 50.000€"])
	assert.Nil(t, stats.SalaryBrackets[4].Max)

	assert.InDelta(t, 69999.99, stats.ActiveSalaryTotal, 0.001)
	assert.InDelta(t, (9999.99+10000+50000+1000000)/4, stats.AverageSalary, 0.001)
}

func TestAggregate_RosterSizes_DistinctActivePlayers(t *testing.T) {
	t.Parallel()

	teams := []*model.Team{{ID: "team:a", Name: "A"}, {ID: "team:b", Name: "B"}, {ID: "team:c", Name: "C"}}
	contracts := []*model.Contract{
		contract("c1", "player:1", "team:b", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c2", "player:1", "team:b", day(2025, time.February, 1), day(2026, time.January, 1)),
		contract("c3", "player:2", "team:b", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c4", "player:3", "team:a", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c5", "player:4", "team:c", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c6", "player:5", "team:a", day(2020, time.January, 1), day(2021, time.January, 1)),
	}

	stats := Aggregate(Snapshot{Teams: teams, Contracts: contracts}, refDay)

	require.Len(t, stats.RosterSizes, 3)
	assert.Equal(t, model.RosterSize{TeamID: "team:b", TeamName: "B", Players: 2}, stats.RosterSizes[0])
	assert.Equal(t, "team:a", stats.RosterSizes[1].TeamID, "equal creation times fall back to team id")
	assert.Equal(t, "team:c", stats.RosterSizes[2].TeamID)
}

func TestAggregate_RosterSizes_TiesKeepTeamCreationOrder(t *testing.T) {
	t.Parallel()

	teams := []*model.Team{
		{ID: "team:a", Name: "A", CreatedOn: day(2024, time.March, 1)},
		{ID: "team:b", Name: "B", CreatedOn: day(2023, time.May, 1)},
		{ID: "team:c", Name: "C", CreatedOn: day(2024, time.March, 1)},
	}
	contracts := []*model.Contract{
		contract("c1", "player:1", "team:a", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c2", "player:2", "team:b", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c3", "player:3", "team:c", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c4", "player:4", "team:gone", day(2025, time.January, 1), day(2026, time.January, 1)),
	}

	stats := Aggregate(Snapshot{Teams: teams, Contracts: contracts}, refDay)

	ids := make([]string, 0, len(stats.RosterSizes))
	for _, r := range stats.RosterSizes {
		ids = append(ids, r.TeamID)
	}
	assert.Equal(t, []string{"team:b", "team:a", "team:c", "team:gone"}, ids)
}

func TestAggregate_ExpiringSoon(t *testing.T) {
	t.Parallel()

	players := []*model.Player{{ID: "player:1", Name: "Rúben Dias"}}
	contracts := []*model.Contract{
		contract("c-late", "player:1", "team:1", day(2024, time.January, 1), day(2025, time.September, 15)),
		contract("c-today", "player:1", "team:1", day(2024, time.January, 1), refDay),
		contract("c-beyond", "player:1", "team:1", day(2024, time.January, 1), day(2025, time.September, 16)),
		contract("c-ended", "player:1", "team:1", day(2024, time.January, 1), day(2025, time.June, 14)),
		contract("b-mid", "player:1", "team:1", day(2024, time.January, 1), day(2025, time.July, 1)),
		contract("a-mid", "player:1", "team:1", day(2024, time.January, 1), day(2025, time.July, 1)),
	}

	stats := Aggregate(Snapshot{Players: players, Contracts: contracts}, refDay)

	got := make([]string, 0, len(stats.ExpiringSoon))
	for _, v := range stats.ExpiringSoon {
		got = append(got, v.ID)
	}
	assert.Equal(t, []string{"c-today", "a-mid", "b-mid", "c-late"}, got)
	assert.Equal(t, "Rúben Dias", stats.ExpiringSoon[0].Player.Name)
	assert.Equal(t, model.ContractStatusActive, stats.ExpiringSoon[0].Status)
}

func TestExpiringContracts_ClampsMonthEnd(t *testing.T) {
	t.Parallel()

	today := day(2025, time.November, 30)
	endOfFeb := contract("c1", "p", "t", day(2025, time.January, 1), day(2026, time.February, 28))
	march := contract("c2", "p", "t", day(2025, time.January, 1), day(2026, time.March, 1))

	got := ExpiringContracts([]*model.Contract{endOfFeb, march}, today, 0)

	assert.Equal(t, []string{"c1"}, ids(got))
}

func TestAggregate_TopPlayers(t *testing.T) {
	t.Parallel()

	players := []*model.Player{{ID: "player:a", Name: "A"}, {ID: "player:b", Name: "B"}}
	contracts := []*model.Contract{
		contract("c1", "player:b", "t", day(2020, time.January, 1), day(2021, time.January, 1)),
		contract("c2", "player:b", "t", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c3", "player:a", "t", day(2025, time.January, 1), day(2026, time.January, 1)),
		contract("c4", "player:c", "t", day(2025, time.January, 1), day(2026, time.January, 1)),
	}

	stats := Aggregate(Snapshot{Players: players, Contracts: contracts}, refDay)

	require.Len(t, stats.TopPlayers, 3)
	assert.Equal(t, model.PlayerContracts{PlayerID: "player:b", PlayerName: "B", Contracts: 2}, stats.TopPlayers[0])
	assert.Equal(t, "player:a", stats.TopPlayers[1].PlayerID)
	assert.Equal(t, "player:c", stats.TopPlayers[2].PlayerID)
	assert.Empty(t, stats.TopPlayers[2].PlayerName)
}

func TestDashboardService_Stats_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := NewDashboardService(DashboardServiceConfig{})

	for _, r := range []model.Requester{
		model.AnonymousRequester{},
		model.PlayerRequester{AccountID: "a", PlayerID: "p"},
		model.StaffRequester{AccountID: "s"},
	} {
		_, err := svc.Stats(context.Background(), r)
		assert.ErrorIs(t, err, ErrAdminRequired)
	}
}

func TestDashboardService_Stats_LoadsSnapshot(t *testing.T) {
	t.Parallel()

	svc := NewDashboardService(DashboardServiceConfig{
		PlayerRepo: &mockPlayerRepo{listFunc: func(ctx context.Context) ([]*model.Player, error) {
			return []*model.Player{{ID: "player:p1"}, {ID: "player:p2"}}, nil
		}},
		TeamRepo: &mockTeamRepo{listFunc: func(ctx context.Context) ([]*model.Team, error) {
			return []*model.Team{{ID: "team:t1"}}, nil
		}},
		ContractRepo: &mockContractRepo{listFunc: func(ctx context.Context) ([]*model.Contract, error) {
			return mixedContracts(), nil
		}},
		AccountRepo: &mockAccountRepo{countFunc: func(ctx context.Context) (int, error) {
			return 7, nil
		}},
		Clock: fixedClock(refDay.Add(15 * time.Hour)),
	})

	stats, err := svc.Stats(context.Background(), model.AdminRequester{AccountID: "account:admin"})

	require.NoError(t, err)
	assert.Equal(t, refDay, stats.ReferenceDate)
	assert.Equal(t, 2, stats.Totals.Players)
	assert.Equal(t, 1, stats.Totals.Teams)
	assert.Equal(t, 3, stats.Totals.Contracts)
	assert.Equal(t, 7, stats.Totals.Accounts)
}

func TestDashboardService_Stats_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	svc := NewDashboardService(DashboardServiceConfig{
		PlayerRepo: &mockPlayerRepo{},
		TeamRepo:   &mockTeamRepo{},
		ContractRepo: &mockContractRepo{listFunc: func(ctx context.Context) ([]*model.Contract, error) {
			return nil, storeErr
		}},
	})

	_, err := svc.Stats(context.Background(), model.AdminRequester{AccountID: "account:admin"})

	assert.ErrorIs(t, err, storeErr)
}
