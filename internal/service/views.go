package service

import (
	"sort"
	"time"

	"github.com/forgo/roster/internal/model"
)

// directory indexes players and teams by id for joining contract views
type directory struct {
	players map[string]*model.Player
	teams   map[string]*model.Team
}

func newDirectory(players []*model.Player, teams []*model.Team) directory {
	d := directory{
		players: make(map[string]*model.Player, len(players)),
		teams:   make(map[string]*model.Team, len(teams)),
	}
	for _, p := range players {
		d.players[p.ID] = p
	}
	for _, t := range teams {
		d.teams[t.ID] = t
	}
	return d
}

// view joins a contract with its player and team. A dangling reference
// leaves the summary with only the id.
func (d directory) view(c *model.Contract, today time.Time) model.ContractView {
	v := model.ContractView{
		Contract: *c,
		Status:   c.StatusAt(today),
		Player:   model.PlayerSummary{ID: c.PlayerID},
		Team:     model.TeamSummary{ID: c.TeamID},
	}
	if p, ok := d.players[c.PlayerID]; ok {
		v.Player = p.Summary()
	}
	if t, ok := d.teams[c.TeamID]; ok {
		v.Team = t.Summary()
	}
	return v
}

func (d directory) views(contracts []*model.Contract, today time.Time) []model.ContractView {
	out := make([]model.ContractView, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, d.view(c, today))
	}
	return out
}

// sortContracts orders by start date, newest first, then by id
func sortContracts(contracts []*model.Contract) {
	sort.SliceStable(contracts, func(i, j int) bool {
		a, b := contracts[i], contracts[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
}
