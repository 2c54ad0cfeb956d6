package model

import "time"

// DashboardStats is the aggregate view of the contract registry at a reference date
type DashboardStats struct {
	ReferenceDate     time.Time         `json:"reference_date"`
	Totals            DashboardTotals   `json:"totals"`
	ActiveSalaryTotal float64           `json:"active_salary_total"`
	AverageSalary     float64           `json:"average_salary"`
	ContractsPerMonth []MonthBucket     `json:"contracts_per_month"`
	RosterSizes       []RosterSize      `json:"roster_sizes"`
	SalaryBrackets    []SalaryBracket   `json:"salary_brackets"`
	ExpiringSoon      []ContractView    `json:"expiring_soon"`
	TopPlayers        []PlayerContracts `json:"top_players"`
}

// DashboardTotals holds entity and status counts
type DashboardTotals struct {
	Players         int `json:"players"`
	Teams           int `json:"teams"`
	Contracts       int `json:"contracts"`
	Accounts        int `json:"accounts"`
	ActiveContracts int `json:"active_contracts"`
	PastContracts   int `json:"past_contracts"`
	FutureContracts int `json:"future_contracts"`
}

// MonthBucket counts contracts created in one calendar month
type MonthBucket struct {
	Label string `json:"label"` // MM/YYYY
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

// RosterSize is the number of distinct players under active contract with a team
type RosterSize struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Players  int    `json:"players"`
}

// SalaryBracket counts active contracts with a salary in [Min, Max)
type SalaryBracket struct {
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"` // Nil for the open top bracket
	Count int      `json:"count"`
}

// PlayerContracts is a player's total contract count
type PlayerContracts struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Contracts  int    `json:"contracts"`
}

// Dashboard limits
const (
	DashboardHistogramMonths = 12
	DashboardRosterLimit     = 10
	DashboardExpiringLimit   = 10
	DashboardExpiringMonths  = 3
	DashboardTopPlayersLimit = 5
)
