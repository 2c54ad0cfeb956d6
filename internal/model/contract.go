package model

import (
	"fmt"
	"strings"
	"time"
)

// ContractStatus is the temporal state of a contract relative to a reference date.
// It is derived, never stored.
type ContractStatus string

const (
	ContractStatusActive ContractStatus = "active"
	ContractStatusPast   ContractStatus = "past"
	ContractStatusFuture ContractStatus = "future"
)

// ParseContractStatus parses a status filter value (case-insensitive)
func ParseContractStatus(s string) (ContractStatus, error) {
	switch ContractStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ContractStatusActive:
		return ContractStatusActive, nil
	case ContractStatusPast:
		return ContractStatusPast, nil
	case ContractStatusFuture:
		return ContractStatusFuture, nil
	default:
		return "", fmt.Errorf("unknown contract status %q", s)
	}
}

// ClassifyContract derives the status of a contract window relative to today.
// Both ends of the window are inclusive: a contract starting or ending today is active.
// Inputs are compared at day granularity.
func ClassifyContract(start, end, today time.Time) ContractStatus {
	start, end, today = DateOf(start), DateOf(end), DateOf(today)
	switch {
	case end.Before(today):
		return ContractStatusPast
	case start.After(today):
		return ContractStatusFuture
	default:
		return ContractStatusActive
	}
}

// Contract binds a player to a team for a date window
type Contract struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	TeamID    string    `json:"team_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Salary    *float64  `json:"salary,omitempty"`
	Clauses   *string   `json:"clauses,omitempty"`
	Version   int       `json:"version"`
	CreatedOn time.Time `json:"created_on"` // Set once on insert
	UpdatedOn time.Time `json:"updated_on"`
}

// StatusAt returns the contract's status on the given day
func (c *Contract) StatusAt(today time.Time) ContractStatus {
	return ClassifyContract(c.StartDate, c.EndDate, today)
}

// Constraints
const (
	MaxContractClausesLength = 500
)

// Validate checks the contract's own invariants. Reference existence is
// checked by the service against the repositories.
func (c *Contract) Validate() []FieldError {
	var errors []FieldError

	if c.PlayerID == "" {
		errors = append(errors, FieldError{Field: "player_id", Message: "player_id is required"})
	}
	if c.TeamID == "" {
		errors = append(errors, FieldError{Field: "team_id", Message: "team_id is required"})
	}
	if c.StartDate.IsZero() {
		errors = append(errors, FieldError{Field: "start_date", Message: "start_date is required"})
	}
	if c.EndDate.IsZero() {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date is required"})
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !DateOf(c.EndDate).After(DateOf(c.StartDate)) {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be after start_date"})
	}
	if c.Salary != nil && *c.Salary < 0 {
		errors = append(errors, FieldError{Field: "salary", Message: "salary must not be negative"})
	}
	if c.Clauses != nil && len([]rune(*c.Clauses)) > MaxContractClausesLength {
		errors = append(errors, FieldError{Field: "clauses", Message: "clauses must be 500 characters or less"})
	}

	return errors
}

// PlayerSummary is the player reference embedded in contract views
type PlayerSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position *string `json:"position,omitempty"`
}

// TeamSummary is the team reference embedded in contract views
type TeamSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContractView is a contract joined with its player and team and the
// status derived for the request's reference date
type ContractView struct {
	Contract
	Status ContractStatus `json:"status"`
	Player PlayerSummary  `json:"player"`
	Team   TeamSummary    `json:"team"`
}

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	PlayerID  string   `json:"player_id"`
	TeamID    string   `json:"team_id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Salary    *float64 `json:"salary,omitempty"`
	Clauses   *string  `json:"clauses,omitempty"`
}

// Validate checks request shape; entity invariants are checked on the built contract
func (r *CreateContractRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.PlayerID) == "" {
		errors = append(errors, FieldError{Field: "player_id", Message: "player_id is required"})
	}
	if strings.TrimSpace(r.TeamID) == "" {
		errors = append(errors, FieldError{Field: "team_id", Message: "team_id is required"})
	}
	errors = appendDateError(errors, "start_date", r.StartDate)
	errors = appendDateError(errors, "end_date", r.EndDate)

	return errors
}

// ToContract builds a contract from a validated request
func (r *CreateContractRequest) ToContract() *Contract {
	start, _ := ParseDate(r.StartDate)
	end, _ := ParseDate(r.EndDate)
	return &Contract{
		PlayerID:  strings.TrimSpace(r.PlayerID),
		TeamID:    strings.TrimSpace(r.TeamID),
		StartDate: start,
		EndDate:   end,
		Salary:    r.Salary,
		Clauses:   trimmedOrNil(r.Clauses),
	}
}

// UpdateContractRequest represents a partial contract update.
// Version must carry the version the caller last read.
type UpdateContractRequest struct {
	PlayerID  *string  `json:"player_id,omitempty"`
	TeamID    *string  `json:"team_id,omitempty"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	Salary    *float64 `json:"salary,omitempty"`
	Clauses   *string  `json:"clauses,omitempty"`
	Version   int      `json:"version"`
}

// Validate checks request shape
func (r *UpdateContractRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Version <= 0 {
		errors = append(errors, FieldError{Field: "version", Message: "version is required"})
	}
	if r.PlayerID != nil && strings.TrimSpace(*r.PlayerID) == "" {
		errors = append(errors, FieldError{Field: "player_id", Message: "player_id cannot be empty"})
	}
	if r.TeamID != nil && strings.TrimSpace(*r.TeamID) == "" {
		errors = append(errors, FieldError{Field: "team_id", Message: "team_id cannot be empty"})
	}
	if r.StartDate != nil {
		errors = appendDateError(errors, "start_date", *r.StartDate)
	}
	if r.EndDate != nil {
		errors = appendDateError(errors, "end_date", *r.EndDate)
	}

	return errors
}

// ApplyTo merges the update into c. CreatedOn is never touched.
func (r *UpdateContractRequest) ApplyTo(c *Contract) {
	if r.PlayerID != nil {
		c.PlayerID = strings.TrimSpace(*r.PlayerID)
	}
	if r.TeamID != nil {
		c.TeamID = strings.TrimSpace(*r.TeamID)
	}
	if r.StartDate != nil {
		c.StartDate, _ = ParseDate(*r.StartDate)
	}
	if r.EndDate != nil {
		c.EndDate, _ = ParseDate(*r.EndDate)
	}
	if r.Salary != nil {
		c.Salary = r.Salary
	}
	if r.Clauses != nil {
		c.Clauses = trimmedOrNil(r.Clauses)
	}
}

func appendDateError(errors []FieldError, field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errors, FieldError{Field: field, Message: field + " is required"})
	}
	if _, err := ParseDate(value); err != nil {
		errors = append(errors, FieldError{Field: field, Message: field + " must be a date in YYYY-MM-DD format"})
	}
	return errors
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
