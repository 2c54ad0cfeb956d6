package model

import (
	"strings"
	"time"
)

// Team represents a club that employs players through contracts
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Locality  *string   `json:"locality,omitempty"`
	Stadium   *string   `json:"stadium,omitempty"`
	CrestURL  *string   `json:"crest_url,omitempty"`
	FoundedOn time.Time `json:"founded_on"`
	Version   int       `json:"version"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Summary returns the reference embedded in contract views
func (t *Team) Summary() TeamSummary {
	return TeamSummary{ID: t.ID, Name: t.Name}
}

// Constraints
const (
	MaxTeamNameLength     = 100
	MaxTeamLocalityLength = 100
	MaxTeamStadiumLength  = 100
)

// Validate checks the team's own invariants
func (t *Team) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(t.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if runeLen(t.Name) > MaxTeamNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if t.Locality != nil && runeLen(*t.Locality) > MaxTeamLocalityLength {
		errors = append(errors, FieldError{Field: "locality", Message: "locality must be 100 characters or less"})
	}
	if t.Stadium != nil && runeLen(*t.Stadium) > MaxTeamStadiumLength {
		errors = append(errors, FieldError{Field: "stadium", Message: "stadium must be 100 characters or less"})
	}
	if t.FoundedOn.IsZero() {
		errors = append(errors, FieldError{Field: "founded_on", Message: "founded_on is required"})
	}

	return errors
}

// TeamDetail is a team with the contracts visible to the requester
type TeamDetail struct {
	Team
	Contracts []ContractView `json:"contracts"`
}

// CreateTeamRequest represents a request to create a team
type CreateTeamRequest struct {
	Name      string  `json:"name"`
	Locality  *string `json:"locality,omitempty"`
	Stadium   *string `json:"stadium,omitempty"`
	CrestURL  *string `json:"crest_url,omitempty"`
	FoundedOn string  `json:"founded_on"`
}

// Validate checks request shape
func (r *CreateTeamRequest) Validate() []FieldError {
	var errors []FieldError
	errors = appendDateError(errors, "founded_on", r.FoundedOn)
	return errors
}

// ToTeam builds a team from a validated request
func (r *CreateTeamRequest) ToTeam() *Team {
	founded, _ := ParseDate(r.FoundedOn)
	return &Team{
		Name:      strings.TrimSpace(r.Name),
		Locality:  trimmedOrNil(r.Locality),
		Stadium:   trimmedOrNil(r.Stadium),
		CrestURL:  trimmedOrNil(r.CrestURL),
		FoundedOn: founded,
	}
}

// UpdateTeamRequest represents a partial team update
type UpdateTeamRequest struct {
	Name      *string `json:"name,omitempty"`
	Locality  *string `json:"locality,omitempty"`
	Stadium   *string `json:"stadium,omitempty"`
	CrestURL  *string `json:"crest_url,omitempty"`
	FoundedOn *string `json:"founded_on,omitempty"`
	Version   int     `json:"version"`
}

// Validate checks request shape
func (r *UpdateTeamRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Version <= 0 {
		errors = append(errors, FieldError{Field: "version", Message: "version is required"})
	}
	if r.FoundedOn != nil {
		errors = appendDateError(errors, "founded_on", *r.FoundedOn)
	}
	return errors
}

// ApplyTo merges the update into t
func (r *UpdateTeamRequest) ApplyTo(t *Team) {
	if r.Name != nil {
		t.Name = strings.TrimSpace(*r.Name)
	}
	if r.Locality != nil {
		t.Locality = trimmedOrNil(r.Locality)
	}
	if r.Stadium != nil {
		t.Stadium = trimmedOrNil(r.Stadium)
	}
	if r.CrestURL != nil {
		t.CrestURL = trimmedOrNil(r.CrestURL)
	}
	if r.FoundedOn != nil {
		t.FoundedOn, _ = ParseDate(*r.FoundedOn)
	}
}
