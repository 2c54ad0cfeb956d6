package model

import (
	"strings"
	"time"
)

// Player represents an athlete who can hold contracts
type Player struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	BirthDate   time.Time `json:"birth_date"`
	Nationality *string   `json:"nationality,omitempty"`
	Position    *string   `json:"position,omitempty"` // Open set, e.g. "Avançado", "Guarda-Redes"
	PhotoURL    *string   `json:"photo_url,omitempty"`
	AccountID   *string   `json:"account_id,omitempty"` // At most one player per account
	Version     int       `json:"version"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Summary returns the reference embedded in contract views
func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{ID: p.ID, Name: p.Name, Position: p.Position}
}

// Constraints
const (
	MaxPlayerNameLength        = 100
	MaxPlayerEmailLength       = 100
	MaxPlayerNationalityLength = 50
	MaxPlayerPositionLength    = 50
)

// Validate checks the player's own invariants
func (p *Player) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(p.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if runeLen(p.Name) > MaxPlayerNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if p.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	} else if runeLen(p.Email) > MaxPlayerEmailLength {
		errors = append(errors, FieldError{Field: "email", Message: "email must be 100 characters or less"})
	} else if !IsValidEmail(p.Email) {
		errors = append(errors, FieldError{Field: "email", Message: "email must be a valid address"})
	}
	if p.BirthDate.IsZero() {
		errors = append(errors, FieldError{Field: "birth_date", Message: "birth_date is required"})
	}
	if p.Nationality != nil && runeLen(*p.Nationality) > MaxPlayerNationalityLength {
		errors = append(errors, FieldError{Field: "nationality", Message: "nationality must be 50 characters or less"})
	}
	if p.Position != nil && runeLen(*p.Position) > MaxPlayerPositionLength {
		errors = append(errors, FieldError{Field: "position", Message: "position must be 50 characters or less"})
	}

	return errors
}

// PlayerDetail is a player with the contracts visible to the requester
type PlayerDetail struct {
	Player
	Contracts []ContractView `json:"contracts"`
}

// CreatePlayerRequest represents a request to create a player
type CreatePlayerRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	BirthDate   string  `json:"birth_date"`
	Nationality *string `json:"nationality,omitempty"`
	Position    *string `json:"position,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	AccountID   *string `json:"account_id,omitempty"`
}

// Validate checks request shape
func (r *CreatePlayerRequest) Validate() []FieldError {
	var errors []FieldError
	errors = appendDateError(errors, "birth_date", r.BirthDate)
	return errors
}

// ToPlayer builds a player from a validated request
func (r *CreatePlayerRequest) ToPlayer() *Player {
	birth, _ := ParseDate(r.BirthDate)
	return &Player{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		BirthDate:   birth,
		Nationality: trimmedOrNil(r.Nationality),
		Position:    trimmedOrNil(r.Position),
		PhotoURL:    trimmedOrNil(r.PhotoURL),
		AccountID:   trimmedOrNil(r.AccountID),
	}
}

// UpdatePlayerRequest represents a partial player update
type UpdatePlayerRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Position    *string `json:"position,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	AccountID   *string `json:"account_id,omitempty"`
	Version     int     `json:"version"`
}

// Validate checks request shape
func (r *UpdatePlayerRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Version <= 0 {
		errors = append(errors, FieldError{Field: "version", Message: "version is required"})
	}
	if r.BirthDate != nil {
		errors = appendDateError(errors, "birth_date", *r.BirthDate)
	}
	return errors
}

// ApplyTo merges the update into p. An empty account_id unlinks the account.
func (r *UpdatePlayerRequest) ApplyTo(p *Player) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.BirthDate != nil {
		p.BirthDate, _ = ParseDate(*r.BirthDate)
	}
	if r.Nationality != nil {
		p.Nationality = trimmedOrNil(r.Nationality)
	}
	if r.Position != nil {
		p.Position = trimmedOrNil(r.Position)
	}
	if r.PhotoURL != nil {
		p.PhotoURL = trimmedOrNil(r.PhotoURL)
	}
	if r.AccountID != nil {
		p.AccountID = trimmedOrNil(r.AccountID)
	}
}

// IsValidEmail performs a basic structural check of an email address
func IsValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	return dotIndex < len(email)-1
}

func runeLen(s string) int {
	return len([]rune(s))
}
