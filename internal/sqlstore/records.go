package sqlstore

import (
	"strings"
	"time"

	"github.com/forgo/roster/internal/model"
)

type accountRecord struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Email        string    `gorm:"size:254;not null;uniqueIndex"`
	FullName     string    `gorm:"size:200;not null"`
	PasswordHash string    `gorm:"size:100;not null"`
	Roles        string    `gorm:"size:100;not null"` // Comma separated
	Version      int       `gorm:"not null;default:1"`
	CreatedOn    time.Time `gorm:"not null"`
	UpdatedOn    time.Time `gorm:"not null"`
}

func (accountRecord) TableName() string { return "accounts" }

type playerRecord struct {
	ID          string         `gorm:"primaryKey;size:64"`
	Name        string         `gorm:"size:100;not null;index"`
	Email       string         `gorm:"size:100;not null"`
	BirthDate   time.Time      `gorm:"not null"`
	Nationality *string        `gorm:"size:50"`
	Position    *string        `gorm:"size:50"`
	PhotoURL    *string        `gorm:"size:500"`
	AccountID   *string        `gorm:"size:64;uniqueIndex"`
	Account     *accountRecord `gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT"`
	Version     int            `gorm:"not null;default:1"`
	CreatedOn   time.Time      `gorm:"not null"`
	UpdatedOn   time.Time      `gorm:"not null"`
}

func (playerRecord) TableName() string { return "players" }

type teamRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"size:100;not null;index"`
	Locality  *string   `gorm:"size:100"`
	Stadium   *string   `gorm:"size:100"`
	CrestURL  *string   `gorm:"size:500"`
	FoundedOn time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
	CreatedOn time.Time `gorm:"not null"`
	UpdatedOn time.Time `gorm:"not null"`
}

func (teamRecord) TableName() string { return "teams" }

type contractRecord struct {
	ID        string        `gorm:"primaryKey;size:64"`
	PlayerID  string        `gorm:"size:64;not null;index"`
	Player    *playerRecord `gorm:"foreignKey:PlayerID;constraint:OnDelete:RESTRICT"`
	TeamID    string        `gorm:"size:64;not null;index"`
	Team      *teamRecord   `gorm:"foreignKey:TeamID;constraint:OnDelete:RESTRICT"`
	StartDate time.Time     `gorm:"not null"`
	EndDate   time.Time     `gorm:"not null;index"`
	Salary    *float64
	Clauses   *string   `gorm:"size:500"`
	Version   int       `gorm:"not null;default:1"`
	CreatedOn time.Time `gorm:"not null;<-:create"`
	UpdatedOn time.Time `gorm:"not null"`
}

func (contractRecord) TableName() string { return "contracts" }

// ============================================================================
// Conversions
// ============================================================================

func (r *accountRecord) toModel() *model.Account {
	var roles []string
	if r.Roles != "" {
		roles = strings.Split(r.Roles, ",")
	}
	return &model.Account{
		ID:           r.ID,
		Email:        r.Email,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
		Roles:        model.ParseRoles(roles),
		Version:      r.Version,
		CreatedOn:    r.CreatedOn.UTC(),
		UpdatedOn:    r.UpdatedOn.UTC(),
	}
}

func (r *playerRecord) toModel() *model.Player {
	return &model.Player{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		BirthDate:   r.BirthDate.UTC(),
		Nationality: r.Nationality,
		Position:    r.Position,
		PhotoURL:    r.PhotoURL,
		AccountID:   r.AccountID,
		Version:     r.Version,
		CreatedOn:   r.CreatedOn.UTC(),
		UpdatedOn:   r.UpdatedOn.UTC(),
	}
}

func playerValues(p *model.Player) map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"email":       p.Email,
		"birth_date":  p.BirthDate,
		"nationality": p.Nationality,
		"position":    p.Position,
		"photo_url":   p.PhotoURL,
		"account_id":  p.AccountID,
	}
}

func (r *teamRecord) toModel() *model.Team {
	return &model.Team{
		ID:        r.ID,
		Name:      r.Name,
		Locality:  r.Locality,
		Stadium:   r.Stadium,
		CrestURL:  r.CrestURL,
		FoundedOn: r.FoundedOn.UTC(),
		Version:   r.Version,
		CreatedOn: r.CreatedOn.UTC(),
		UpdatedOn: r.UpdatedOn.UTC(),
	}
}

func teamValues(t *model.Team) map[string]interface{} {
	return map[string]interface{}{
		"name":       t.Name,
		"locality":   t.Locality,
		"stadium":    t.Stadium,
		"crest_url":  t.CrestURL,
		"founded_on": t.FoundedOn,
	}
}

func (r *contractRecord) toModel() *model.Contract {
	return &model.Contract{
		ID:        r.ID,
		PlayerID:  r.PlayerID,
		TeamID:    r.TeamID,
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
		Salary:    r.Salary,
		Clauses:   r.Clauses,
		Version:   r.Version,
		CreatedOn: r.CreatedOn.UTC(),
		UpdatedOn: r.UpdatedOn.UTC(),
	}
}

// contractValues never includes created_on
func contractValues(c *model.Contract) map[string]interface{} {
	return map[string]interface{}{
		"player_id":  c.PlayerID,
		"team_id":    c.TeamID,
		"start_date": c.StartDate,
		"end_date":   c.EndDate,
		"salary":     c.Salary,
		"clauses":    c.Clauses,
	}
}
