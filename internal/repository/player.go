package repository

import (
	"context"
	"fmt"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db    database.Database
	table table
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db database.Database) *PlayerRepository {
	return &PlayerRepository{db: db, table: table{db: db, name: "player"}}
}

func playerSets(p *model.Player) *setClauses {
	sets := newSetClauses()
	sets.set("name", p.Name)
	sets.set("email", p.Email)
	sets.set("birth_date", p.BirthDate)
	sets.setOptional("nationality", optional(p.Nationality))
	sets.setOptional("position", optional(p.Position))
	sets.setOptional("photo_url", optional(p.PhotoURL))
	sets.link("account_id", p.AccountID)
	return sets
}

// Create creates a new player
func (r *PlayerRepository) Create(ctx context.Context, p *model.Player) error {
	row, err := r.table.create(ctx, playerSets(p), p.CreatedOn)
	if err != nil {
		return wrapDuplicate(err, "player")
	}
	return r.fill(row, p)
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*model.Player, error) {
	ref, ok := recordRef("player", id)
	if !ok {
		return nil, nil
	}

	result, err := r.db.Query(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": ref})
	if err != nil {
		return nil, err
	}
	return decodeFirst[model.Player](result, 0)
}

// GetByAccountID retrieves the player linked to an account
func (r *PlayerRepository) GetByAccountID(ctx context.Context, accountID string) (*model.Player, error) {
	ref, ok := recordRef("account", accountID)
	if !ok {
		return nil, nil
	}

	query := `SELECT * FROM player WHERE account_id = type::record($account_id) LIMIT 1`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"account_id": ref})
	if err != nil {
		return nil, err
	}
	return decodeFirst[model.Player](result, 0)
}

// List returns all players ordered by name
func (r *PlayerRepository) List(ctx context.Context) ([]*model.Player, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM player ORDER BY name ASC`, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[model.Player](result, 0)
}

// Count returns the number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

// Update writes p if the stored version still equals expectedVersion
func (r *PlayerRepository) Update(ctx context.Context, p *model.Player, expectedVersion int) error {
	row, err := r.table.update(ctx, p.ID, expectedVersion, playerSets(p))
	if err != nil {
		return wrapDuplicate(err, "player")
	}
	return r.fill(row, p)
}

// Delete removes a player that no contract references
func (r *PlayerRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.table.delete(ctx, id, expectedVersion, referenceGuard{
		table:    "contract",
		field:    "player_id",
		relation: "contracts",
	})
}

func (r *PlayerRepository) fill(row map[string]interface{}, p *model.Player) error {
	stored, err := decodeRecord[model.Player](row)
	if err != nil {
		return fmt.Errorf("decoding player: %w", err)
	}
	*p = *stored
	return nil
}
