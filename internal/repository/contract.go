package repository

import (
	"context"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// ContractRepository handles contract data access. Player and team
// references are stored as record links.
type ContractRepository struct {
	db    database.Database
	table table
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db database.Database) *ContractRepository {
	return &ContractRepository{db: db, table: table{db: db, name: "contract"}}
}

// contractSets never includes created_on, which is written once by create
func contractSets(c *model.Contract) *setClauses {
	sets := newSetClauses()
	sets.link("player_id", &c.PlayerID)
	sets.link("team_id", &c.TeamID)
	sets.set("start_date", c.StartDate)
	sets.set("end_date", c.EndDate)
	sets.setOptional("salary", optional(c.Salary))
	sets.setOptional("clauses", optional(c.Clauses))
	return sets
}

// Create creates a new contract
func (r *ContractRepository) Create(ctx context.Context, c *model.Contract) error {
	row, err := r.table.create(ctx, contractSets(c), c.CreatedOn)
	if err != nil {
		return err
	}
	return r.fill(row, c)
}

// GetByID retrieves a contract by ID
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	ref, ok := recordRef("contract", id)
	if !ok {
		return nil, nil
	}

	result, err := r.db.Query(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": ref})
	if err != nil {
		return nil, err
	}
	return decodeFirst[model.Contract](result, 0)
}

// List returns every contract ordered by start date
func (r *ContractRepository) List(ctx context.Context) ([]*model.Contract, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM contract ORDER BY start_date DESC`, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[model.Contract](result, 0)
}

// ListByPlayer returns the contracts held by a player
func (r *ContractRepository) ListByPlayer(ctx context.Context, playerID string) ([]*model.Contract, error) {
	return r.listBy(ctx, "player_id", "player", playerID)
}

// ListByTeam returns the contracts issued by a team
func (r *ContractRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Contract, error) {
	return r.listBy(ctx, "team_id", "team", teamID)
}

// CountByPlayer returns how many contracts reference a player
func (r *ContractRepository) CountByPlayer(ctx context.Context, playerID string) (int, error) {
	return r.countBy(ctx, "player_id", "player", playerID)
}

// CountByTeam returns how many contracts reference a team
func (r *ContractRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	return r.countBy(ctx, "team_id", "team", teamID)
}

// Update writes c if the stored version still equals expectedVersion
func (r *ContractRepository) Update(ctx context.Context, c *model.Contract, expectedVersion int) error {
	row, err := r.table.update(ctx, c.ID, expectedVersion, contractSets(c))
	if err != nil {
		return err
	}
	return r.fill(row, c)
}

// Delete removes a contract
func (r *ContractRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.table.delete(ctx, id, expectedVersion)
}

func (r *ContractRepository) listBy(ctx context.Context, field, refTable, id string) ([]*model.Contract, error) {
	ref, ok := recordRef(refTable, id)
	if !ok {
		return []*model.Contract{}, nil
	}

	query := `SELECT * FROM contract WHERE ` + field + ` = type::record($ref) ORDER BY start_date DESC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"ref": ref})
	if err != nil {
		return nil, err
	}
	return decodeRows[model.Contract](result, 0)
}

func (r *ContractRepository) countBy(ctx context.Context, field, refTable, id string) (int, error) {
	ref, ok := recordRef(refTable, id)
	if !ok {
		return 0, nil
	}

	query := `SELECT count() AS count FROM contract WHERE ` + field + ` = type::record($ref) GROUP ALL`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"ref": ref})
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

func (r *ContractRepository) fill(row map[string]interface{}, c *model.Contract) error {
	stored, err := decodeRecord[model.Contract](row)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}
