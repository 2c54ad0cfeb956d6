package repository

import (
	"context"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db    database.Database
	table table
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db database.Database) *TeamRepository {
	return &TeamRepository{db: db, table: table{db: db, name: "team"}}
}

func teamSets(t *model.Team) *setClauses {
	sets := newSetClauses()
	sets.set("name", t.Name)
	sets.setOptional("locality", optional(t.Locality))
	sets.setOptional("stadium", optional(t.Stadium))
	sets.setOptional("crest_url", optional(t.CrestURL))
	sets.set("founded_on", t.FoundedOn)
	return sets
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, t *model.Team) error {
	row, err := r.table.create(ctx, teamSets(t), t.CreatedOn)
	if err != nil {
		return err
	}
	stored, err := decodeRecord[model.Team](row)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*model.Team, error) {
	ref, ok := recordRef("team", id)
	if !ok {
		return nil, nil
	}

	result, err := r.db.Query(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": ref})
	if err != nil {
		return nil, err
	}
	return decodeFirst[model.Team](result, 0)
}

// List returns all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]*model.Team, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM team ORDER BY name ASC`, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[model.Team](result, 0)
}

// Count returns the number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

// Update writes t if the stored version still equals expectedVersion
func (r *TeamRepository) Update(ctx context.Context, t *model.Team, expectedVersion int) error {
	row, err := r.table.update(ctx, t.ID, expectedVersion, teamSets(t))
	if err != nil {
		return err
	}
	stored, err := decodeRecord[model.Team](row)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// Delete removes a team that no contract references
func (r *TeamRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.table.delete(ctx, id, expectedVersion, referenceGuard{
		table:    "contract",
		field:    "team_id",
		relation: "contracts",
	})
}
