package sqlstore

import (
	"context"

	"github.com/forgo/roster/internal/model"
	"gorm.io/gorm/clause"
)

// ContractRepository handles contract rows
type ContractRepository struct {
	store *Store
}

// Create inserts a contract at version 1. CreatedOn is written here only.
func (r *ContractRepository) Create(ctx context.Context, c *model.Contract) error {
	now := r.store.now()
	rec := &contractRecord{
		ID:        newID(),
		PlayerID:  c.PlayerID,
		TeamID:    c.TeamID,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Salary:    c.Salary,
		Clauses:   c.Clauses,
		Version:   1,
		CreatedOn: createdOn(c.CreatedOn, now),
		UpdatedOn: now,
	}
	if err := r.store.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return r.store.missingLink(ctx, translate(err), contractLinks(c)...)
	}
	*c = *rec.toModel()
	return nil
}

// GetByID retrieves a contract by ID
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	var rec contractRecord
	found, err := take(ctx, r.store.db, &rec, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns every contract ordered by start date
func (r *ContractRepository) List(ctx context.Context) ([]*model.Contract, error) {
	return r.find(ctx, "")
}

// ListByPlayer returns the contracts held by a player
func (r *ContractRepository) ListByPlayer(ctx context.Context, playerID string) ([]*model.Contract, error) {
	return r.find(ctx, "player_id = ?", playerID)
}

// ListByTeam returns the contracts issued by a team
func (r *ContractRepository) ListByTeam(ctx context.Context, teamID string) ([]*model.Contract, error) {
	return r.find(ctx, "team_id = ?", teamID)
}

// CountByPlayer returns how many contracts reference a player
func (r *ContractRepository) CountByPlayer(ctx context.Context, playerID string) (int, error) {
	return r.count(ctx, "player_id = ?", playerID)
}

// CountByTeam returns how many contracts reference a team
func (r *ContractRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	return r.count(ctx, "team_id = ?", teamID)
}

// Update writes c if the stored version still equals expectedVersion
func (r *ContractRepository) Update(ctx context.Context, c *model.Contract, expectedVersion int) error {
	var rec contractRecord
	if err := r.store.versioned(ctx, &rec, c.ID, expectedVersion, contractValues(c)); err != nil {
		return r.store.missingLink(ctx, err, contractLinks(c)...)
	}
	*c = *rec.toModel()
	return nil
}

// Delete removes a contract
func (r *ContractRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.store.guardedDelete(ctx, &contractRecord{}, id, expectedVersion, "", "", "")
}

func contractLinks(c *model.Contract) []link {
	return []link{
		{field: "player_id", record: &playerRecord{}, id: &c.PlayerID},
		{field: "team_id", record: &teamRecord{}, id: &c.TeamID},
	}
}

func (r *ContractRepository) find(ctx context.Context, query string, args ...interface{}) ([]*model.Contract, error) {
	q := r.store.db.WithContext(ctx).Order("start_date DESC")
	if query != "" {
		q = q.Where(query, args...)
	}
	var recs []contractRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]*model.Contract, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

func (r *ContractRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int64
	if err := r.store.db.WithContext(ctx).Model(&contractRecord{}).Where(query, args...).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}
