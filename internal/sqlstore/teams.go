package sqlstore

import (
	"context"

	"github.com/forgo/roster/internal/model"
)

// TeamRepository handles team rows
type TeamRepository struct {
	store *Store
}

// Create inserts a team at version 1
func (r *TeamRepository) Create(ctx context.Context, t *model.Team) error {
	now := r.store.now()
	rec := &teamRecord{
		ID:        newID(),
		Name:      t.Name,
		Locality:  t.Locality,
		Stadium:   t.Stadium,
		CrestURL:  t.CrestURL,
		FoundedOn: t.FoundedOn,
		Version:   1,
		CreatedOn: createdOn(t.CreatedOn, now),
		UpdatedOn: now,
	}
	if err := r.store.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err)
	}
	*t = *rec.toModel()
	return nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*model.Team, error) {
	var rec teamRecord
	found, err := take(ctx, r.store.db, &rec, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]*model.Team, error) {
	var recs []teamRecord
	if err := r.store.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]*model.Team, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

// Count returns the number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.store.db.WithContext(ctx).Model(&teamRecord{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// Update writes t if the stored version still equals expectedVersion
func (r *TeamRepository) Update(ctx context.Context, t *model.Team, expectedVersion int) error {
	var rec teamRecord
	if err := r.store.versioned(ctx, &rec, t.ID, expectedVersion, teamValues(t)); err != nil {
		return err
	}
	*t = *rec.toModel()
	return nil
}

// Delete removes a team that no contract references
func (r *TeamRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.store.guardedDelete(ctx, &teamRecord{}, id, expectedVersion, "contracts", "team_id", "contracts")
}
