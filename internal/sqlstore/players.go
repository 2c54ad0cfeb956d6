package sqlstore

import (
	"context"

	"github.com/forgo/roster/internal/model"
	"gorm.io/gorm/clause"
)

// PlayerRepository handles player rows
type PlayerRepository struct {
	store *Store
}

// Create inserts a player at version 1
func (r *PlayerRepository) Create(ctx context.Context, p *model.Player) error {
	now := r.store.now()
	rec := &playerRecord{
		ID:          newID(),
		Name:        p.Name,
		Email:       p.Email,
		BirthDate:   p.BirthDate,
		Nationality: p.Nationality,
		Position:    p.Position,
		PhotoURL:    p.PhotoURL,
		AccountID:   p.AccountID,
		Version:     1,
		CreatedOn:   createdOn(p.CreatedOn, now),
		UpdatedOn:   now,
	}
	if err := r.store.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return r.store.missingLink(ctx, translate(err), accountLink(p))
	}
	*p = *rec.toModel()
	return nil
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*model.Player, error) {
	var rec playerRecord
	found, err := take(ctx, r.store.db, &rec, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return rec.toModel(), nil
}

// GetByAccountID retrieves the player linked to an account
func (r *PlayerRepository) GetByAccountID(ctx context.Context, accountID string) (*model.Player, error) {
	var rec playerRecord
	found, err := take(ctx, r.store.db, &rec, "account_id = ?", accountID)
	if err != nil || !found {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns all players ordered by name
func (r *PlayerRepository) List(ctx context.Context) ([]*model.Player, error) {
	var recs []playerRecord
	if err := r.store.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]*model.Player, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

// Count returns the number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.store.db.WithContext(ctx).Model(&playerRecord{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// Update writes p if the stored version still equals expectedVersion
func (r *PlayerRepository) Update(ctx context.Context, p *model.Player, expectedVersion int) error {
	var rec playerRecord
	if err := r.store.versioned(ctx, &rec, p.ID, expectedVersion, playerValues(p)); err != nil {
		return r.store.missingLink(ctx, err, accountLink(p))
	}
	*p = *rec.toModel()
	return nil
}

// Delete removes a player that no contract references
func (r *PlayerRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.store.guardedDelete(ctx, &playerRecord{}, id, expectedVersion, "contracts", "player_id", "contracts")
}

func accountLink(p *model.Player) link {
	return link{field: "account_id", record: &accountRecord{}, id: p.AccountID}
}
