package sqlstore

import (
	"context"
	"strings"

	"github.com/forgo/roster/internal/model"
)

// AccountRepository handles account rows
type AccountRepository struct {
	store *Store
}

// Create inserts an account at version 1. Emails are unique.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	now := r.store.now()
	rec := &accountRecord{
		ID:           newID(),
		Email:        strings.ToLower(a.Email),
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		Roles:        strings.Join(a.RoleStrings(), ","),
		Version:      1,
		CreatedOn:    createdOn(a.CreatedOn, now),
		UpdatedOn:    now,
	}
	if err := r.store.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translate(err)
	}
	*a = *rec.toModel()
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var rec accountRecord
	found, err := take(ctx, r.store.db, &rec, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return rec.toModel(), nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var rec accountRecord
	found, err := take(ctx, r.store.db, &rec, "email = ?", strings.ToLower(strings.TrimSpace(email)))
	if err != nil || !found {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns all accounts ordered by email
func (r *AccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	var recs []accountRecord
	if err := r.store.db.WithContext(ctx).Order("email ASC").Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]*model.Account, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

// Count returns the number of accounts
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.store.db.WithContext(ctx).Model(&accountRecord{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// Update writes the name and roles of a if the stored version still equals
// expectedVersion
func (r *AccountRepository) Update(ctx context.Context, a *model.Account, expectedVersion int) error {
	var rec accountRecord
	values := map[string]interface{}{
		"full_name": a.FullName,
		"roles":     strings.Join(a.RoleStrings(), ","),
	}
	if err := r.store.versioned(ctx, &rec, a.ID, expectedVersion, values); err != nil {
		return err
	}
	*a = *rec.toModel()
	return nil
}

// Delete removes an account no player is linked to
func (r *AccountRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.store.guardedDelete(ctx, &accountRecord{}, id, expectedVersion, "players", "account_id", "players")
}
