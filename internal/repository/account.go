package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
)

// AccountRepository handles account data access
type AccountRepository struct {
	db    database.Database
	table table
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db database.Database) *AccountRepository {
	return &AccountRepository{db: db, table: table{db: db, name: "account"}}
}

func accountSets(a *model.Account) *setClauses {
	sets := newSetClauses()
	sets.set("full_name", a.FullName)
	sets.set("roles", a.RoleStrings())
	return sets
}

// Create creates a new account at version 1. Emails are unique.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	sets := accountSets(a)
	sets.set("email", strings.ToLower(a.Email))
	sets.set("password_hash", a.PasswordHash)

	row, err := r.table.create(ctx, sets, a.CreatedOn)
	if err != nil {
		return wrapDuplicate(err, "email already exists")
	}
	return fillAccount(row, a)
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	ref, ok := recordRef("account", id)
	if !ok {
		return nil, nil
	}
	return r.first(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": ref})
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	vars := map[string]interface{}{"email": strings.ToLower(strings.TrimSpace(email))}
	return r.first(ctx, `SELECT * FROM account WHERE email = $email LIMIT 1`, vars)
}

// List returns all accounts ordered by email
func (r *AccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM account ORDER BY email ASC`, nil)
	if err != nil {
		return nil, err
	}
	rows := statementRows(result, 0)
	out := make([]*model.Account, 0, len(rows))
	for _, row := range rows {
		account, err := parseAccount(row)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, nil
}

// Count returns the number of accounts
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

// Update writes the name and roles of a if the stored version still equals
// expectedVersion. Email and password are not changed here.
func (r *AccountRepository) Update(ctx context.Context, a *model.Account, expectedVersion int) error {
	row, err := r.table.update(ctx, a.ID, expectedVersion, accountSets(a))
	if err != nil {
		return err
	}
	return fillAccount(row, a)
}

// Delete removes an account no player is linked to
func (r *AccountRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	return r.table.delete(ctx, id, expectedVersion, referenceGuard{
		table:    "player",
		field:    "account_id",
		relation: "players",
	})
}

func (r *AccountRepository) first(ctx context.Context, query string, vars map[string]interface{}) (*model.Account, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	rows := statementRows(result, 0)
	if len(rows) == 0 {
		return nil, nil
	}
	return parseAccount(rows[0])
}

func fillAccount(row map[string]interface{}, a *model.Account) error {
	stored, err := parseAccount(row)
	if err != nil {
		return fmt.Errorf("decoding account: %w", err)
	}
	*a = *stored
	return nil
}

// parseAccount decodes an account row. The password hash is read by hand
// because the model never serializes it.
func parseAccount(row map[string]interface{}) (*model.Account, error) {
	account, err := decodeRecord[model.Account](row)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = getString(row, "password_hash")
	account.Roles = model.ParseRoles(getStringSlice(row, "roles"))
	return account, nil
}
