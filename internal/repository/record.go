package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/forgo/roster/internal/database"
)

// table holds the statements shared by every versioned record type
type table struct {
	db   database.Database
	name string
}

// referenceGuard refuses a delete while rows of table still link to the
// target through field
type referenceGuard struct {
	table    string
	field    string
	relation string
}

// exists reports whether the record is present
func (t table) exists(ctx context.Context, id string) (bool, error) {
	result, err := t.db.Query(ctx, `SELECT id FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		return false, err
	}
	return len(statementRows(result, 0)) > 0, nil
}

// count returns the number of records in the table
func (t table) count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count() AS count FROM %s GROUP ALL`, t.name)
	result, err := t.db.Query(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

// create inserts a record at version 1 and returns the stored row. A zero
// createdOn means now; imports may backdate it.
func (t table) create(ctx context.Context, sets *setClauses, createdOn time.Time) (map[string]interface{}, error) {
	sets.raw("version = 1")
	if createdOn.IsZero() {
		sets.raw("created_on = time::now()")
	} else {
		sets.set("created_on", createdOn)
	}
	sets.raw("updated_on = time::now()")

	query := fmt.Sprintf(`CREATE %s SET %s RETURN AFTER`, t.name, sets)
	result, err := t.write(ctx, query, sets)
	if err != nil {
		return nil, err
	}
	rows := statementRows(result, -1)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: create %s returned no record", database.ErrQuery, t.name)
	}
	return rows[0], nil
}

// write sends stmt on its own when it links nothing. Otherwise every linked
// record is rewritten in the same transaction first: an absent one aborts
// the write with database.ErrMissingReference, and a concurrent guarded
// delete of a present one conflicts with this transaction.
func (t table) write(ctx context.Context, stmt string, sets *setClauses) ([]interface{}, error) {
	if len(sets.links) == 0 {
		return t.db.Query(ctx, stmt, sets.vars)
	}

	tb := database.NewTxBuilder()
	for i, field := range sets.links {
		linked := fmt.Sprintf("$linked%d", i)
		tb.Add(fmt.Sprintf(
			`LET %s = (UPDATE type::record($ref) SET version = version RETURN VALUE id)`, linked,
		), map[string]interface{}{"ref": sets.vars[field]})
		tb.AddRaw(fmt.Sprintf(
			`IF array::len(%s) = 0 { THROW "%s%s" }`, linked, database.MissingReferenceMarker, field,
		))
	}
	tb.Add(stmt, sets.vars)
	return database.ExecuteTransaction(ctx, t.db, tb)
}

// update applies sets only if the stored version equals version, bumping it
// by one. Returns database.ErrVersionMismatch or database.ErrNotFound when
// nothing was written.
func (t table) update(ctx context.Context, id string, version int, sets *setClauses) (map[string]interface{}, error) {
	sets.raw("version += 1")
	sets.raw("updated_on = time::now()")
	sets.vars["id"] = id
	sets.vars["version"] = version

	query := fmt.Sprintf(`UPDATE type::record($id) SET %s WHERE version = $version RETURN AFTER`, sets)
	result, err := t.write(ctx, query, sets)
	rows, err := versionedWrite(result, err, func() (bool, error) { return t.exists(ctx, id) })
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// delete removes the record. A positive version makes the delete
// conditional on it. Guards run in the same transaction as the delete and
// abort it with database.ErrReferenced.
func (t table) delete(ctx context.Context, id string, version int, guards ...referenceGuard) error {
	tb := database.NewTxBuilder()
	for i, g := range guards {
		refs := fmt.Sprintf("$refs%d", i)
		tb.Add(fmt.Sprintf(
			`LET %s = (SELECT count() AS count FROM %s WHERE %s = type::record($id) GROUP ALL)[0].count ?? 0`,
			refs, g.table, g.field,
		), map[string]interface{}{"id": id})
		tb.AddRaw(fmt.Sprintf(
			`IF %s > 0 { THROW "%s%s:" + <string>%s }`,
			refs, database.ReferencedMarker, g.relation, refs,
		))
	}

	vars := map[string]interface{}{"id": id}
	stmt := `DELETE type::record($id) RETURN BEFORE`
	if version > 0 {
		stmt = `DELETE type::record($id) WHERE version = $version RETURN BEFORE`
		vars["version"] = version
	}
	tb.Add(stmt, vars)

	result, err := database.ExecuteTransaction(ctx, t.db, tb)
	_, err = versionedWrite(result, err, func() (bool, error) { return t.exists(ctx, id) })
	return err
}
