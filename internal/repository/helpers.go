package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/roster/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already contains")
}

// extractRecordID extracts record ID from SurrealDB result
func extractRecordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		// Handle {"tb": "table", "id": "xxx"} format
		if tb, ok := v["tb"].(string); ok {
			if id, ok := v["id"].(string); ok {
				return tb + ":" + id
			}
		}
	}
	return ""
}

// normalizeValue converts SurrealDB driver types into plain JSON-friendly
// values. Record links become "table:id" strings and datetimes become
// time.Time. Anything else the driver decodes to a non-basic type (NONE,
// durations, geometries) is dropped.
func normalizeValue(v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int64, uint64, time.Time:
		return t, true
	case models.RecordID, *models.RecordID:
		id := extractRecordID(t)
		return id, id != ""
	case models.CustomDateTime:
		return t.Time, true
	case *models.CustomDateTime:
		if t == nil {
			return nil, true
		}
		return t.Time, true
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			if n, ok := normalizeValue(item); ok {
				out = append(out, n)
			}
		}
		return out, true
	case map[string]interface{}:
		return normalizeRecord(t), true
	}
	return nil, false
}

// normalizeRecord returns a copy of m with every value normalized
func normalizeRecord(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if n, ok := normalizeValue(v); ok {
			out[k] = n
		}
	}
	return out
}

// statementRows returns the records produced by statement idx of a Query
// response. A negative idx counts from the end.
func statementRows(result []interface{}, idx int) []map[string]interface{} {
	if idx < 0 {
		idx += len(result)
	}
	if idx < 0 || idx >= len(result) {
		return nil
	}

	var raw interface{} = result[idx]
	if resp, ok := raw.(map[string]interface{}); ok {
		if _, wrapped := resp["status"]; wrapped {
			raw = resp["result"]
		}
	}

	var rows []map[string]interface{}
	switch r := raw.(type) {
	case []interface{}:
		for _, item := range r {
			if m, ok := item.(map[string]interface{}); ok {
				rows = append(rows, normalizeRecord(m))
			}
		}
	case map[string]interface{}:
		rows = append(rows, normalizeRecord(r))
	}
	return rows
}

// decodeRecord maps a normalized record onto a model struct through its
// JSON tags
func decodeRecord[T any](row map[string]interface{}) (*T, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &out, nil
}

// decodeRows decodes every row of statement idx
func decodeRows[T any](result []interface{}, idx int) ([]*T, error) {
	rows := statementRows(result, idx)
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeRecord[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeFirst decodes the first row of statement idx, or returns nil when
// the statement produced none
func decodeFirst[T any](result []interface{}, idx int) (*T, error) {
	rows := statementRows(result, idx)
	if len(rows) == 0 {
		return nil, nil
	}
	return decodeRecord[T](rows[0])
}

// extractCount extracts count from SurrealDB count query result
func extractCount(result []interface{}) int {
	rows := statementRows(result, 0)
	if len(rows) == 0 {
		return 0
	}
	return extractCountValue(rows[0]["count"])
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	if v, ok := m[key].([]interface{}); ok {
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

// versionedWrite runs a version-checked UPDATE or DELETE. When the statement
// touched nothing it tells a vanished record apart from a stale version.
func versionedWrite(result []interface{}, err error, exists func() (bool, error)) ([]map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	rows := statementRows(result, -1)
	if len(rows) > 0 {
		return rows, nil
	}

	found, err := exists()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, database.ErrNotFound
	}
	return nil, database.ErrVersionMismatch
}

// optional returns the pointed-to value or nil, so unset fields are written
// as NONE instead of an empty value
func optional[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// wrapDuplicate maps unique index violations onto database.ErrDuplicate
func wrapDuplicate(err error, what string) error {
	if err == nil {
		return nil
	}
	if isUniqueConstraintError(err) && !errors.Is(err, database.ErrReferenced) {
		return fmt.Errorf("%w: %s", database.ErrDuplicate, what)
	}
	return err
}

// recordRef normalizes an id for table: bare keys get the table prefix and
// ids belonging to another table are rejected
func recordRef(table, id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	prefix := table + ":"
	if strings.HasPrefix(id, prefix) {
		return id, len(id) > len(prefix)
	}
	if strings.Contains(id, ":") {
		return "", false
	}
	return prefix + id, true
}

// setClauses accumulates the SET list of a CREATE or UPDATE statement
type setClauses struct {
	parts []string
	vars  map[string]interface{}
	links []string // fields assigned a record link
}

func newSetClauses() *setClauses {
	return &setClauses{vars: make(map[string]interface{})}
}

// set assigns a value
func (s *setClauses) set(field string, v interface{}) {
	s.parts = append(s.parts, field+" = $"+field)
	s.vars[field] = v
}

// setOptional assigns v, or removes the field when v is nil
func (s *setClauses) setOptional(field string, v interface{}) {
	if v == nil {
		s.parts = append(s.parts, field+" = NONE")
		return
	}
	s.set(field, v)
}

// link assigns a record link, or removes the field when id is nil
func (s *setClauses) link(field string, id *string) {
	if id == nil || *id == "" {
		s.parts = append(s.parts, field+" = NONE")
		return
	}
	s.parts = append(s.parts, field+" = type::record($"+field+")")
	s.vars[field] = *id
	s.links = append(s.links, field)
}

// raw appends a literal assignment
func (s *setClauses) raw(clause string) {
	s.parts = append(s.parts, clause)
}

func (s *setClauses) String() string {
	return strings.Join(s.parts, ", ")
}
