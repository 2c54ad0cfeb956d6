package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementError_PrefersSpecificFailure(t *testing.T) {
	t.Parallel()

	err := statementError([]string{
		"The query was not executed due to a failed transaction",
		"An error occurred: referenced:contracts:3",
		"The query was not executed due to a failed transaction",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenced))
	assert.Contains(t, err.Error(), "contracts:3")
}

func TestStatementError_MissingReference(t *testing.T) {
	t.Parallel()

	err := statementError([]string{
		"The query was not executed due to a failed transaction",
		"An error occurred: missing-reference:team_id",
	})

	var missing *MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "team_id", missing.Field)
	assert.True(t, errors.Is(err, ErrMissingReference))
	assert.False(t, errors.Is(err, ErrReferenced))
}

func TestStatementError_DefaultsToQueryError(t *testing.T) {
	t.Parallel()

	err := statementError([]string{"Parse error: unexpected token"})

	assert.True(t, errors.Is(err, ErrQuery))
	assert.False(t, errors.Is(err, ErrReferenced))
}

func TestTxBuilder_NamespacesLongestNameFirst(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	mapping := tb.Add("UPDATE $player SET p = $player_id", map[string]interface{}{
		"player":    "player:1",
		"player_id": "player:2",
	})
	tb.AddRaw("RETURN true")

	query, vars := tb.Build()

	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.Contains(t, query, "$"+mapping["player"]+" SET")
	assert.Contains(t, query, "= $"+mapping["player_id"])
	assert.Equal(t, "player:1", vars[mapping["player"]])
	assert.Equal(t, "player:2", vars[mapping["player_id"]])
	assert.Equal(t, 2, tb.Len())
}

func TestTxBuilder_EmptyBuild(t *testing.T) {
	t.Parallel()

	query, vars := NewTxBuilder().Build()
	assert.Empty(t, query)
	assert.Nil(t, vars)
}

type recordingDB struct {
	Database
	executed []string
	failOn   string
}

func (r *recordingDB) Execute(_ context.Context, query string, _ map[string]interface{}) error {
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return ErrQuery
	}
	r.executed = append(r.executed, query)
	return nil
}

func TestApplyMigrations_RunsInOrder(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"002_indexes.surql": {Data: []byte("DEFINE INDEX b;")},
		"001_schema.surql":  {Data: []byte("DEFINE TABLE a;")},
		"003_empty.surql":   {Data: []byte("  \n")},
		"README.md":         {Data: []byte("ignored")},
	}
	db := &recordingDB{}

	require.NoError(t, ApplyMigrations(context.Background(), db, fsys))
	assert.Equal(t, []string{"DEFINE TABLE a;", "DEFINE INDEX b;"}, db.executed)
}

func TestApplyMigrations_WrapsFailure(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"001_schema.surql": {Data: []byte("DEFINE broken;")}}
	err := ApplyMigrations(context.Background(), &recordingDB{failOn: "broken"}, fsys)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuery))
	assert.Contains(t, err.Error(), "001_schema.surql")
}
