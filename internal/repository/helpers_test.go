package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// scriptedDB answers queries from a list of canned responses and records
// what was sent
type scriptedDB struct {
	database.Database
	responses []scriptedResponse
	queries   []string
	vars      []map[string]interface{}
}

type scriptedResponse struct {
	result []interface{}
	err    error
}

func (s *scriptedDB) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	s.queries = append(s.queries, query)
	s.vars = append(s.vars, vars)
	if len(s.responses) == 0 {
		return nil, errors.New("unexpected query")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next.result, next.err
}

func ok(rows ...map[string]interface{}) scriptedResponse {
	result := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		result = append(result, r)
	}
	return scriptedResponse{result: []interface{}{map[string]interface{}{"status": "OK", "result": result}}}
}

func TestNormalizeRecord(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	rec := normalizeRecord(map[string]interface{}{
		"id":         models.RecordID{Table: "contract", ID: "c1"},
		"player_id":  &models.RecordID{Table: "player", ID: "p1"},
		"start_date": models.CustomDateTime{Time: when},
		"salary":     float64(1200),
		"tags":       []interface{}{"a", struct{}{}},
		"odd":        struct{}{},
	})

	assert.Equal(t, "contract:c1", rec["id"])
	assert.Equal(t, "player:p1", rec["player_id"])
	assert.Equal(t, when, rec["start_date"])
	assert.Equal(t, float64(1200), rec["salary"])
	assert.Equal(t, []interface{}{"a"}, rec["tags"])
	assert.NotContains(t, rec, "odd")
}

func TestStatementRows_NegativeIndex(t *testing.T) {
	t.Parallel()

	result := []interface{}{
		map[string]interface{}{"status": "OK", "result": nil},
		map[string]interface{}{"status": "OK", "result": []interface{}{map[string]interface{}{"id": "team:1"}}},
	}

	assert.Empty(t, statementRows(result, 0))
	rows := statementRows(result, -1)
	require.Len(t, rows, 1)
	assert.Equal(t, "team:1", rows[0]["id"])
	assert.Nil(t, statementRows(result, 5))
}

func TestDecodeFirst_Contract(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	res := ok(map[string]interface{}{
		"id":         models.RecordID{Table: "contract", ID: "c1"},
		"player_id":  models.RecordID{Table: "player", ID: "p1"},
		"team_id":    models.RecordID{Table: "team", ID: "t1"},
		"start_date": models.CustomDateTime{Time: start},
		"end_date":   models.CustomDateTime{Time: start.AddDate(2, 0, 0)},
		"salary":     float64(7500),
		"version":    uint64(3),
	})

	c, err := decodeFirst[model.Contract](res.result, 0)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "contract:c1", c.ID)
	assert.Equal(t, "player:p1", c.PlayerID)
	assert.Equal(t, "team:t1", c.TeamID)
	assert.True(t, c.StartDate.Equal(start))
	require.NotNil(t, c.Salary)
	assert.Equal(t, 7500.0, *c.Salary)
	assert.Nil(t, c.Clauses)
	assert.Equal(t, 3, c.Version)

	none, err := decodeFirst[model.Contract](ok().result, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRecordRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
		ok   bool
	}{
		{"player:abc", "player:abc", true},
		{"abc", "player:abc", true},
		{" abc ", "player:abc", true},
		{"team:abc", "", false},
		{"player:", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := recordRef("player", tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.id)
		}
	}
}

func TestSetClauses(t *testing.T) {
	t.Parallel()

	account := "account:1"
	sets := newSetClauses()
	sets.set("name", "Porto")
	sets.setOptional("stadium", nil)
	sets.link("account_id", &account)
	sets.link("other_id", nil)

	assert.Equal(t, "name = $name, stadium = NONE, account_id = type::record($account_id), other_id = NONE", sets.String())
	assert.Equal(t, map[string]interface{}{"name": "Porto", "account_id": "account:1"}, sets.vars)
}

func TestTableUpdate_VersionMismatch(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		// Nothing updated, but the record exists
		ok(),
		ok(map[string]interface{}{"id": "team:1"}),
	}}
	tbl := table{db: db, name: "team"}

	sets := newSetClauses()
	sets.set("name", "Benfica")
	_, err := tbl.update(context.Background(), "team:1", 2, sets)

	assert.True(t, errors.Is(err, database.ErrVersionMismatch))
	assert.Contains(t, db.queries[0], "WHERE version = $version")
	assert.Contains(t, db.queries[0], "version += 1")
	assert.Equal(t, 2, db.vars[0]["version"])
}

func TestTableUpdate_NotFound(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{ok(), ok()}}
	tbl := table{db: db, name: "team"}

	_, err := tbl.update(context.Background(), "team:9", 1, newSetClauses())
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestTableUpdate_Success(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		ok(map[string]interface{}{"id": "team:1", "version": float64(3)}),
	}}
	tbl := table{db: db, name: "team"}

	row, err := tbl.update(context.Background(), "team:1", 2, newSetClauses())
	require.NoError(t, err)
	assert.Equal(t, float64(3), row["version"])
	assert.Len(t, db.queries, 1)
}

func TestTableDelete_GuardedTransaction(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		ok(map[string]interface{}{"id": "player:1"}),
	}}
	tbl := table{db: db, name: "player"}

	err := tbl.delete(context.Background(), "player:1", 4, referenceGuard{table: "contract", field: "player_id", relation: "contracts"})
	require.NoError(t, err)

	q := db.queries[0]
	assert.True(t, strings.HasPrefix(q, "BEGIN TRANSACTION;"))
	assert.Contains(t, q, "FROM contract WHERE player_id = type::record(")
	assert.Contains(t, q, `THROW "referenced:contracts:"`)
	assert.Contains(t, q, "WHERE version = $")
}

func TestTableDelete_ReferencedPropagates(t *testing.T) {
	t.Parallel()

	refErr := errors.Join(database.ErrReferenced, errors.New("contracts:2"))
	db := &scriptedDB{responses: []scriptedResponse{{err: refErr}}}
	tbl := table{db: db, name: "team"}

	err := tbl.delete(context.Background(), "team:1", 0, referenceGuard{table: "contract", field: "team_id", relation: "contracts"})
	assert.True(t, errors.Is(err, database.ErrReferenced))
	assert.NotContains(t, db.queries[0], "WHERE version")
}

func TestContractRepository_CreateGuardsLinks(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	db := &scriptedDB{responses: []scriptedResponse{
		ok(map[string]interface{}{
			"id":         models.RecordID{Table: "contract", ID: "c9"},
			"player_id":  models.RecordID{Table: "player", ID: "p1"},
			"team_id":    models.RecordID{Table: "team", ID: "t1"},
			"start_date": models.CustomDateTime{Time: start},
			"end_date":   models.CustomDateTime{Time: start.AddDate(1, 0, 0)},
			"version":    uint64(1),
		}),
	}}

	c := &model.Contract{PlayerID: "player:p1", TeamID: "team:t1", StartDate: start, EndDate: start.AddDate(1, 0, 0)}
	require.NoError(t, NewContractRepository(db).Create(context.Background(), c))
	assert.Equal(t, "contract:c9", c.ID)

	require.Len(t, db.queries, 1)
	q := db.queries[0]
	assert.True(t, strings.HasPrefix(q, "BEGIN TRANSACTION;"))
	assert.Contains(t, q, `THROW "missing-reference:player_id"`)
	assert.Contains(t, q, `THROW "missing-reference:team_id"`)
	assert.Contains(t, q, "SET version = version RETURN VALUE id")
	assert.Less(t, strings.Index(q, "missing-reference:team_id"), strings.Index(q, "CREATE contract SET"))

	var refs []interface{}
	for name, v := range db.vars[0] {
		if strings.HasSuffix(name, "_ref") {
			refs = append(refs, v)
		}
	}
	assert.ElementsMatch(t, []interface{}{"player:p1", "team:t1"}, refs)
}

func TestContractRepository_UpdateMissingLinkPropagates(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		{err: &database.MissingReferenceError{Field: "team_id"}},
	}}

	c := &model.Contract{ID: "contract:c1", PlayerID: "player:p1", TeamID: "team:gone"}
	err := NewContractRepository(db).Update(context.Background(), c, 2)

	var missing *database.MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "team_id", missing.Field)
	assert.Contains(t, db.queries[0], "WHERE version = $")
}

func TestTeamRepository_CreateWithoutLinksSkipsTransaction(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		ok(map[string]interface{}{"id": models.RecordID{Table: "team", ID: "t1"}, "name": "Gil Vicente", "version": uint64(1)}),
	}}

	team := &model.Team{Name: "Gil Vicente", FoundedOn: time.Date(1924, time.May, 3, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, NewTeamRepository(db).Create(context.Background(), team))

	assert.Equal(t, "team:t1", team.ID)
	assert.False(t, strings.HasPrefix(db.queries[0], "BEGIN"))
}

func TestAccountRepository_GetByEmail_ReadsHash(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		ok(map[string]interface{}{
			"id":            models.RecordID{Table: "account", ID: "a1"},
			"email":         "admin@roster.local",
			"full_name":     "Admin",
			"password_hash": "$2a$12$hash",
			"roles":         []interface{}{"admin", "bogus"},
		}),
	}}

	account, err := NewAccountRepository(db).GetByEmail(context.Background(), " Admin@Roster.local ")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "account:a1", account.ID)
	assert.Equal(t, "$2a$12$hash", account.PasswordHash)
	assert.Equal(t, []model.Role{model.RoleAdmin}, account.Roles)
	assert.Equal(t, "admin@roster.local", db.vars[0]["email"])
}

func TestAccountRepository_Create_Versioned(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		ok(map[string]interface{}{
			"id":            models.RecordID{Table: "account", ID: "a2"},
			"email":         "rui@roster.local",
			"full_name":     "Rui",
			"password_hash": "$2a$12$hash",
			"roles":         []interface{}{"staff"},
			"version":       float64(1),
		}),
	}}

	a := &model.Account{Email: "Rui@Roster.local", FullName: "Rui", PasswordHash: "$2a$12$hash", Roles: []model.Role{model.RoleStaff}}
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), a))

	assert.Equal(t, "account:a2", a.ID)
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, "$2a$12$hash", a.PasswordHash)
	assert.Contains(t, db.queries[0], "CREATE account SET")
	assert.Contains(t, db.queries[0], "version = 1")
	assert.Equal(t, "rui@roster.local", db.vars[0]["email"])
	assert.Equal(t, []string{"staff"}, db.vars[0]["roles"])
}

func TestAccountRepository_Delete_GuardsLinkedPlayer(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{responses: []scriptedResponse{
		{err: fmt.Errorf("%w: players:1", database.ErrReferenced)},
	}}

	err := NewAccountRepository(db).Delete(context.Background(), "account:a1", 2)
	assert.ErrorIs(t, err, database.ErrReferenced)
	assert.Contains(t, db.queries[0], "FROM player WHERE account_id = type::record($id)")
	assert.Contains(t, db.queries[0], database.ReferencedMarker+"players:")
}

func TestPlayerRepository_GetByID_ForeignTable(t *testing.T) {
	t.Parallel()

	db := &scriptedDB{}
	p, err := NewPlayerRepository(db).GetByID(context.Background(), "team:1")

	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, db.queries)
}
