package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "status").From("rounds").
		Where(
			Eq("season_id", "s1"),
			In("status", []any{"DRAFT", "PUBLISHED"}),
			IsNull("deleted_at"),
		).
		OrderBy("number", "id").
		Limit(10).
		ToSQL()

	require.NoError(t, err)
	require.Equal(t,
		"SELECT id, status FROM rounds WHERE season_id = $1 AND status IN ($2, $3) AND deleted_at IS NULL ORDER BY number, id LIMIT 10",
		query)
	require.Equal(t, []any{"s1", "DRAFT", "PUBLISHED"}, args)
}

func TestSelectBuilder_EmptyIn(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("matches").
		Where(In("id", nil)).
		ToSQL()

	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM matches WHERE 1=0", query)
	require.Empty(t, args)
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ID     string `db:"id"`
		Points int    `db:"points"`
		Skip   string `db:"-"`
	}

	query, args, err := InsertModel("league_round_results", row{ID: "x", Points: 7}, "ON CONFLICT (id) DO NOTHING")
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO league_round_results (id, points) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING", query)
	require.Equal(t, []any{"x", 7}, args)
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("rounds").
		Set("status", "PUBLISHED").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "r1")).
		ToSQL()

	require.NoError(t, err)
	require.Equal(t, "UPDATE rounds SET status = $1, updated_at = NOW() WHERE id = $2", query)
	require.Equal(t, []any{"PUBLISHED", "r1"}, args)
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	t.Parallel()

	_, _, err := DeleteFrom("winnings").ToSQL()
	require.Error(t, err)

	query, args, err := DeleteFrom("winnings").
		Where(Eq("league_id", "l1"), Eq("category", "ROUND")).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "DELETE FROM winnings WHERE league_id = $1 AND category = $2", query)
	require.Equal(t, []any{"l1", "ROUND"}, args)
}
