package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/jarvis-bot/internal/knowledge"
	"github.com/xaenox/jarvis-bot/internal/models"
)

func newTestSource(t *testing.T) *SQLSource {
	t.Helper()

	db, err := Open(DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	src := NewSQLSource(db, DriverSQLite, nil)
	require.NoError(t, src.Migrate(context.Background()))
	return src
}

func TestSQLSource_RoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t)

	base := knowledge.NewBase([]models.Category{
		{Name: "zeta", Conversations: []models.ConversationPair{
			{User: "hello", Bot: "hi there"},
			{User: "bye", Bot: ""},
		}},
		{Name: "alpha", Conversations: []models.ConversationPair{
			{User: "how are you", Bot: "fine"},
		}},
	})
	require.NoError(t, src.Replace(ctx, base))

	loaded, err := knowledge.Load(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, base.Categories(), loaded.Categories())
}

func TestSQLSource_ReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t)

	first := knowledge.NewBase([]models.Category{{Name: "a", Conversations: []models.ConversationPair{{User: "one", Bot: "1"}}}})
	second := knowledge.NewBase([]models.Category{{Name: "b", Conversations: []models.ConversationPair{{User: "two", Bot: "2"}}}})

	require.NoError(t, src.Replace(ctx, first))
	require.NoError(t, src.Replace(ctx, second))

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Categories(), 1)
	assert.Equal(t, "b", loaded.Categories()[0].Name)
}

func TestSQLSource_EmptyTable(t *testing.T) {
	loaded, err := newTestSource(t).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSQLSource_MissingTableIsLoadError(t *testing.T) {
	db, err := Open(DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	_, err = knowledge.Load(context.Background(), NewSQLSource(db, DriverSQLite, nil))
	var loadErr *knowledge.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", NewSQLSource(nil, DriverPostgres, nil).placeholder(3))
	assert.Equal(t, "?", NewSQLSource(nil, DriverSQLite, nil).placeholder(3))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(DatabaseConfig{Driver: DriverPostgres})
	assert.Error(t, err)

	_, err = Open(DatabaseConfig{Driver: DriverSQLite})
	assert.Error(t, err)
}
