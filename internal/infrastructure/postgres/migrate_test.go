package postgres

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationProvider_ListaLasMigracionesEmbebidas(t *testing.T) {
	// sql.Open no conecta: alcanza para que goose lea las fuentes.
	db, err := sql.Open("pgx", "postgres://localhost:1/none")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := newMigrationProvider(db)
	require.NoError(t, err)

	sources := provider.ListSources()
	require.NotEmpty(t, sources)
	assert.Equal(t, int64(1), sources[0].Version)
	assert.True(t, strings.HasSuffix(sources[0].Path, "001_init.sql"))
	for i := 1; i < len(sources); i++ {
		assert.Less(t, sources[i-1].Version, sources[i].Version)
	}
}

func TestInitMigration_DefinesSchema(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	sql := string(body)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	for _, table := range []string{"users", "categories", "products", "orders", "order_products"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.True(t, strings.Contains(sql, "ON DELETE CASCADE"))
	assert.Contains(t, sql, "NUMERIC(10, 2)")
}
