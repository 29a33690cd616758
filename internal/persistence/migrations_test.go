package persistence

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-dashboard/internal/config"
)

func TestEmbeddedMigrationsCreateDocumentsTable(t *testing.T) {
	content, err := fs.ReadFile(migrationFiles, migrationsDir+"/001_documents.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "CREATE TABLE IF NOT EXISTS documents"))
	assert.True(t, strings.Contains(string(content), "PRIMARY KEY (collection, id)"))
}

func TestMigrationNamesAreOrderedSQLFiles(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_documents.sql", names[0])
	assert.IsIncreasing(t, names)
}

func TestRunMigrationsWithoutPoolIsNoop(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestOptionalConnectionsStayNil(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	assert.Nil(t, r.Client)
	assert.False(t, r.Enabled())
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}
