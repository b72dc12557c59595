package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func versions(ms []migration) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Version)
	}
	return out
}

func TestLoadMigrationsSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o755))

	ms, err := loadMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a", "0002_b"}, versions(ms))
	assert.Equal(t, filepath.Join(dir, "0001_a.sql"), ms[0].Path)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	ms, err := loadMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init", "0002_recalculate_batch_deductions"}, versions(ms))
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	_, err := loadMigrations(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
