package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/connectplus/connectplus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sqliteConfig(path string) config.Config {
	return config.Config{DBType: "sqlite", DBName: path}
}

func TestOpenCreatesFreshSqliteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	gdb, err := Open(Params{Cfg: sqliteConfig(path), Log: zap.NewNop()})
	require.NoError(t, err)

	require.NoError(t, gdb.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenQuarantinesCorruptSqliteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a sqlite database"), 0o644))

	gdb, err := Open(Params{Cfg: sqliteConfig(path), Log: zap.NewNop()})
	require.NoError(t, err, "a corrupt store must degrade to empty, not fail startup")

	// The store works again.
	require.NoError(t, gdb.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error)

	// The broken file was moved aside, not destroyed.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var quarantined bool
	for _, entry := range entries {
		if entry.Name() != "store.db" && filepath.Ext(entry.Name()) != "" {
			quarantined = true
		}
	}
	assert.True(t, quarantined, "expected a .corrupt-* backup next to the store")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open(Params{Cfg: config.Config{DBType: "oracle"}, Log: zap.NewNop()})
	assert.Error(t, err)
}

func TestQuarantineRefusesMemoryStore(t *testing.T) {
	assert.Error(t, quarantine(":memory:"))
	assert.Error(t, quarantine(""))
}
