package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDir(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		assert.Equal(t, "db/migrations", migrationsDir())
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/srv/uilibs/migrations")
		assert.Equal(t, "/srv/uilibs/migrations", migrationsDir())
	})
}

func TestLoadEnvFiles_KeepsRuntimeEnv(t *testing.T) {
	tmp := t.TempDir()
	env := "DB_DSN=postgres://file/uilibs\nMIGRATIONS_DIR=from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte(env), 0o644))

	t.Setenv("DB_DSN", "postgres://runtime/uilibs")
	t.Setenv("MIGRATIONS_DIR", "")
	require.NoError(t, os.Unsetenv("MIGRATIONS_DIR"))
	t.Chdir(tmp)

	loadEnvFiles()

	assert.Equal(t, "postgres://runtime/uilibs", os.Getenv("DB_DSN"))
	assert.Equal(t, "from-file", migrationsDir())
}
