package main

import (
	"uilibs/internal/config"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	config.LoadEnvFiles()
}

func migrationsDir() string {
	return config.GetEnv("MIGRATIONS_DIR", "db/migrations")
}
