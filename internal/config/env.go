package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvDatabaseDSN   = "ACCOUNTS_DATABASE_DSN"
	EnvLogBackend    = "ACCOUNTS_LOG_BACKEND"
	EnvLogLevel      = "ACCOUNTS_LOG_LEVEL"
	EnvHashCost      = "ACCOUNTS_HASH_COST"
	EnvRunMigrations = "ACCOUNTS_MIGRATE"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and copies the
// ACCOUNTS_* variables into config. Variables already present in the
// environment win over the file.
//
// The file is the one named by -env-file, or ".env" in the working
// directory. A missing default file is ignored; a missing explicit file,
// or a malformed number or boolean, panics.
func parseEnv(config *Config) {
	envFile := flagx.EnvFileFlag()
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvLogBackend); ok {
		config.LogBackend = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvHashCost); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.PasswordHashCost = cost
	}
	if v, ok := os.LookupEnv(EnvRunMigrations); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.RunMigrations = b
	}
}
