package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// JsonConfig is the on-disk shape of the JSON config file. Pointer fields
// distinguish "absent" from a zero value, so a partial file only touches
// the keys it names.
type JsonConfig struct {
	DatabaseDSN      *string `json:"database_dsn"`
	LogBackend       *string `json:"log_backend"`
	LogLevel         *string `json:"log_level"`
	PasswordHashCost *int    `json:"hash_cost"`
	RunMigrations    *bool   `json:"migrate"`
}

// parseJson overlays values from the file named by -c / -config onto
// config. Without the flag nothing happens. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.LogBackend != nil {
		config.LogBackend = *c.LogBackend
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}
}
