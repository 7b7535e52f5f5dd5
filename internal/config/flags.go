package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// FlagNames lists the short flags bound by BindFlags.
var FlagNames = []string{"-d", "-l", "-b", "-k", "-m"}

// BoolFlagNames lists the boolean flags among FlagNames. Their value may be
// given as "-m=false" or "-m false".
var BoolFlagNames = []string{"-m"}

// BindFlags registers the config flags on fs with config's current values
// as defaults.
//
//	-d string   database DSN
//	-l string   log level
//	-b string   log backend (slog, zap)
//	-k int      bcrypt cost
//	-m bool     run migrations on startup (-m=false or -m false to skip)
func BindFlags(fs *flag.FlagSet, config *Config) {
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogBackend, "b", config.LogBackend, "log backend (slog, zap)")
	fs.IntVar(&config.PasswordHashCost, "k", config.PasswordHashCost, "bcrypt cost")
	fs.BoolVar(&config.RunMigrations, "m", config.RunMigrations, "run migrations on startup (-m=false to skip)")
}

// parseFlags populates config from the flags listed in FlagNames, ignoring
// every other argument.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(flagx.JoinBoolValues(os.Args[1:], BoolFlagNames), FlagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	BindFlags(fs, config)

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
