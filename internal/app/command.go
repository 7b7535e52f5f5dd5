package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// Subcommands understood by accountctl.
const (
	CmdCreateUser      = "createuser"
	CmdCreateSuperuser = "createsuperuser"
	CmdCheck           = "check"
)

var ErrUsage = errors.New("usage: accountctl [flags] createuser|createsuperuser|check <email>")

// Command is a parsed accountctl invocation.
type Command struct {
	Name       string
	Email      string
	NoPassword bool
}

// ParseCommand parses the full argument list (without the program name).
// Config flags are accepted and skipped here, they are read by
// config.LoadConfig.
func ParseCommand(args []string, w io.Writer) (*Command, error) {
	cmd := &Command{}

	fs := flag.NewFlagSet("accountctl", flag.ContinueOnError)
	fs.SetOutput(w)
	config.BindFlags(fs, &config.Config{})
	fs.String("c", "", "JSON config file")
	fs.String("config", "", "JSON config file")
	fs.String("env-file", "", "dotenv file")
	fs.BoolVar(&cmd.NoPassword, "nopassword", false, "create the account with an unusable password")

	boolFlags := append([]string{"-nopassword", "--nopassword"}, config.BoolFlagNames...)
	if err := fs.Parse(flagx.JoinBoolValues(args, boolFlags)); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return nil, ErrUsage
	}
	cmd.Name, cmd.Email = rest[0], rest[1]

	switch cmd.Name {
	case CmdCreateUser, CmdCreateSuperuser:
	case CmdCheck:
		if cmd.NoPassword {
			return nil, fmt.Errorf("-nopassword is not valid for %s", CmdCheck)
		}
	default:
		return nil, fmt.Errorf("unknown command %q: %w", cmd.Name, ErrUsage)
	}

	return cmd, nil
}
