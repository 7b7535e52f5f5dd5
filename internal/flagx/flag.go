// Package flagx lets independent components pick their own flags out of
// the command line without tripping over flags defined elsewhere.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns a slice of command-line arguments that only contains
// the allowed flags (and their values) specified in allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// Boolean flags must use the second form (-m=false) or go through
// JoinBoolValues first, otherwise a following positional argument is
// taken as their value.
//
// Parameters:
//
//	args         - the command-line arguments (usually os.Args[1:])
//	allowedFlags - list of allowed flag names (e.g. []string{"-c", "--config"})
//
// Returns:
//
//	A slice containing the allowed flags and their values (if provided separately).
func FilterArgs(args []string, allowedFlags []string) []string {
	// Convert the list of allowed flags into a map for O(1) lookup
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	// Empty, not nil, so callers can always range over it
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Case 1: "--flag=value" or "-f=value"
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// Case 2: flag as a separate argument, value might follow
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			// the next argument is the value unless it looks like a flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++ // skip the value in the next iteration
			}
		}
	}

	return filtered
}

// JoinBoolValues rewrites "-flag true" and "-flag false" into "-flag=true"
// and "-flag=false" for the boolean flags named in boolFlags. The flag
// package only reads a boolean value from the "=" form; without the
// rewrite the value would end up among the positional arguments.
//
// Parameters:
//
//	args      - the command-line arguments
//	boolFlags - boolean flag names as they appear on the command line (e.g. "-m")
//
// Returns:
//
//	A new slice; args is not modified.
func JoinBoolValues(args []string, boolFlags []string) []string {
	isBool := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		isBool[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if _, ok := isBool[arg]; ok && i+1 < len(args) {
			if v := args[i+1]; v == "true" || v == "false" {
				out = append(out, arg+"="+v)
				i++
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}

// Dashed returns every name in both "-name" and "--name" form.
func Dashed(names ...string) []string {
	out := make([]string, 0, 2*len(names))
	for _, n := range names {
		out = append(out, "-"+n, "--"+n)
	}
	return out
}

// LookupString extracts the value of a string flag known under any of names
// from args. When the flag repeats, the last value wins. Missing flags
// yield "".
func LookupString(args []string, names ...string) string {
	var value string

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
	}
	_ = fs.Parse(FilterArgs(args, Dashed(names...)))

	return value
}

// ConfigFileFlag returns the JSON config path given with -c or -config.
func ConfigFileFlag() string {
	return LookupString(os.Args[1:], "c", "config")
}

// EnvFileFlag returns the dotenv path given with -env-file.
func EnvFileFlag() string {
	return LookupString(os.Args[1:], "env-file")
}
