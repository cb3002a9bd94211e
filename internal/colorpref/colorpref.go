// Package colorpref decides whether colored terminal output should be
// enabled, combining explicit caller options with the conventional
// environment variables (NO_COLOR, CLICOLOR, CLICOLOR_FORCE).
package colorpref

import (
	"os"
	"strings"
)

// Options are the caller-supplied color preferences.
type Options struct {
	ForceColor   bool // enable color regardless of environment
	DisableColor bool // disable color regardless of environment
}

// Explicit reports whether the user has stated a color preference, and if
// so what it is. Priority order:
//
//  1. Caller options (ForceColor, then DisableColor)
//  2. CLICOLOR_FORCE set to a truthy value
//  3. NO_COLOR present in the environment (any value, even empty)
//
// CLICOLOR is deliberately not an explicit preference: per convention it
// only applies when the stream is interactive, which Enabled handles.
func Explicit(opts Options) (explicit, on bool) {
	if opts.ForceColor {
		return true, true
	}
	if opts.DisableColor {
		return true, false
	}

	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && isTruthy(force) {
		return true, true
	}
	// CLICOLOR_FORCE=0 is not an explicit preference; fall through.

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true, false
	}

	return false, false
}

// Enabled reports whether color output should be enabled, given the
// terminal type and whether the output is an interactive terminal. Explicit
// preferences win; otherwise color requires an interactive stream that is
// not a dumb terminal, honors CLICOLOR when set, and defaults to on.
// termName may be empty on platforms that do not use terminal types.
func Enabled(opts Options, termName string, interactive bool) bool {
	if explicit, on := Explicit(opts); explicit {
		return on
	}
	if !interactive || termName == "dumb" {
		return false
	}
	if cliColor := os.Getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}
	return true
}

// isTruthy checks if a value should be considered "true".
// Supports: "1", "true", "yes" (case insensitive).
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
