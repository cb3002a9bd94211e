// Package capdb carries a small table of known deviations between what the
// terminfo database advertises for a terminal type and what the terminal
// actually renders faithfully. The table is embedded TOML, parsed once.
package capdb

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed corrections.toml
var correctionsTOML []byte

// entry is one terminal's corrections. Term matches the TERM value exactly
// or as a "term-" prefix, the same way TERM families are conventionally
// grouped (xterm, xterm-256color, ...).
type entry struct {
	Term    string   `toml:"term"`
	Enable  []string `toml:"enable"`
	Disable []string `toml:"disable"`
}

type table struct {
	Terminal []entry `toml:"terminal"`
}

var (
	loadOnce sync.Once
	loaded   table
	loadErr  error
)

func load() (table, error) {
	loadOnce.Do(func() {
		loadErr = toml.Unmarshal(correctionsTOML, &loaded)
		if loadErr != nil {
			loadErr = fmt.Errorf("parse capability corrections: %w", loadErr)
		}
	})
	return loaded, loadErr
}

// Corrections returns the capability names to force-enable and
// force-disable for the given TERM value. Both slices are nil when the
// terminal has no known deviations. The embedded table is trusted build
// input; a parse failure is a build defect and panics.
func Corrections(term string) (enable, disable []string) {
	tbl, err := load()
	if err != nil {
		panic(err)
	}
	for _, e := range tbl.Terminal {
		if term == e.Term || strings.HasPrefix(term, e.Term+"-") {
			return e.Enable, e.Disable
		}
	}
	return nil, nil
}
