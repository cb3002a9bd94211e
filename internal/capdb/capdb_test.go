package capdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrections(t *testing.T) {
	tests := []struct {
		name        string
		term        string
		wantEnable  []string
		wantDisable []string
	}{
		{
			name:        "exact match",
			term:        "linux",
			wantDisable: []string{"italic", "dim"},
		},
		{
			name:        "prefix match",
			term:        "screen-256color",
			wantEnable:  []string{"italic"},
			wantDisable: []string{"blink"},
		},
		{
			name:       "tmux family",
			term:       "tmux-256color",
			wantEnable: []string{"italic"},
		},
		{
			name: "unknown terminal has no corrections",
			term: "xterm-256color",
		},
		{
			name: "prefix requires a dash boundary",
			term: "linuxish",
		},
		{
			name: "empty TERM",
			term: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enable, disable := Corrections(tt.term)
			assert.Equal(t, tt.wantEnable, enable)
			assert.Equal(t, tt.wantDisable, disable)
		})
	}
}

func TestEmbeddedTableParses(t *testing.T) {
	tbl, err := load()
	assert.NoError(t, err)
	assert.NotEmpty(t, tbl.Terminal)
	for _, e := range tbl.Terminal {
		assert.NotEmpty(t, e.Term, "every entry names a terminal")
	}
}
