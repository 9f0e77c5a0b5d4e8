package rune

import (
	"fmt"
	"os"

	"github.com/itwasneo/runer/internal/runerr"
	"gopkg.in/yaml.v3"
)

// Load reads and decodes a .runer file into a Rune. Unknown keys at every
// nesting level are rejected, matching the original's
// #[serde(deny_unknown_fields)] on every struct.
func Load(path string) (*Rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", runerr.ErrParse, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var w wireRune
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %s", runerr.ErrParse, err)
	}
	return fromWireRune(w), nil
}
