// Package assets embeds the default word lists and the seed puzzle catalog.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed country.txt capital.txt puzzles.yaml
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the embedded dictionary for a mode ("country" or "capital").
func WordList(mode string) ([]string, error) {
	return readLines(mode + ".txt")
}

// SeedPuzzle is one entry of puzzles.yaml.
type SeedPuzzle struct {
	Creator string   `yaml:"creator"`
	Rows    []string `yaml:"rows"`
}

// SeedCatalog maps mode name to its seed puzzles, in file order.
type SeedCatalog map[string][]SeedPuzzle

// Seeds decodes the embedded seed catalog.
func Seeds() (SeedCatalog, error) {
	b, err := FS.ReadFile("puzzles.yaml")
	if err != nil {
		return nil, err
	}
	var cat SeedCatalog
	if err := yaml.Unmarshal(b, &cat); err != nil {
		return nil, fmt.Errorf("decode puzzles.yaml: %w", err)
	}
	return cat, nil
}
