package alphabet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf picks the file format from the extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Load reads an object that maps single-character symbols to ordinals.
func Load(r io.Reader, format Format) (*Alphabet, error) {
	var raw map[string]int

	switch format {
	case YAML:
		dec := yaml.NewDecoder(r, yaml.Strict())
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("alphabet: yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("alphabet: json: %w", err)
		}
	}

	m := make(map[rune]int, len(raw))
	for k, o := range raw {
		if utf8.RuneCountInString(k) != 1 {
			return nil, fmt.Errorf("alphabet: key %q is not a single symbol", k)
		}
		r, _ := utf8.DecodeRuneInString(k)
		m[r] = o
	}
	return New(m)
}

func LoadFile(filename string) (*Alphabet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", filename, err)
	}
	defer file.Close()

	return Load(file, FormatOf(filename))
}
