// internal/testimony/testimony.go
//
// Display text for statements, per locale.
//
// Responsibilities:
//   - Load the text table from a YAML file, or fall back to the embedded default.
//   - Look up the sentence a tile shows for its statement.
//   - Render the live "valid statements" progress label.
//
// Lookup falls back from the requested locale to its base language
// ("ja-JP" → "ja"), then to DefaultLocale, then to the statement name.
//
// Environment variables:
//   TESTIMONY_TEXT_FILE=/path/to/testimony.yaml

package testimony

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/foxowl/assets"
	"github.com/robalobadob/foxowl/internal/puzzle"
)

const DefaultLocale = "en"

type localeText struct {
	Progress   string            `yaml:"progress"`
	Statements map[string]string `yaml:"statements"`
}

// Table is an immutable statement text table.
type Table struct {
	locales map[string]localeText
}

var (
	initOnce sync.Once
	instance *Table
	initErr  error
)

// Parse decodes a YAML table and checks every statement key.
func Parse(data []byte) (*Table, error) {
	var raw map[string]localeText
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse testimony text: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse testimony text: no locales")
	}
	t := &Table{locales: make(map[string]localeText, len(raw))}
	for loc, lt := range raw {
		norm := localeText{Progress: lt.Progress, Statements: make(map[string]string, len(lt.Statements))}
		for name, text := range lt.Statements {
			s, err := puzzle.ParseStatement(name)
			if err != nil {
				return nil, fmt.Errorf("locale %s: %w", loc, err)
			}
			norm.Statements[s.String()] = strings.TrimSpace(text)
		}
		t.locales[strings.ToLower(loc)] = norm
	}
	return t, nil
}

// Load reads a table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read testimony text: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded table.
func Default() (*Table, error) {
	data, err := assets.TestimonyYAML()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Init loads the shared table exactly once: from path when set, otherwise
// the embedded default.
func Init(path string) error {
	initOnce.Do(func() {
		if path != "" {
			instance, initErr = Load(path)
			return
		}
		instance, initErr = Default()
	})
	return initErr
}

// Get returns the shared table, loading the embedded default if Init was
// never called.
func Get() *Table {
	if err := Init(""); err != nil || instance == nil {
		return &Table{locales: map[string]localeText{}}
	}
	return instance
}

// resolve walks the locale fallback chain.
func (t *Table) resolve(locale string) []localeText {
	locale = strings.ToLower(strings.TrimSpace(locale))
	var chain []localeText
	seen := map[string]bool{}
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		if lt, ok := t.locales[name]; ok {
			chain = append(chain, lt)
		}
	}
	add(locale)
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		add(locale[:i])
	}
	add(DefaultLocale)
	return chain
}

// Text returns the sentence for s in locale.
func (t *Table) Text(s puzzle.Statement, locale string) string {
	key := s.String()
	for _, lt := range t.resolve(locale) {
		if text, ok := lt.Statements[key]; ok && text != "" {
			return text
		}
	}
	return key
}

// Labeler binds Text to a locale.
func (t *Table) Labeler(locale string) func(puzzle.Statement) string {
	return func(s puzzle.Statement) string { return t.Text(s, locale) }
}

// Progress renders the valid/total indicator.
func (t *Table) Progress(valid, total int, locale string) string {
	for _, lt := range t.resolve(locale) {
		if lt.Progress != "" {
			return fmt.Sprintf(lt.Progress, valid, total)
		}
	}
	return fmt.Sprintf("%d / %d", valid, total)
}

// Locales lists the loaded locales.
func (t *Table) Locales() []string {
	out := make([]string, 0, len(t.locales))
	for loc := range t.locales {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}
