package testimony

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/foxowl/internal/puzzle"
)

func TestDefaultTableCoversEveryStatement(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "ja"}, tbl.Locales())

	for s := puzzle.UpIsFox; s <= puzzle.RightIsOwl; s++ {
		for _, loc := range tbl.Locales() {
			assert.NotEqual(t, s.String(), tbl.Text(s, loc), "%v in %s", s, loc)
		}
	}
	assert.Equal(t, "右は梟だ", tbl.Text(puzzle.RightIsOwl, "ja"))
	assert.Equal(t, "証言成立: 3 / 8", tbl.Progress(3, 8, "ja"))
	assert.Equal(t, "Testimonies holding: 0 / 15", tbl.Progress(0, 15, "en"))
}

func TestLocaleFallback(t *testing.T) {
	tbl, err := Parse([]byte(`
en:
  progress: "%d of %d"
  statements:
    UpIsFox: "Fox above."
    DownIsOwl: "Owl below."
ja:
  statements:
    upisfox: "上は狐だ"
`))
	require.NoError(t, err)

	assert.Equal(t, "上は狐だ", tbl.Text(puzzle.UpIsFox, "ja-JP"))
	assert.Equal(t, "Owl below.", tbl.Text(puzzle.DownIsOwl, "ja"), "missing key falls back to en")
	assert.Equal(t, "Fox above.", tbl.Text(puzzle.UpIsFox, "fr"))
	assert.Equal(t, "LeftIsFox", tbl.Text(puzzle.LeftIsFox, "en"), "missing everywhere falls back to the name")
	assert.Equal(t, "2 of 3", tbl.Progress(2, 3, "ja"))

	label := tbl.Labeler("ja_JP")
	assert.Equal(t, "上は狐だ", label(puzzle.UpIsFox))
}

func TestParseRejectsBadTables(t *testing.T) {
	_, err := Parse([]byte(`en: {statements: {SidewaysIsFox: "?"}}`))
	assert.Error(t, err)

	_, err = Parse([]byte(``))
	assert.Error(t, err)

	_, err = Parse([]byte(`en: [1, 2`))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.yaml")
	require.NoError(t, os.WriteFile(path, []byte("de:\n  statements:\n    LeftIsOwl: \"Links ist eine Eule.\"\n"), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Links ist eine Eule.", tbl.Text(puzzle.LeftIsOwl, "de"))
	assert.Equal(t, "1 / 2", tbl.Progress(1, 2, "de"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetLoadsEmbeddedDefault(t *testing.T) {
	assert.Contains(t, Get().Locales(), "en")
}
