package assets

import (
	"embed"
	"io/fs"
)

//go:embed testimony.yaml sql/*.sql
var FS embed.FS

// TestimonyYAML returns the built-in statement text table.
func TestimonyYAML() ([]byte, error) {
	return FS.ReadFile("testimony.yaml")
}

// Migrations returns the SQL migrations rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
