// Package assets ships the data files compiled into the binary:
// move/outcome labels and the archive schema migrations.
package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed labels.txt sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ScanLines(f)
}

// ScanLines returns the trimmed lines of r, skipping blanks and '#' comments.
func ScanLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// LabelLines returns the non-comment lines of the embedded labels table.
func LabelLines() ([]string, error) {
	return readLines("labels.txt")
}

// Migrations exposes the embedded sql/ directory.
func Migrations() fs.FS {
	sub, _ := fs.Sub(FS, "sql")
	return sub
}
