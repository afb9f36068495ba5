// internal/labels/labels.go
//
// Display names and input aliases for moves and outcomes.
//
// Responsibilities:
//   - Load the labels table from LABELS_FILE or fall back to the embedded default.
//   - Map any alias (canonical key, English or Korean label, shorthand) to its key.
//   - Render a key in a given language.
//
// Table format, one entry per line, whitespace separated:
//   <key> <en> <ko> [alias ...]
// Lines starting with '#' are comments.
//
// Environment variables:
//   LABELS_FILE=/path/to/labels.txt
//
// Initialization is run once (sync.Once). Lookups initialize lazily, so
// calling Init explicitly is only needed to surface load errors at startup.

package labels

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bsangs/rock-paper-scissors-supporter/assets"
)

// Supported languages.
const (
	English = "en"
	Korean  = "ko"
)

type entry struct {
	en string
	ko string
}

var (
	initOnce   sync.Once
	entries    map[string]entry  // key → labels
	aliases    map[string]string // lowercased alias → key
	initialErr error
)

// Init loads the labels table exactly once.
func Init() error {
	initOnce.Do(func() {
		var lines []string
		var err error
		if path := os.Getenv("LABELS_FILE"); path != "" {
			lines, err = readFile(path)
		} else {
			lines, err = assets.LabelLines()
		}
		if err != nil {
			initialErr = err
			return
		}
		entries, aliases, initialErr = build(lines)
	})
	return initialErr
}

// readFile loads non-empty, non-comment lines from path.
func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ScanLines(f)
}

// build parses table lines into the entry and alias maps.
func build(lines []string) (map[string]entry, map[string]string, error) {
	ents := make(map[string]entry, len(lines))
	als := make(map[string]string, len(lines)*4)
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, nil, fmt.Errorf("labels: line %d: want <key> <en> <ko>, got %q", i+1, line)
		}
		key := strings.ToLower(fields[0])
		ents[key] = entry{en: fields[1], ko: fields[2]}
		for _, a := range fields {
			als[strings.ToLower(a)] = key
		}
	}
	if len(ents) == 0 {
		return nil, nil, errors.New("labels: table is empty")
	}
	return ents, als, nil
}

// Resolve maps an alias to its canonical key.
func Resolve(alias string) (string, bool) {
	_ = Init()
	key, ok := aliases[strings.ToLower(strings.TrimSpace(alias))]
	return key, ok
}

// Label renders key in lang. Unknown languages use English;
// unknown keys are returned unchanged.
func Label(key, lang string) string {
	_ = Init()
	e, ok := entries[key]
	if !ok {
		return key
	}
	if lang == Korean {
		return e.ko
	}
	return e.en
}

// Stats returns counts of loaded entries and aliases.
func Stats() (entryCount int, aliasCount int) {
	_ = Init()
	return len(entries), len(aliases)
}
