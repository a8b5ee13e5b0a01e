package dialect

import (
	"sort"
	"strings"
	"sync"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
	fallback   *Dialect
)

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Register registers a dialect in the global registry.
// Called by driver packages in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// SetDefault sets the fallback dialect returned by Default.
func SetDefault(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	fallback = d
}

// Default returns the fallback dialect, or a generic ANSI dialect when no
// default has been set.
func Default() *Dialect {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	if fallback != nil {
		return fallback
	}
	return ansi
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ansi is the generic fallback used when a driver registers no dialect.
var ansi = &Dialect{
	Name:          "ansi",
	DefaultSchema: "public",
	Placeholder:   PlaceholderQuestion,
	QuoteStart:    `"`,
	QuoteEnd:      `"`,
	QuoteEscape:   `""`,
	Types: map[Kind]string{
		KindText:      "TEXT",
		KindInteger:   "BIGINT",
		KindFloat:     "DOUBLE PRECISION",
		KindBool:      "BOOLEAN",
		KindTimestamp: "TIMESTAMP",
		KindBytes:     "BLOB",
	},
}
