package connector

import (
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/ferrysql/pkg/dialect"
)

// Driver binds a db_type to a database/sql driver and its dialect.
// Driver packages under pkg/drivers register themselves in their init()
// functions; import one with a blank identifier to make its db_type
// available.
type Driver struct {
	// Name is the canonical db_type (e.g. "postgresql").
	Name string

	// Aliases are alternative db_type spellings (e.g. "postgres").
	Aliases []string

	// SQLDriver is the name the driver registered with database/sql.
	SQLDriver string

	// Dialect is the dialect name to resolve against the dialect registry.
	Dialect string

	// DSN translates a Config into the data source name the database/sql
	// driver expects. The connection descriptor is a stable external
	// format; the DSN is whatever the Go driver wants.
	DSN func(cfg Config) string
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]*Driver)
)

// RegisterDriver adds a driver to the registry under its name and aliases.
func RegisterDriver(d *Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[strings.ToLower(d.Name)] = d
	for _, alias := range d.Aliases {
		drivers[strings.ToLower(alias)] = d
	}
}

// LookupDriver resolves a db_type to a registered driver. The "+driver"
// suffix is ignored, so "mssql+pyodbc" resolves like "mssql".
func LookupDriver(dbType string) (*Driver, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[baseType(dbType)]
	return d, ok
}

// ListDrivers returns all registered db_types (sorted, aliases included).
func ListDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dialectFor resolves a driver's dialect, falling back to the generic
// default when the driver registered none.
func dialectFor(d *Driver) *dialect.Dialect {
	if dl, ok := dialect.Get(d.Dialect); ok {
		return dl
	}
	return dialect.Default()
}
