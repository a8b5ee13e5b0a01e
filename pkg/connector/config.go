package connector

import (
	"fmt"
	"net/url"
	"strings"
)

// Config keys as they appear in configuration files and error messages.
const (
	FieldDBType   = "db_type"
	FieldAddress  = "address"
	FieldUser     = "user"
	FieldPassword = "password"
	FieldDBName   = "db_name"
	FieldDriver   = "driver"
)

// odbcMarker in a db_type selects the indirect odbc_connect descriptor form.
const odbcMarker = "odbc"

// Config describes one backend connection. A Config maps deterministically
// to exactly one connection descriptor and is never mutated after the
// Connector is constructed.
type Config struct {
	// DBType selects the backend, optionally with a "+driver" suffix
	// (e.g. "postgresql", "mssql+pyodbc").
	DBType string

	// Address is the backend host, optionally with port.
	Address string

	// User and Password authenticate the connection.
	User     string
	Password string

	// DBName is the database to connect to.
	DBName string

	// Driver is the ODBC driver name; required only when DBType contains
	// the "odbc" marker.
	Driver string

	// Options carries backend-specific settings passed through to the
	// driver (e.g. sslmode), never interpreted here.
	Options map[string]string
}

// FromMap builds a Config from a string mapping, the shape connection
// settings usually arrive in from configuration files. Unknown keys are
// collected into Options.
func FromMap(m map[string]string) Config {
	cfg := Config{
		DBType:   m[FieldDBType],
		Address:  m[FieldAddress],
		User:     m[FieldUser],
		Password: m[FieldPassword],
		DBName:   m[FieldDBName],
		Driver:   m[FieldDriver],
	}
	for k, v := range m {
		switch k {
		case FieldDBType, FieldAddress, FieldUser, FieldPassword, FieldDBName, FieldDriver:
		default:
			if cfg.Options == nil {
				cfg.Options = make(map[string]string)
			}
			cfg.Options[k] = v
		}
	}
	return cfg
}

// ConnString assembles the connection descriptor for the config.
//
// Standard form:
//
//	{db_type}://{user}:{password}@{address}/{db_name}
//
// When DBType contains the "odbc" marker, an inner DSN-like string is built
// from driver, address, database and credentials, percent-encoded, and
// wrapped as {db_type}:///?odbc_connect={encoded}. Both forms are stable and
// relied on by existing deployments.
//
// Returns a *MissingFieldError when a field referenced by the selected form
// is empty.
func (c Config) ConnString() (string, error) {
	if c.DBType == "" {
		return "", &MissingFieldError{Field: FieldDBType}
	}

	if strings.Contains(c.DBType, odbcMarker) {
		return c.odbcConnString()
	}

	if err := requireFields(map[string]string{
		FieldUser:     c.User,
		FieldPassword: c.Password,
		FieldAddress:  c.Address,
		FieldDBName:   c.DBName,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s://%s:%s@%s/%s", c.DBType, c.User, c.Password, c.Address, c.DBName), nil
}

func (c Config) odbcConnString() (string, error) {
	if err := requireFields(map[string]string{
		FieldDriver:   c.Driver,
		FieldAddress:  c.Address,
		FieldDBName:   c.DBName,
		FieldUser:     c.User,
		FieldPassword: c.Password,
	}); err != nil {
		return "", err
	}
	inner := fmt.Sprintf("DRIVER=%s;SERVER=%s;DATABASE=%s;UID=%s;PWD=%s",
		c.Driver, c.Address, c.DBName, c.User, c.Password)
	// url.QueryEscape matches the quote_plus encoding the descriptor format
	// was defined with (space encodes as +).
	return fmt.Sprintf("%s:///?odbc_connect=%s", c.DBType, url.QueryEscape(inner)), nil
}

// requireFields checks descriptor fields in a fixed order so the error for a
// given config is deterministic.
func requireFields(fields map[string]string) error {
	for _, name := range []string{FieldDBType, FieldDriver, FieldAddress, FieldDBName, FieldUser, FieldPassword} {
		if v, ok := fields[name]; ok && v == "" {
			return &MissingFieldError{Field: name}
		}
	}
	return nil
}

// baseType strips the "+driver" suffix from a db_type and lowercases it:
// "mssql+pyodbc" resolves to "mssql".
func baseType(dbType string) string {
	if i := strings.Index(dbType, "+"); i >= 0 {
		dbType = dbType[:i]
	}
	return strings.ToLower(dbType)
}
