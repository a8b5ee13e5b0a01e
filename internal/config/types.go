// Package config loads FerrySQL configuration from ferrysql.yaml,
// environment variables and CLI flags.
package config

import (
	"fmt"

	"github.com/leapstack-labs/ferrysql/pkg/connector"
)

// Config holds all CLI configuration options.
type Config struct {
	Target  TargetConfig `koanf:"target"`
	Verbose bool         `koanf:"verbose"`
	Output  string       `koanf:"output"`
}

// TargetConfig holds the backend connection block of the config file. Field
// names mirror the connection descriptor fields.
type TargetConfig struct {
	DBType   string            `koanf:"db_type"`
	Address  string            `koanf:"address"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	DBName   string            `koanf:"db_name"`
	Driver   string            `koanf:"driver"`
	Options  map[string]string `koanf:"options"`

	// ChunkSize overrides the default transfer chunk size.
	ChunkSize int `koanf:"chunk_size"`
}

// Default configuration values.
const (
	DefaultOutput = "table"
	DefaultDBType = "duckdb"
)

// ApplyDefaults fills target fields that have usable defaults. DuckDB is
// file-backed, so its descriptor fields other than db_name are identifying
// only and get placeholder values when omitted.
func (t *TargetConfig) ApplyDefaults() {
	if t.DBType == "" {
		t.DBType = DefaultDBType
	}
	if t.DBType == "duckdb" {
		if t.Address == "" {
			t.Address = "localhost"
		}
		if t.User == "" {
			t.User = "duckdb"
		}
		if t.Password == "" {
			t.Password = "duckdb"
		}
		if t.DBName == "" {
			t.DBName = ":memory:"
		}
	}
}

// Validate checks that the target can produce a connection descriptor.
func (t *TargetConfig) Validate() error {
	if _, err := t.ConnectorConfig().ConnString(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

// ConnectorConfig maps the target onto a connector.Config.
func (t *TargetConfig) ConnectorConfig() connector.Config {
	return connector.Config{
		DBType:   t.DBType,
		Address:  t.Address,
		User:     t.User,
		Password: t.Password,
		DBName:   t.DBName,
		Driver:   t.Driver,
		Options:  t.Options,
	}
}
