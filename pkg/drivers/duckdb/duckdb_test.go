package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ferrysql/pkg/connector"
)

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "", buildDSN(connector.Config{}))
	assert.Equal(t, "", buildDSN(connector.Config{DBName: ":memory:"}))
	assert.Equal(t, "data/local.db", buildDSN(connector.Config{DBName: "data/local.db"}))
}

func TestDriverRegistration(t *testing.T) {
	d, ok := connector.LookupDriver("duckdb")
	require.True(t, ok)
	assert.Equal(t, "duckdb", d.SQLDriver)
	assert.Equal(t, "duckdb", d.Dialect)
}
