package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ferrysql/pkg/connector"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  connector.Config
		want string
	}{
		{
			name: "full config",
			cfg: connector.Config{
				Address:  "db.example.com",
				User:     "u",
				Password: "p",
				DBName:   "testdb",
			},
			want: "host=db.example.com port=5432 dbname=testdb sslmode=disable user=u password=p",
		},
		{
			name: "address with port",
			cfg: connector.Config{
				Address: "db.example.com:5433",
				DBName:  "testdb",
			},
			want: "host=db.example.com port=5433 dbname=testdb sslmode=disable",
		},
		{
			name: "sslmode passthrough",
			cfg: connector.Config{
				Address: "h",
				DBName:  "d",
				Options: map[string]string{"sslmode": "require"},
			},
			want: "host=h port=5432 dbname=d sslmode=require",
		},
		{
			name: "empty address defaults to localhost",
			cfg:  connector.Config{DBName: "d"},
			want: "host=localhost port=5432 dbname=d sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestDriverRegistration(t *testing.T) {
	d, ok := connector.LookupDriver("postgresql")
	require.True(t, ok)
	assert.Equal(t, "pgx", d.SQLDriver)

	// Alias and "+driver" suffix resolve to the same driver.
	alias, ok := connector.LookupDriver("postgres")
	require.True(t, ok)
	assert.Same(t, d, alias)

	suffixed, ok := connector.LookupDriver("postgres+pgx")
	require.True(t, ok)
	assert.Same(t, d, suffixed)
}
