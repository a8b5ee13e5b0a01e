package connector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ConnString(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		want         string
		missingField string
	}{
		{
			name: "standard descriptor",
			cfg: Config{
				DBType:   "postgresql",
				User:     "u",
				Password: "p",
				Address:  "localhost",
				DBName:   "testdb",
			},
			want: "postgresql://u:p@localhost/testdb",
		},
		{
			name: "odbc descriptor is percent-encoded",
			cfg: Config{
				DBType:   "mssql+pyodbc",
				Driver:   "ODBC Driver 17",
				Address:  "host",
				DBName:   "db",
				User:     "u",
				Password: "p",
			},
			want: "mssql+pyodbc:///?odbc_connect=DRIVER%3DODBC+Driver+17%3BSERVER%3Dhost%3BDATABASE%3Ddb%3BUID%3Du%3BPWD%3Dp",
		},
		{
			name:         "missing db_type",
			cfg:          Config{User: "u", Password: "p", Address: "h", DBName: "d"},
			missingField: FieldDBType,
		},
		{
			name: "standard missing password",
			cfg: Config{
				DBType:  "postgresql",
				User:    "u",
				Address: "h",
				DBName:  "d",
			},
			missingField: FieldPassword,
		},
		{
			name: "odbc missing driver",
			cfg: Config{
				DBType:   "mssql+pyodbc",
				Address:  "h",
				DBName:   "d",
				User:     "u",
				Password: "p",
			},
			missingField: FieldDriver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ConnString()
			if tt.missingField != "" {
				var missing *MissingFieldError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.missingField, missing.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_ConnStringDeterministic(t *testing.T) {
	cfg := Config{
		DBType:   "postgresql",
		User:     "u",
		Password: "p",
		Address:  "localhost",
		DBName:   "testdb",
	}
	first, err := cfg.ConnString()
	require.NoError(t, err)
	second, err := cfg.ConnString()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"db_type":  "postgresql",
		"address":  "localhost",
		"user":     "u",
		"password": "p",
		"db_name":  "testdb",
		"sslmode":  "require",
	})

	assert.Equal(t, "postgresql", cfg.DBType)
	assert.Equal(t, "testdb", cfg.DBName)
	// Unknown keys pass through as driver options.
	assert.Equal(t, map[string]string{"sslmode": "require"}, cfg.Options)
}

func TestNew_MissingFieldAtConstruction(t *testing.T) {
	_, err := New(Config{DBType: "postgresql"}, nil)
	var missing *MissingFieldError
	assert.True(t, errors.As(err, &missing))
}

func TestBaseType(t *testing.T) {
	assert.Equal(t, "mssql", baseType("mssql+pyodbc"))
	assert.Equal(t, "postgresql", baseType("PostgreSQL"))
	assert.Equal(t, "duckdb", baseType("duckdb"))
}
