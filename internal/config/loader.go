package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "ferrysql.yaml"
	ConfigFileNameAlt = "ferrysql.yml"
)

// findConfigFile finds the config file to use.
// Priority: explicit path > ferrysql.yaml > ferrysql.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose": false,
		"output":  DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment variables: FERRYSQL_TARGET_PASSWORD -> target.password
	if err := k.Load(env.Provider("FERRYSQL_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FERRYSQL_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority). Kebab-case flag names map onto the
	// target block: --db-name -> target.db_name, --verbose -> verbose.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Target.ApplyDefaults()
	expandTargetEnvVars(&cfg.Target)

	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// targetFlags are the flag names that belong to the target block.
var targetFlags = map[string]bool{
	"db_type":    true,
	"address":    true,
	"user":       true,
	"password":   true,
	"db_name":    true,
	"driver":     true,
	"chunk_size": true,
}

func flagKey(name string) string {
	key := strings.ReplaceAll(name, "-", "_")
	if targetFlags[key] {
		return "target." + key
	}
	return key
}

// envVarPattern matches ${VAR} references in config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values,
// leaving unresolved references untouched.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target
// fields, so credentials can stay out of the config file.
func expandTargetEnvVars(t *TargetConfig) {
	t.User = expandEnvVars(t.User)
	t.Password = expandEnvVars(t.Password)
	t.Address = expandEnvVars(t.Address)
	t.DBName = expandEnvVars(t.DBName)
}
