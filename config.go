package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/medirex-au/higateway/registry"
)

// LoadConfig loads the configuration from the environment.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider("HIG_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "HIG_")), "_", ".", -1)
	}), nil)
	if err != nil {
		return nil, err
	}

	result := DefaultConfig()
	if err := k.Unmarshal("", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DefaultConfig returns sensible, but not complete, default configuration values.
func DefaultConfig() Config {
	return Config{
		FunctionName: "higateway",
		LogLevel:     zerolog.InfoLevel,
		Public: InterfaceConfig{
			Address: ":8080",
		},
		Parameters: ParametersConfig{
			Prefix:   "/higateway",
			CacheTTL: 5 * time.Minute,
		},
		Certificate: CertificateConfig{
			Source: "s3",
		},
	}
}

type Config struct {
	// FunctionGroup selects the entry surface served when hosted as a function.
	FunctionGroup string `koanf:"functiongroup"`
	// FunctionName is reported in response envelopes for unresolved operations.
	FunctionName string        `koanf:"functionname"`
	LogLevel     zerolog.Level `koanf:"loglevel"`
	// Public holds the configuration for the local HTTP interface.
	Public InterfaceConfig `koanf:"public"`
	// Parameters holds the configuration for the parameter store lookups.
	Parameters ParametersConfig `koanf:"parameters"`
	// Certificate holds the configuration for the certificate source.
	Certificate CertificateConfig `koanf:"certificate"`
}

func (c Config) Validate() error {
	if c.FunctionGroup != "" {
		switch registry.Group(c.FunctionGroup) {
		case registry.GroupConsumer, registry.GroupProviderIndividual, registry.GroupProviderOrganisation:
		default:
			return fmt.Errorf("invalid function group: %s", c.FunctionGroup)
		}
	}
	if c.Parameters.Prefix == "" {
		return fmt.Errorf("parameter prefix is not configured")
	}
	return c.Certificate.Validate()
}

// InterfaceConfig holds the configuration for an HTTP interface.
type InterfaceConfig struct {
	// Address holds the address to listen on.
	Address string `koanf:"address"`
}

type ParametersConfig struct {
	// Prefix is prepended to every parameter name resolved per invocation.
	Prefix string `koanf:"prefix"`
	// CacheTTL bounds how long resolved parameters are reused on warm starts.
	// Zero disables caching.
	CacheTTL time.Duration `koanf:"cachettl"`
}

type CertificateConfig struct {
	// Source selects the certificate backend: s3, keyvault or file.
	Source string `koanf:"source"`
	// KeyVaultURL is required when Source is keyvault.
	KeyVaultURL string `koanf:"keyvaulturl"`
}

func (c CertificateConfig) Validate() error {
	switch c.Source {
	case "s3", "file":
		return nil
	case "keyvault":
		if c.KeyVaultURL == "" {
			return fmt.Errorf("key vault URL is not configured")
		}
		return nil
	default:
		return fmt.Errorf("invalid certificate source: %s", c.Source)
	}
}
