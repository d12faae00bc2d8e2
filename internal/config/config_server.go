package config

import (
	"fmt"
	"time"
)

// ServerConfig is the server-specific configuration view assembled from
// [StructuredConfig].
type ServerConfig struct {
	// App contains token parameters and the application version.
	App App
	// Server contains the listen address and request timeout.
	Server Server
	// DB contains the relational database connection settings.
	DB DB
}

// GetServerConfig builds and validates a server-specific config view from the
// merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App:    cfg.App,
		Server: cfg.Server,
		DB:     cfg.Storage.DB,
	}

	if serverCfg.App.TokenIssuer == "" {
		serverCfg.App.TokenIssuer = "go-note-keeper"
	}
	if serverCfg.App.TokenDuration == 0 {
		serverCfg.App.TokenDuration = 24 * time.Hour
	}

	return serverCfg, serverCfg.validate()
}

func (cfg *ServerConfig) validate() error {
	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
