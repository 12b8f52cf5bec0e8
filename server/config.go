package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
	"github.com/medilink/medilink/shared"
	"github.com/medilink/medilink/utils"
	"github.com/spf13/viper"
)

const DEFAULT_SESSION_COOKIE = "medilink_session"

// LoadConfig unmarshals and validates the server config held by configValues.
// Defaults are filled in for optional values.
func LoadConfig(configValues *viper.Viper, devMode bool) (*shared.ServerConfig, error) {
	config := shared.ServerConfig{}

	err := configValues.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("unable to decode server config: %v", err)
	}

	if config.Database.Driver == "" {
		config.Database.Driver = shared.SQLITE_DRIVER
	}

	if config.MediLink.Session.CookieName == "" {
		config.MediLink.Session.CookieName = DEFAULT_SESSION_COOKIE
	}

	err = validator.New().Struct(config)
	if err != nil {
		return nil, fmt.Errorf("invalid server config:\n%v", err)
	}

	switch config.Database.Driver {
	case shared.SQLITE_DRIVER:
		if strings.TrimSpace(config.Sqlite.PassPhrase) == "" {
			return nil, fmt.Errorf("invalid server config: sqlite.passPhrase is required")
		}

		if config.Sqlite.Dir == "" {
			config.Sqlite.Dir, err = configDirectory(devMode)
			if err != nil {
				return nil, err
			}
		}

	case shared.POSTGRES_DRIVER:
		if strings.TrimSpace(config.Postgres.DSN) == "" {
			return nil, fmt.Errorf("invalid server config: postgres.dsn is required")
		}
	}

	return &config, nil
}

// configDirectory is where medilink keeps its data when no directory is configured:
// '~/medilink' normally, './dev' in dev mode.
func configDirectory(devMode bool) (string, error) {
	configFolderName := "medilink"
	rootDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	if err != nil {
		return "", err
	}

	return configDir, nil
}
