package cmd

import (
	"os"
	"path/filepath"

	"github.com/medilink/medilink/dev/config"
	"github.com/medilink/medilink/server"
	"github.com/medilink/medilink/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverConfigFile string

func createServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start a medilink server",
		Long:  `The medilink server exposes the JSON API behind medical profile pages, orders and the admin panel`,
		Run: func(cmd *cobra.Command, args []string) {
			configValues, err := serverConfig()
			cobra.CheckErr(err)

			server.Start(configValues, isDevEnv)
		},
	}

	// sconfig can be left out in dev mode, where dev/config/server.yml is used
	cmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "config file for the server")

	return cmd
}

// serverConfig reads the server config file named by --sconfig. Values can be
// overridden with environment variables.
func serverConfig() (*viper.Viper, error) {
	configValues := viper.New()

	configFile := serverConfigFile
	if configFile == "" && isDevEnv {
		var err error
		configFile, err = devConfigFilePath()
		if err != nil {
			return nil, err
		}
	}

	if configFile == "" {
		return nil, formattedError("--sconfig is required outside of dev mode")
	}

	configValues.SetConfigFile(configFile)

	// FYI: env vars override whatever is in the config file
	configValues.BindEnv("google.applicationCredentials", "GOOGLE_APPLICATION_CREDENTIALS")
	configValues.BindEnv("postgres.dsn", "DATABASE_URL")
	configValues.BindEnv("sqlite.passPhrase", "MEDILINK_SQLITE_PASSPHRASE")
	configValues.BindEnv("medilink.privateKeyPem", "MEDILINK_PRIVATE_KEY_PEM")
	configValues.AutomaticEnv()

	if err := configValues.ReadInConfig(); err != nil {
		return nil, formattedError("error reading server config file: %v", err)
	}

	return configValues, nil
}

// devConfigFilePath returns the dev server config, creating it from
// config.SERVER_YML if it doesn't exist yet.
func devConfigFilePath() (string, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(rootDir, "dev", "config")
	configFilePath := filepath.Join(configDir, "server.yml")

	if !utils.FileExist(configFilePath) {
		if err := utils.CreateDirIfNotExist(configDir); err != nil {
			return "", err
		}

		if err := os.WriteFile(configFilePath, []byte(config.SERVER_YML), 0600); err != nil {
			return "", err
		}
	}

	return configFilePath, nil
}
