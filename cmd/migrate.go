package cmd

import (
	"fmt"

	"github.com/medilink/medilink/server"
	"github.com/medilink/medilink/server/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func createMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  `migrate brings the configured database up to date and seeds the product catalogue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configValues, err := serverConfig()
			if err != nil {
				return err
			}

			if err := migrate(configValues); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), green("database is up to date"))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "config file for the server")

	return cmd
}

func migrate(configValues *viper.Viper) error {
	config, err := server.LoadConfig(configValues, isDevEnv)
	if err != nil {
		return err
	}

	// Open runs the migrations
	if err := models.Open(*config, false); err != nil {
		return err
	}

	return models.Close()
}
