package cmd

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/medilink/medilink/server"
	"github.com/medilink/medilink/server/gstorage"
	"github.com/medilink/medilink/server/models"
	"github.com/medilink/medilink/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const backupTimeout = 5 * time.Minute

func createBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload the sqlite database to Google Cloud Storage",
		Long: `backup copies the encrypted sqlite database file to the bucket set in
'google.storage.bucket'. Objects are named <prefix>/medilink-<UTC timestamp>.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configValues, err := serverConfig()
			if err != nil {
				return err
			}

			objectName, err := backupSqliteDb(cmd.Context(), configValues)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("uploaded"), objectName)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "config file for the server")

	return cmd
}

func backupSqliteDb(ctx context.Context, configValues *viper.Viper) (string, error) {
	config, err := server.LoadConfig(configValues, isDevEnv)
	if err != nil {
		return "", err
	}

	if config.Database.Driver != shared.SQLITE_DRIVER {
		return "", formattedError("backup only supports the sqlite driver, got '%s'", config.Database.Driver)
	}

	if config.Google.Storage.Bucket == "" {
		return "", formattedError("'google.storage.bucket' must be set to run a backup")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, backupTimeout)
	defer cancel()

	if err := models.Open(*config, false); err != nil {
		return "", err
	}
	defer models.Close()

	if err := models.Checkpoint(); err != nil {
		return "", fmt.Errorf("checkpoint: %v", err)
	}

	storage, err := gstorage.NewGStorage(ctx, config.Google.ApplicationCredentials)
	if err != nil {
		return "", err
	}
	defer storage.Close()

	objectName := path.Join(
		config.Google.Storage.Prefix,
		fmt.Sprintf("medilink-%s.db", time.Now().UTC().Format("20060102T150405Z")),
	)

	err = storage.UploadFile(ctx, config.Google.Storage.Bucket, objectName, models.SqliteFilePath(config.Sqlite.Dir))
	if err != nil {
		return "", err
	}

	return objectName, nil
}
