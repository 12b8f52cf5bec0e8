package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/medilink/medilink/version"
	"github.com/spf13/cobra"
)

var (
	isDevEnv bool

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd = createRootCmd()
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)

	rootCmd.AddCommand(createServerCmd(), createMigrateCmd(), createBackupCmd())
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "medilink",
		Short: `medilink serves personal medical profile pages.

Users keep their medicines, allergies, diagnoses and emergency contacts
in one place and can share them through a public link.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")

	return cmd
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(red(format), a...)
}
