// Package main provides isgctl, the item set group admin CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// envFile is set by the --env flag.
	envFile string

	cfg *config.Config
	db  *gorm.DB
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "isgctl",
	Short: "Administer the item set group module",
	Long: `isgctl installs and removes the item set group table in an Omeka S
database, and resolves or sets item set representatives from the command line.
Configuration comes from the same environment variables as the server.`,
	SilenceUsage:       true,
	PersistentPreRunE:  connect,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return disconnect() },
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "f", "", "path to a .env file")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(persistCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(healthCmd)
}

// connect loads the configuration and opens the database
func connect(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var err error
	if cfg, err = config.Load(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if db, err = database.Connect(cfg); err != nil {
		return err
	}
	return nil
}

func disconnect() error {
	if db == nil {
		return nil
	}
	return database.Close(db)
}
