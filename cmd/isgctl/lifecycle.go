package main

import (
	"encoding/json"
	"fmt"

	"github.com/localnerve/itemsetgroup/internal/database"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Create the module table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Install(db); err != nil {
			return err
		}
		fmt.Println("Installed")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Drop the module table and every stored representative",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Uninstall(db); err != nil {
			return err
		}
		fmt.Println("Uninstalled")
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending module migrations",
	Long: `Migrate upgrades tables created by older installs, for example adding
primary_media_id to a table that only stored the item.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(db)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the database, the module table and the Authorizer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := services.HealthCheck(cfg, db)
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal health check result: %w", err)
		}
		fmt.Println(string(output))
		if result.Status != "healthy" {
			return fmt.Errorf("unhealthy: %s", result.ErrorMessage)
		}
		return nil
	},
}
