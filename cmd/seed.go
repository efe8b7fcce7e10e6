/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/db"
	"github.com/memberdir/apiserver/internal/services"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/types"
	"github.com/spf13/cobra"
)

var (
	seedUsername     string
	seedPassword     string
	seedAccessRights int
)

// seedCmd provisions a login account. The API itself never writes to
// the users table; this command is the only provisioning path.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision a login account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedUsername == "" || seedPassword == "" {
			return fmt.Errorf("--username and --password are required")
		}
		if seedAccessRights < types.AccessNone || seedAccessRights > types.AccessDelete {
			return fmt.Errorf("--access-rights must be between %d and %d", types.AccessNone, types.AccessDelete)
		}

		cfg := config.LoadConfig()
		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbConn.Close()
		}()

		driver, _, err := db.DriverDSN(cfg)
		if err != nil {
			return err
		}

		authService := services.NewAuthService(store.NewCredentialRepository(dbConn, driver))
		if err := authService.Provision(cmd.Context(), seedUsername, seedPassword, seedAccessRights); err != nil {
			return fmt.Errorf("provision %q failed: %w", seedUsername, err)
		}

		fmt.Printf("provisioned %q with access rights %d\n", seedUsername, seedAccessRights)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedUsername, "username", "", "login name for the new account")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password for the new account")
	seedCmd.Flags().IntVar(&seedAccessRights, "access-rights", types.AccessRead, "access tier 0-3")
}
