/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/audit"
	"github.com/memberdir/apiserver/internal/db"
	"github.com/memberdir/apiserver/internal/services"
	"github.com/memberdir/apiserver/internal/storage"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// exportCmd writes a JSON snapshot of the members table to the
// configured object storage backend.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload a roster snapshot to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		objectStore, err := storage.NewObjectStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		memberRepo := store.NewMemberRepository(dbConn, driver)
		memberService := services.NewMemberService(memberRepo, audit.Nop{}, cfg.DuplicatePolicy)
		exportService := services.NewExportService(memberService, objectStore)

		key, err := exportService.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("wrote %s to bucket %s\n", key, objectStore.Bucket())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
