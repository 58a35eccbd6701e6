package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/printipid/printipid/config"
	"github.com/printipid/printipid/database/seeders"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/migration"
)

// bootDB loads config and opens the MongoDB connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return docstore.Connect()
}

// printipid migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return migration.New(docstore.DB).Run(ctx)
	},
}

// printipid migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return migration.New(docstore.DB).Rollback(ctx)
	},
}

// printipid migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return migration.New(docstore.DB).Status(ctx)
	},
}

// printipid seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the catalog, payment methods and the default admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll()
	},
}
