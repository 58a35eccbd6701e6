package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/printipid/printipid/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "printipid",
	Short: "printipid — print order management server",
	Long:  "printipid runs the print shop order API: customers upload documents and submit orders, admins verify payments and progress them to pickup.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}
