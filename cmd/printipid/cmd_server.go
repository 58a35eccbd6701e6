package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/printipid/printipid/app/controllers"
	"github.com/printipid/printipid/app/routes"
	"github.com/printipid/printipid/internal/server"
	"github.com/printipid/printipid/pkg/router"
)

// printipid serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// printipid route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		// Controllers without backing services; we only need the route table.
		routes.RegisterAPI(r, routes.Controllers{
			Auth:    controllers.NewAuthController(nil),
			Orders:  controllers.NewOrderController(nil),
			Admin:   controllers.NewAdminController(nil, nil, nil),
			Catalog: controllers.NewCatalogController(nil),
			Stats:   controllers.NewStatsController(nil),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
