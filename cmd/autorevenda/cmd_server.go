package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gfmachado/autorevenda/app/controllers"
	"github.com/gfmachado/autorevenda/app/routes"
	"github.com/gfmachado/autorevenda/internal/server"
	"github.com/gfmachado/autorevenda/pkg/router"
)

// autorevenda serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// autorevenda route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Controllers built without dependencies: only the route table is
		// inspected, no handler runs.
		r := router.New()
		routes.RegisterAPI(r, routes.Controllers{
			Admins:     controllers.NewAdminsController(nil),
			Auth:       controllers.NewAuthController(nil, nil),
			Customers:  controllers.NewCustomersController(nil),
			Vehicles:   controllers.NewVehiclesController(nil, nil, nil),
			Categories: controllers.NewCategoriesController(nil),
			Sales:      controllers.NewSalesController(nil),
			Dashboard:  controllers.NewDashboardController(nil, nil),
			Contact:    controllers.NewContactController(),
			Purchase:   controllers.NewPurchaseController(nil, nil),
			Files:      controllers.NewFilesController(nil),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No routes registered.")
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
