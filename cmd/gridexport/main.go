package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/voltkraft/gridexport/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridexport",
		Short: "Vendor-neutral export of grid study cases",
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func exportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export [study-path]",
		Short: "Resolve a study case and write the export documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(args[0], outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for the JSON documents (default: stdout)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [study-path]",
		Short: "Validate a study case without writing export documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [study-path]",
		Short: "Serve the export documents of a study case over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv := server.New(args[0], port)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
