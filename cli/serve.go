package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/democodex/mcp-server-automation/internal/api"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Dockerfile generation HTTP service",
	Long:  "Start an HTTP server that accepts zipped MCP server sources and returns generated Dockerfiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		router := api.SetupRouter()
		logrus.WithField("port", servePort).Info("starting HTTP service")
		fmt.Printf("🌐 Listening on :%s\n", servePort)
		return router.Run(":" + servePort)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
