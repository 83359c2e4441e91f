package cmd

import (
	"github.com/emrgen/book/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the book server",
		Run: func(cmd *cobra.Command, args []string) {
			if err := server.Start(port); err != nil {
				logrus.Fatalf("server stopped: %v", err)
			}
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "4020", "http port")

	return command
}
