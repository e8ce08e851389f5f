package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

// @title CRM API
// @version 1.0
// @description Contacts, numbered sales documents, projects, scheduling and support tickets.
// @BasePath /
func main() {
	cmd := &cli.Command{
		Name:   "crmapi",
		Usage:  "CRM backend: contacts, sales documents, projects, scheduling and support tickets",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply the database schema and exit",
				Action: migrate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application_error", "error", err.Error())
		os.Exit(1)
	}
}
