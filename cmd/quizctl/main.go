// Command quizctl is the operator tool for the quiz service: secrets,
// credentials, tokens and schema migrations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "quizctl",
		Usage: "Operate the quiz service",
		Commands: []*cli.Command{
			secretCmd(),
			passwordCmd(),
			tokenCmd(),
			migrateCmd(),
		},
	}
}

func main() {
	_ = godotenv.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "quizctl: %v\n", err)
		os.Exit(1)
	}
}
