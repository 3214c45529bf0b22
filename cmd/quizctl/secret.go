package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
)

func secretCmd() *cli.Command {
	var size int
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage the token signing secret",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Print a random secret suitable for JWT_SECRET",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "bytes",
						Aliases:     []string{"n"},
						Usage:       "Number of random bytes",
						Value:       auth.MinSecretLength,
						Destination: &size,
					},
				},
				Action: func(ctx *cli.Context) error {
					s, err := auth.GenerateSecret(size)
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, s)
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "Check the secret in JWT_SECRET",
				Flags: []cli.Flag{secretFlag(new(string))},
				Action: func(ctx *cli.Context) error {
					if err := auth.CheckSecret([]byte(ctx.String("secret"))); err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, "ok")
					return nil
				},
			},
		},
	}
}

func secretFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "secret",
		Usage:       "Token signing secret",
		EnvVars:     []string{"JWT_SECRET"},
		Destination: dst,
	}
}
