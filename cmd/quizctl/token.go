package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
)

func tokenCmd() *cli.Command {
	var secret string
	codec := func(now int64) (*auth.Codec, error) {
		var opts []auth.CodecOption
		if now != 0 {
			opts = append(opts, auth.WithClock(func() time.Time { return time.Unix(now, 0) }))
		}
		return auth.NewCodec([]byte(secret), opts...)
	}
	return &cli.Command{
		Name:  "token",
		Usage: "Issue, verify and inspect session tokens",
		Flags: []cli.Flag{secretFlag(&secret)},
		Subcommands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Issue a session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "User id for the userId claim", Required: true},
					&cli.StringFlag{Name: "ttl", Usage: "Lifetime (e.g. 30s, 15m, 12h, 7d)", Value: auth.DefaultTTL.String()},
					&cli.StringSliceFlag{Name: "claim", Usage: "Extra string claim as key=value"},
					&cli.Int64Flag{Name: "now", Usage: "Issue as of this unix time", Hidden: true},
				},
				Action: func(ctx *cli.Context) error {
					ttl, err := auth.ParseTTL(ctx.String("ttl"))
					if err != nil {
						return err
					}
					claims := auth.Claims{}
					for _, kv := range ctx.StringSlice("claim") {
						k, v, ok := strings.Cut(kv, "=")
						if !ok || k == "" {
							return fmt.Errorf("claim %q: want key=value", kv)
						}
						claims[k] = v
					}
					claims[session.ClaimUserID] = ctx.String("user")
					c, err := codec(ctx.Int64("now"))
					if err != nil {
						return err
					}
					token, err := c.Issue(claims, ttl)
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, token)
					return nil
				},
			},
			{
				Name:      "verify",
				Usage:     "Verify a token and print its claims",
				ArgsUsage: "<token>",
				Action: func(ctx *cli.Context) error {
					if ctx.NArg() != 1 {
						return errors.New("expected exactly one token")
					}
					c, err := codec(0)
					if err != nil {
						return err
					}
					claims, ok := c.Verify(ctx.Args().First())
					if !ok {
						return errors.New("invalid token")
					}
					return printJSON(ctx, claims)
				},
			},
			{
				Name:      "decode",
				Usage:     "Print a token's claims without checking the signature",
				ArgsUsage: "<token>",
				Action: func(ctx *cli.Context) error {
					if ctx.NArg() != 1 {
						return errors.New("expected exactly one token")
					}
					claims, err := auth.DecodePayload(ctx.Args().First())
					if err != nil {
						return err
					}
					return printJSON(ctx, claims)
				},
			},
		},
	}
}

func printJSON(ctx *cli.Context, v any) error {
	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
