package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
)

func passwordCmd() *cli.Command {
	var costN int
	nFlag := &cli.IntFlag{
		Name:        "scrypt-n",
		Usage:       "scrypt CPU/memory cost",
		Value:       auth.DefaultScryptN,
		Destination: &costN,
	}
	hasher := func() (*auth.Hasher, error) {
		opts := auth.DefaultHasherOptions()
		opts.N = costN
		return auth.NewHasher(opts)
	}
	return &cli.Command{
		Name:  "password",
		Usage: "Hash and verify stored credentials (the password is read from stdin)",
		Subcommands: []*cli.Command{
			{
				Name:  "hash",
				Usage: "Print the stored credential for a password",
				Flags: []cli.Flag{nFlag},
				Action: func(ctx *cli.Context) error {
					pw, err := readPassword(ctx.App.Reader)
					if err != nil {
						return err
					}
					h, err := hasher()
					if err != nil {
						return err
					}
					stored, err := h.Hash(ctx.Context, pw)
					if err != nil {
						return err
					}
					fmt.Fprintln(ctx.App.Writer, stored)
					return nil
				},
			},
			{
				Name:      "verify",
				Usage:     "Check a password against a stored credential",
				ArgsUsage: "<salt:key>",
				Flags:     []cli.Flag{nFlag},
				Action: func(ctx *cli.Context) error {
					if ctx.NArg() != 1 {
						return errors.New("expected exactly one stored credential")
					}
					pw, err := readPassword(ctx.App.Reader)
					if err != nil {
						return err
					}
					h, err := hasher()
					if err != nil {
						return err
					}
					ok, err := h.Verify(ctx.Context, pw, ctx.Args().First())
					if err != nil {
						return err
					}
					if !ok {
						return errors.New("password does not match")
					}
					fmt.Fprintln(ctx.App.Writer, "match")
					return nil
				},
			},
		},
	}
}

// readPassword reads the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("missing password on stdin")
	}
	pw := strings.TrimRight(sc.Text(), "\r")
	if pw == "" {
		return "", errors.New("missing password on stdin")
	}
	return pw, nil
}
