//nolint:staticcheck,wrapcheck // matches the project's CLI command style
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/rawsniff"
	"github.com/farcloser/rawsniff/internal/diagnostics"
)

var errInvalidArgCount = errors.New("expected exactly one argument: file path")

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify a headerless raw audio file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "sample-rate",
				Usage: "sample rate in Hz, used only for the peripheral codec mapping",
				Value: 44100,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "also report DC offset and, for stereo results, inter-channel correlation",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			path := cmd.Args().First()

			result, err := rawsniff.Classify(path)
			if err != nil {
				return fmt.Errorf("classifying %s: %w", path, err)
			}

			descriptor, err := rawsniff.CodecFormat(cmd.Int("sample-rate"), result)
			if err != nil {
				return err
			}

			var report *diagnostics.Report

			if cmd.Bool("diagnostics") {
				f, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
				if err != nil {
					return fmt.Errorf("reopening %s for diagnostics: %w", path, err)
				}
				defer f.Close()

				r, err := diagnostics.Analyze(f, result)
				if err != nil {
					return fmt.Errorf("diagnostics: %w", err)
				}

				report = &r
			}

			return outputResult(path, result, descriptor, report, cmd.String("format"))
		},
	}
}
