// Command rawsniff infers the PCM sample format, byte order, and channel
// count of a headerless raw audio file.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/rawsniff/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Infer the PCM sample format, byte order, and channel count of a raw audio file",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			classifyCommand(),
			batchCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("rawsniff failed", "error", err)
		os.Exit(1)
	}
}
