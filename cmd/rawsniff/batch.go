//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/rawsniff"
	"github.com/farcloser/rawsniff/internal/diagnostics"
)

var (
	errNotDirectory = errors.New("not a directory")
	errNoRawFiles   = errors.New("no candidate raw audio files found")
	errBatchArgs    = errors.New("expected exactly one argument: folder path")
)

// batchExtensions lists the file extensions considered candidate raw audio
// files when scanning a directory; headerless PCM has no registered
// extension of its own, so this is necessarily a guess.
var batchExtensions = []string{".raw", ".pcm", ".bin"}

// Record is one line of the batch report's JSONL output.
type Record struct {
	File        string    `json:"file"`
	Format      string    `json:"format,omitempty"`
	Endianness  string    `json:"endianness,omitempty"`
	Channels    int       `json:"channels,omitempty"`
	BitDepth    int       `json:"bit_depth,omitempty"`
	Error       string    `json:"error,omitempty"`
	DCOffset    []float64 `json:"dc_offset,omitempty"`
	Correlation float64   `json:"correlation,omitempty"`
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Scan a directory and write a rawsniff JSONL classification report",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "sample-rate",
				Usage: "sample rate in Hz, used only for the peripheral codec mapping",
				Value: 44100,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "output JSONL file path",
				Value: "rawsniff-report.jsonl",
			},
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "also report DC offset and, for stereo results, inter-channel correlation",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errBatchArgs, cmd.NArg())
			}

			return runBatch(
				cmd.Args().First(),
				cmd.Int("sample-rate"),
				max(cmd.Int("workers"), 1),
				cmd.String("output"),
				cmd.Bool("diagnostics"),
			)
		},
	}
}

func runBatch(folder string, sampleRate, workers int, outputPath string, diag bool) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", folder, errNotDirectory)
	}

	files, err := collectCandidateFiles(folder)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", folder, errNoRawFiles)
	}

	fmt.Fprintf(os.Stderr, "Found %d candidate files to classify (%d workers)\n", len(files), workers)

	records := make([]Record, len(files))

	var progress atomic.Int64

	sem := make(chan struct{}, workers)

	var waitGroup sync.WaitGroup

	for idx, filePath := range files {
		waitGroup.Add(1)

		go func(idx int, filePath string) {
			defer waitGroup.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			records[idx] = classifyOne(filePath, sampleRate, diag)

			done := progress.Add(1)
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, len(files), filePath)
		}(idx, filePath)
	}

	waitGroup.Wait()

	out, err := os.Create(outputPath) //nolint:gosec // CLI tool writes to a user-specified output path
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0

	for idx := range records {
		if records[idx].Error != "" {
			failed++
		}

		if err := enc.Encode(&records[idx]); err != nil {
			fmt.Fprintf(os.Stderr, "writing record for %s: %v\n", files[idx], err)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d files (%d failed)\nReport written to %s\n", len(files), failed, outputPath)

	return nil
}

func classifyOne(filePath string, sampleRate int, diag bool) Record {
	result, err := rawsniff.Classify(filePath)
	if err != nil {
		return Record{File: filePath, Error: err.Error()}
	}

	descriptor, err := rawsniff.CodecFormat(sampleRate, result)
	if err != nil {
		return Record{File: filePath, Error: err.Error()}
	}

	record := Record{
		File:       filePath,
		Format:     result.Class.Format.String(),
		Endianness: result.Class.Endian.String(),
		Channels:   result.Channels,
		BitDepth:   descriptor.BitDepth,
	}

	if diag {
		if report, err := diagnosticsFor(filePath, result); err == nil {
			record.DCOffset = report.DCOffset
			record.Correlation = report.Correlation
		}
	}

	return record
}

func diagnosticsFor(filePath string, result rawsniff.Result) (diagnostics.Report, error) {
	f, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return diagnostics.Report{}, err
	}
	defer f.Close()

	return diagnostics.Analyze(f, result)
}

func collectCandidateFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if slices.Contains(batchExtensions, ext) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
