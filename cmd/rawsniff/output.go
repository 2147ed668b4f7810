//nolint:wrapcheck
package main

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/rawsniff"
	"github.com/farcloser/rawsniff/internal/diagnostics"
)

func outputResult(
	path string,
	result rawsniff.Result,
	descriptor rawsniff.Descriptor,
	report *diagnostics.Report,
	formatName string,
) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	meta := map[string]any{
		"format":          result.Class.Format.String(),
		"endianness":      result.Class.Endian.String(),
		"channels":        result.Channels,
		"codec_bit_depth": descriptor.BitDepth,
		"summary":         fmt.Sprintf("%s, %d channel(s)", result.Class, result.Channels),
	}

	if report != nil {
		meta["dc_offset"] = report.DCOffset
		if result.Channels == 2 {
			meta["correlation"] = report.Correlation
		}
	}

	data := &format.Data{
		Object: path,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
