/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package analyze provides the analyze command.
package analyze

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/bundlemap/analyze"
	"bennypowers.dev/bundlemap/fs"
	"bennypowers.dev/bundlemap/internal/logging"
	"bennypowers.dev/bundlemap/internal/output"
	"bennypowers.dev/bundlemap/sizes"
	"bennypowers.dev/bundlemap/stats"
)

// Cmd reports per-module sizes for every script asset in a webpack stats
// file.
var Cmd = &cobra.Command{
	Use:   "analyze <stats.json>",
	Short: "Report module sizes of webpack bundles",
	Long: `Analyze a webpack stats file and the bundles it describes.

Each script asset is reported as a tree of folders and modules with stat
sizes from the stats file and, when the bundles can be read, parsed and
compressed sizes measured from the emitted code.`,
	Example: `  # JSON report, bundles read next to the stats file
  bundlemap analyze dist/stats.json

  # Stats piped on stdin, bundles read from the compilation's outputPath
  webpack --json | bundlemap analyze -

  # Text tree of gzip sizes, ignoring vendor chunks
  bundlemap analyze dist/stats.json --format tree --sizes compressed --exclude '^vendor'

  # Brotli sizes, bundles in a separate directory
  bundlemap analyze stats.json --bundle-dir build/js --compression brotli`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	f := Cmd.Flags()
	f.StringP("bundle-dir", "d", "", "Directory containing the emitted bundles (default: the stats file's directory)")
	f.Bool("stat-only", false, "Skip bundle parsing and report stat sizes only")
	f.StringP("compression", "c", string(sizes.Gzip), "Compression algorithm for compressed sizes (gzip, brotli, zstd)")
	f.StringArrayP("exclude", "e", nil, "Regular expression of asset names to exclude (repeatable)")
	f.StringArray("exclude-glob", nil, "Glob of asset names to exclude (repeatable)")
	f.StringP("format", "f", "json", "Output format (json, tree)")
	f.String("sizes", string(output.ParsedSize), "Size shown by the tree format (stat, parsed, compressed)")
	f.IntP("jobs", "j", 0, "Number of parallel bundle parsers (default: number of CPUs)")

	for _, name := range []string{"bundle-dir", "stat-only", "compression", "exclude", "exclude-glob", "format", "sizes", "jobs"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
}

func run(cmd *cobra.Command, args []string) error {
	return Analyze(fs.NewOSFileSystem(), args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Analyze runs the analyze command against osfs using the options held by
// viper. A statsPath of "-" reads the stats from stdin. Reports go to stdout
// (or the configured output file), logs to stderr.
func Analyze(osfs fs.FileSystem, statsPath string, stdin io.Reader, stdout, stderr io.Writer) error {
	log, err := logging.New(viper.GetString("log-level"), stderr)
	if err != nil {
		return err
	}

	format := viper.GetString("format")
	if !slices.Contains(output.Formats, format) {
		return fmt.Errorf("invalid format %q: must be one of json, tree", format)
	}
	kind, err := output.ParseSizeKind(viper.GetString("sizes"))
	if err != nil {
		return err
	}
	alg, err := sizes.ParseAlgorithm(viper.GetString("compression"))
	if err != nil {
		return err
	}
	filter, err := analyze.NewAssetFilter(viper.GetStringSlice("exclude"), viper.GetStringSlice("exclude-glob"))
	if err != nil {
		return err
	}

	var c *stats.Compilation
	if statsPath == "-" {
		c, err = stats.Decode(stdin)
	} else {
		c, err = stats.ParseFile(osfs, statsPath)
	}
	if err != nil {
		return err
	}

	bundleDir := viper.GetString("bundle-dir")
	switch {
	case bundleDir != "":
	case statsPath == "-":
		bundleDir = c.OutputPath
	default:
		bundleDir = filepath.Dir(statsPath)
	}
	if viper.GetBool("stat-only") {
		bundleDir = ""
	}

	log.Debug().Str("stats", statsPath).Str("bundleDir", bundleDir).Str("compression", string(alg)).Msg("Analyzing")

	charts, err := analyze.ViewerData(c, analyze.Options{
		BundleDir:   bundleDir,
		Compression: alg,
		Filter:      filter,
		Parallel:    viper.GetInt("jobs"),
		FS:          osfs,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "tree":
		out, err = output.Tree(charts, kind, alg)
	default:
		out, err = output.JSON(charts)
	}
	if err != nil {
		return err
	}
	return output.Write(osfs, stdout, out)
}
