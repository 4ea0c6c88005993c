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

// Package parse provides the parse command.
package parse

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/bundlemap/bundle"
	"bennypowers.dev/bundlemap/fs"
	"bennypowers.dev/bundlemap/internal/output"
)

// Cmd locates the modules inside a single bundle file.
var Cmd = &cobra.Command{
	Use:   "parse <bundle.js>",
	Short: "List the modules found in a bundle",
	Long: `Parse a single webpack bundle and list the modules found in it.

Prints the wrapper shape the modules container was found in, each module id
with its byte range, and the size of the remaining runtime code.`,
	Example: `  bundlemap parse dist/main.js
  bundlemap parse dist/main.mjs --module --format json`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("module", false, "Parse the bundle as an ES module")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

// Report summarizes one parsed bundle.
type Report struct {
	File        string         `json:"file"`
	Shape       string         `json:"shape"`
	Size        int            `json:"size"`
	RuntimeSize int            `json:"runtimeSize"`
	Modules     []ModuleReport `json:"modules"`
}

// ModuleReport locates one module in the bundle.
type ModuleReport struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Size  int    `json:"size"`
}

// NewReport builds the report for result, listing modules in bundle order.
func NewReport(file string, result *bundle.Result) *Report {
	r := &Report{
		File:        file,
		Shape:       result.Shape,
		Size:        len(result.Src),
		RuntimeSize: len(result.RuntimeSrc),
		Modules:     make([]ModuleReport, 0, len(result.Locations)),
	}
	for id, loc := range result.Locations {
		r.Modules = append(r.Modules, ModuleReport{ID: id, Start: loc.Start, End: loc.End, Size: loc.Len()})
	}
	slices.SortFunc(r.Modules, func(a, b ModuleReport) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return r
}

// Text renders the report for terminals.
func (r *Report) Text() string {
	var b strings.Builder
	shape := r.Shape
	if shape == "" {
		shape = "none"
	}
	fmt.Fprintf(&b, "%s\n", r.File)
	fmt.Fprintf(&b, "  shape:   %s\n", shape)
	fmt.Fprintf(&b, "  size:    %s\n", output.FormatSize(&r.Size))
	fmt.Fprintf(&b, "  runtime: %s\n", output.FormatSize(&r.RuntimeSize))
	fmt.Fprintf(&b, "  modules: %d\n", len(r.Modules))
	for _, m := range r.Modules {
		fmt.Fprintf(&b, "    %s\t%s\n", m.ID, output.FormatSize(&m.Size))
	}
	return b.String()
}

func run(cmd *cobra.Command, args []string) error {
	asModule, _ := cmd.Flags().GetBool("module")
	format, _ := cmd.Flags().GetString("format")
	return Parse(fs.NewOSFileSystem(), args[0], asModule, format, cmd.OutOrStdout())
}

// Parse parses the bundle at path and writes its report to w (or the
// configured output file).
func Parse(osfs fs.FileSystem, path string, asModule bool, format string, w io.Writer) error {
	kind := bundle.Script
	if asModule {
		kind = bundle.Module
	}

	result, err := bundle.ParseFile(osfs, path, kind)
	if err != nil {
		return err
	}
	report := NewReport(path, result)

	var out []byte
	switch format {
	case "json":
		out, err = output.JSON(report)
		if err != nil {
			return err
		}
	case "text":
		out = []byte(report.Text())
	default:
		return fmt.Errorf("invalid format %q: must be one of text, json", format)
	}
	return output.Write(osfs, w, out)
}
