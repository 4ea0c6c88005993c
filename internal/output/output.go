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

// Package output writes command results as JSON or as a text tree.
package output

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ddddddO/gtree"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"bennypowers.dev/bundlemap/analyze"
	"bennypowers.dev/bundlemap/fs"
	"bennypowers.dev/bundlemap/sizes"
	"bennypowers.dev/bundlemap/tree"
)

// Formats lists the report formats.
var Formats = []string{"json", "tree"}

// SizeKind selects the size printed next to each tree entry.
type SizeKind string

const (
	StatSize       SizeKind = "stat"
	ParsedSize     SizeKind = "parsed"
	CompressedSize SizeKind = "compressed"
)

// ParseSizeKind validates a size kind name.
func ParseSizeKind(name string) (SizeKind, error) {
	switch k := SizeKind(strings.ToLower(name)); k {
	case StatSize, ParsedSize, CompressedSize:
		return k, nil
	}
	return "", fmt.Errorf("unknown size kind %q (want stat, parsed or compressed)", name)
}

var headingStyle = lipgloss.NewStyle().Bold(true)

// Write sends data to the file named by viper's "output" key, or to w when
// it is unset.
func Write(osfs fs.FileSystem, w io.Writer, data []byte) error {
	outputPath := viper.GetString("output")
	if outputPath == "" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := osfs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := osfs.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// JSON encodes v as indented JSON with a trailing newline.
func JSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// Tree renders each asset as a heading followed by its module tree, every
// entry labelled with the selected size.
func Tree(charts []*analyze.AssetChart, kind SizeKind, alg sizes.Algorithm) ([]byte, error) {
	var buf bytes.Buffer
	for i, chart := range charts {
		if i > 0 {
			buf.WriteByte('\n')
		}

		heading := fmt.Sprintf("%s (%s)", chart.Label, assetSize(chart, kind, alg))
		root := gtree.NewRoot(headingStyle.Render(heading))
		for _, group := range chart.Groups {
			addChart(root, group, kind, alg)
		}
		if err := gtree.OutputFromRoot(&buf, root); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", chart.Label, err)
		}
	}
	return buf.Bytes(), nil
}

func addChart(parent *gtree.Node, c *tree.ChartData, kind SizeKind, alg sizes.Algorithm) {
	var size *int
	switch kind {
	case StatSize:
		size = c.StatSize
	case ParsedSize:
		size = c.ParsedSize
	case CompressedSize:
		size = c.CompressedSize(alg)
	}

	label := c.Label
	if c.InaccurateSizes && kind != StatSize {
		label += " ~"
	}
	node := parent.Add(fmt.Sprintf("%s (%s)", label, formatSize(size)))
	for _, child := range c.Groups {
		addChart(node, child, kind, alg)
	}
}

func assetSize(c *analyze.AssetChart, kind SizeKind, alg sizes.Algorithm) string {
	switch kind {
	case ParsedSize:
		return formatSize(c.ParsedSize)
	case CompressedSize:
		return formatSize(c.CompressedSize(alg))
	}
	return formatSize(&c.StatSize)
}

// FormatSize renders a byte count for humans; nil is shown as "n/a".
func FormatSize(n *int) string {
	return formatSize(n)
}

func formatSize(n *int) string {
	if n == nil {
		return "n/a"
	}
	return humanize.Bytes(uint64(*n))
}
