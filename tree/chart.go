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

package tree

import "bennypowers.dev/bundlemap/sizes"

// ChartData is the serializable view of a node consumed by visualizers.
type ChartData struct {
	ID              string       `json:"id,omitempty"`
	Label           string       `json:"label"`
	Path            string       `json:"path"`
	StatSize        *int         `json:"statSize,omitempty"`
	ParsedSize      *int         `json:"parsedSize,omitempty"`
	GzipSize        *int         `json:"gzipSize,omitempty"`
	BrotliSize      *int         `json:"brotliSize,omitempty"`
	ZstdSize        *int         `json:"zstdSize,omitempty"`
	Concatenated    bool         `json:"concatenated,omitempty"`
	InaccurateSizes bool         `json:"inaccurateSizes,omitempty"`
	Groups          []*ChartData `json:"groups,omitempty"`
}

// CompressedSize returns the size recorded for alg.
func (c *ChartData) CompressedSize(alg sizes.Algorithm) *int {
	switch alg {
	case sizes.Gzip:
		return c.GzipSize
	case sizes.Brotli:
		return c.BrotliSize
	case sizes.Zstd:
		return c.ZstdSize
	}
	return nil
}

func (c *ChartData) setCompressed(alg sizes.Algorithm, n *int) {
	switch alg {
	case sizes.Gzip:
		c.GzipSize = n
	case sizes.Brotli:
		c.BrotliSize = n
	case sizes.Zstd:
		c.ZstdSize = n
	}
}
