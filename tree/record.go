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

// Record describes one module as reported by the bundler's stats.
type Record struct {
	ID         string
	Identifier string
	Name       string
	// Size is the stat size. Nil means the stats did not report one.
	Size *int
	// Modules holds the inner modules of a concatenated module. A non-nil
	// (even empty) slice marks the record as concatenated.
	Modules []*Record
	// ParsedSrc is the module's text as extracted from the emitted bundle.
	ParsedSrc string
}

// Options configures size computation for a tree.
type Options struct {
	// Compression selects the one compressed size reported per node.
	// An empty value disables compressed sizes.
	Compression sizes.Algorithm
}

func (o *Options) compressedSize(src string) (int, bool) {
	if o == nil || o.Compression == "" || src == "" {
		return 0, false
	}
	n, err := sizes.Compressed(o.Compression, src)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (o *Options) algorithm() sizes.Algorithm {
	if o == nil {
		return ""
	}
	return o.Compression
}

// scaled returns floor(part / whole * value). The result is undefined when any
// operand is unknown or whole is zero.
func scaled(part int, partOK bool, whole int, wholeOK bool, value int, valueOK bool) (int, bool) {
	if !partOK || !wholeOK || !valueOK || whole == 0 {
		return 0, false
	}
	return int(int64(part) * int64(value) / int64(whole)), true
}

func optional(n int, ok bool) *int {
	if !ok {
		return nil
	}
	return &n
}
