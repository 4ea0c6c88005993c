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

package analyze

import (
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// AssetFilter excludes assets by name. An asset is kept only when no pattern
// matches it.
type AssetFilter struct {
	patterns []*regexp.Regexp
	globs    []string
}

// NewAssetFilter compiles regular expressions and validates doublestar globs.
func NewAssetFilter(patterns []string, globs []string) (*AssetFilter, error) {
	f := &AssetFilter{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	for _, g := range globs {
		if g == "" {
			continue
		}
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude glob %q", g)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Include reports whether the asset name survives every exclusion. A nil
// filter includes everything.
func (f *AssetFilter) Include(name string) bool {
	if f == nil {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return false
		}
	}
	for _, g := range f.globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return false
		}
	}
	return true
}
