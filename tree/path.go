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

// Package tree models a bundle's modules as a folder hierarchy with raw, parsed
// and compressed sizes.
package tree

import "strings"

// multiModulePrefix marks webpack's synthetic multi-entry modules, which are
// grouped under their whole identifier instead of being split into folders.
const multiModulePrefix = "multi "

// ModulePathParts returns the folder and file segments of a module record.
// Loader chains ("style-loader!css-loader!./a.css") are dropped, the leading
// root segment ("." in "./src/a.js") is removed, and "~" segments are expanded
// to "node_modules". It returns nil when the record has no usable name.
func ModulePathParts(r *Record) []string {
	if strings.HasPrefix(r.Identifier, multiModulePrefix) {
		return []string{r.Identifier}
	}

	if r.Name == "" {
		return nil
	}

	loaders := strings.Split(r.Name, "!")
	parts := strings.Split(loaders[len(loaders)-1], "/")[1:]
	for i, part := range parts {
		if part == "~" {
			parts[i] = "node_modules"
		}
	}

	if len(parts) == 0 {
		return nil
	}
	return parts
}
