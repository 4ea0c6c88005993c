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

// Package stats decodes the webpack stats manifest.
package stats

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"bennypowers.dev/bundlemap/fs"
)

// ID is a module or chunk id. Webpack emits numbers or strings; both are
// kept as their decimal or literal text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("module id must be a string or number: %w", err)
		}
		*id = ID(n.String())
	}
	return nil
}

// Compilation is one webpack compilation, possibly with child compilations.
type Compilation struct {
	OutputPath        string                 `json:"outputPath"`
	Assets            []*Asset               `json:"assets"`
	Chunks            []*Chunk               `json:"chunks"`
	Modules           []*Module              `json:"modules"`
	Entrypoints       map[string]*Entrypoint `json:"entrypoints"`
	AssetsByChunkName map[string]Files       `json:"assetsByChunkName"`
	Children          []*Compilation         `json:"children"`
}

// Asset is an emitted file.
type Asset struct {
	Name   string    `json:"name"`
	Size   int       `json:"size"`
	Type   string    `json:"type"`
	Chunks []ID      `json:"chunks"`
	Info   AssetInfo `json:"info"`
}

type AssetInfo struct {
	JavascriptModule bool `json:"javascriptModule"`
}

// Chunk groups modules emitted together.
type Chunk struct {
	ID      ID        `json:"id"`
	Modules []*Module `json:"modules"`
}

// Module is a module record as reported in the manifest.
type Module struct {
	ID         ID        `json:"id"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Size       *int      `json:"size"`
	Chunks     []ID      `json:"chunks"`
	Depth      *int      `json:"depth"`
	ModuleType string    `json:"moduleType"`
	Modules    []*Module `json:"modules"`
}

// IsRuntime reports whether webpack generated the module for its runtime.
func (m *Module) IsRuntime() bool {
	return m.ModuleType == "runtime"
}

// IsEntry reports whether the module is an entry point (depth 0).
func (m *Module) IsEntry() bool {
	return m.Depth != nil && *m.Depth == 0
}

// Entrypoint is a named entry and the assets it loads.
type Entrypoint struct {
	Name   string            `json:"name"`
	Assets []EntrypointAsset `json:"assets"`
}

// EntrypointAsset is an asset listed by an entrypoint. Webpack 4 lists plain
// names, webpack 5 objects with a name.
type EntrypointAsset struct {
	Name string `json:"name"`
	Size *int   `json:"size,omitempty"`
}

func (a *EntrypointAsset) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Name)
	}
	type plain EntrypointAsset
	return json.Unmarshal(data, (*plain)(a))
}

// Files is a list of file names that may be written as a single string.
type Files []string

func (f *Files) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*f = Files{name}
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*f = names
	return nil
}

// Parse decodes a stats manifest.
func Parse(data []byte) (*Compilation, error) {
	var c Compilation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding stats: %w", err)
	}
	c.fillEntrypointNames()
	return &c, nil
}

// Decode reads and decodes a stats manifest from r.
func Decode(r io.Reader) (*Compilation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	return Parse(data)
}

// ParseFile reads and decodes the stats manifest at path.
func ParseFile(fsys fs.FileSystem, path string) (*Compilation, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stats %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// fillEntrypointNames names entrypoints after their map key when the
// manifest omits the name field.
func (c *Compilation) fillEntrypointNames() {
	for name, ep := range c.Entrypoints {
		if ep != nil && ep.Name == "" {
			ep.Name = name
		}
	}
	for _, child := range c.Children {
		if child != nil {
			child.fillEntrypointNames()
		}
	}
}

// HasAsset reports whether any chunk listed in assetsByChunkName emits name.
func (c *Compilation) HasAsset(name string) bool {
	for _, files := range c.AssetsByChunkName {
		for _, file := range files {
			if file == name {
				return true
			}
		}
	}
	return false
}
