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

// Module is a single bundled module.
type Module struct {
	node
	data Record
	opts *Options

	compressed *int
	compDone   bool
}

func newModule(name string, r *Record, parent Node, opts *Options) *Module {
	m := &Module{}
	m.init(name, r, parent, opts, m)
	return m
}

func (m *Module) init(name string, r *Record, parent Node, opts *Options, self Node) {
	m.node = node{name: name, parent: parent, self: self}
	m.data = *r
	m.opts = opts
}

func (m *Module) record() *Record { return &m.data }

// ID is the bundler's id for the module.
func (m *Module) ID() string { return m.data.ID }

func (m *Module) Src() string { return m.data.ParsedSrc }

// SetSrc replaces the module's parsed text and drops its cached compressed
// size.
func (m *Module) SetSrc(src string) {
	m.data.ParsedSrc = src
	m.compressed, m.compDone = nil, false
}

func (m *Module) Size() (int, bool) {
	if m.data.Size == nil {
		return 0, false
	}
	return *m.data.Size, true
}

func (m *Module) ParsedSize() (int, bool) {
	return m.ownParsedSize()
}

func (m *Module) CompressedSize() (int, bool) {
	return m.ownCompressedSize()
}

func (m *Module) ownParsedSize() (int, bool) {
	if m.data.ParsedSrc == "" {
		return 0, false
	}
	return len(m.data.ParsedSrc), true
}

func (m *Module) ownCompressedSize() (int, bool) {
	if !m.compDone {
		m.compressed = optional(m.opts.compressedSize(m.data.ParsedSrc))
		m.compDone = true
	}
	if m.compressed == nil {
		return 0, false
	}
	return *m.compressed, true
}

// mergeData folds another record for the same path into this module: sizes
// add up and parsed text is appended.
func (m *Module) mergeData(r *Record) {
	if r.Size != nil && *r.Size != 0 {
		sum := *r.Size
		if m.data.Size != nil {
			sum += *m.data.Size
		}
		m.data.Size = &sum
	}
	if r.ParsedSrc != "" {
		m.SetSrc(m.data.ParsedSrc + r.ParsedSrc)
	}
}

func (m *Module) ChartData() *ChartData {
	return moduleChart(m.self, m.data.ID, m.opts)
}

func moduleChart(n Node, id string, opts *Options) *ChartData {
	size, sizeOK := n.Size()
	c := &ChartData{
		ID:         id,
		Label:      n.Name(),
		Path:       n.Path(),
		StatSize:   optional(size, sizeOK),
		ParsedSize: optional(n.ParsedSize()),
	}
	c.setCompressed(opts.algorithm(), optional(n.CompressedSize()))
	return c
}
