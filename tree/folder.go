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

import "strings"

// baseFolder holds the children and cached aggregates shared by Folder and
// ContentFolder.
type baseFolder struct {
	node
	children childSet

	size       *int
	src        *string
	compressed *int
	compDone   bool
}

func (f *baseFolder) folder() *baseFolder { return f }

// Child returns the direct child with the given name, or nil.
func (f *baseFolder) Child(name string) Node {
	return f.children.get(name)
}

// Children returns the direct children in insertion order.
func (f *baseFolder) Children() []Node {
	return f.children.list()
}

// Size sums the children's stat sizes. Children without a size count as zero.
func (f *baseFolder) Size() (int, bool) {
	if f.size == nil {
		total := 0
		for _, child := range f.children.list() {
			if n, ok := child.Size(); ok {
				total += n
			}
		}
		f.size = &total
	}
	return *f.size, true
}

// Src concatenates the children's text in insertion order.
func (f *baseFolder) Src() string {
	if f.src == nil {
		var b strings.Builder
		for _, child := range f.children.list() {
			b.WriteString(child.Src())
		}
		s := b.String()
		f.src = &s
	}
	return *f.src
}

func (f *baseFolder) ownParsedSize() (int, bool) {
	src := f.Src()
	if src == "" {
		return 0, false
	}
	return len(src), true
}

func (f *baseFolder) ownCompressedSize(opts *Options) (int, bool) {
	if !f.compDone {
		f.compressed = optional(opts.compressedSize(f.Src()))
		f.compDone = true
	}
	if f.compressed == nil {
		return 0, false
	}
	return *f.compressed, true
}

// invalidate drops cached aggregates here and in every ancestor folder.
func (f *baseFolder) invalidate() {
	f.size, f.src, f.compressed, f.compDone = nil, nil, nil, false
	if p, ok := f.parent.(folderNode); ok {
		p.folder().invalidate()
	}
}

func (f *baseFolder) addChildModule(m moduleNode) {
	if placeModule(&f.children, f.self, m) {
		f.invalidate()
	}
}

func (f *baseFolder) addChildFolder(child folderNode) {
	child.setParent(f.self)
	f.children.put(child.Name(), child)
	f.invalidate()
}

// mergeNested collapses single-child chains of the same folder kind into one
// node named "a/b/c", then recurses into every child.
func (f *baseFolder) mergeNested(sameKind func(Node) bool) {
	if f.parent != nil {
		for f.children.len() == 1 {
			only := f.children.list()[0]
			if !sameKind(only) {
				break
			}
			inner := only.(folderNode).folder()
			f.name += "/" + inner.name
			f.children = inner.children
		}
	}

	for _, child := range f.children.list() {
		child.setParent(f.self)
		if m, ok := child.(interface{ MergeNestedFolders() }); ok {
			m.MergeNestedFolders()
		}
	}
	f.invalidate()
}

func (f *baseFolder) groups() []*ChartData {
	children := f.children.list()
	groups := make([]*ChartData, 0, len(children))
	for _, child := range children {
		groups = append(groups, child.ChartData())
	}
	return groups
}

// Folder is a directory of modules in the bundle tree. The root folder is
// named "." and has no parent.
type Folder struct {
	baseFolder
	opts *Options
}

// NewFolder returns an empty root folder.
func NewFolder(name string, opts *Options) *Folder {
	return newFolder(name, opts)
}

func newFolder(name string, opts *Options) *Folder {
	f := &Folder{opts: opts}
	f.node = node{name: name, self: f}
	return f
}

// Build returns the tree for records, with nested single-child folders merged.
func Build(records []*Record, opts *Options) *Folder {
	root := NewFolder(".", opts)
	for _, r := range records {
		root.AddModule(r)
	}
	root.MergeNestedFolders()
	return root
}

// ParsedSize is the length of the folder's concatenated text, unknown when no
// child has text.
func (f *Folder) ParsedSize() (int, bool) {
	return f.ownParsedSize()
}

func (f *Folder) CompressedSize() (int, bool) {
	return f.ownCompressedSize(f.opts)
}

// AddModule places r at the path derived from its name, creating folders as
// needed. Records without a usable path are ignored.
func (f *Folder) AddModule(r *Record) {
	parts := ModulePathParts(r)
	if parts == nil {
		return
	}
	placeRecord(f, parts,
		func(n Node) bool {
			_, ok := n.(*Folder)
			return ok
		},
		func(name string) folderNode { return newFolder(name, f.opts) },
		func(name string, parent container) moduleNode {
			if r.Modules != nil {
				return newConcatenatedModule(name, r, parent, f.opts)
			}
			return newModule(name, r, parent, f.opts)
		},
	)
}

// MergeNestedFolders collapses chains of single-child folders below f.
// The root folder itself is never renamed.
func (f *Folder) MergeNestedFolders() {
	f.mergeNested(func(n Node) bool {
		_, ok := n.(*Folder)
		return ok
	})
}

func (f *Folder) ChartData() *ChartData {
	size, sizeOK := f.Size()
	c := &ChartData{
		Label:      f.name,
		Path:       f.Path(),
		StatSize:   optional(size, sizeOK),
		ParsedSize: optional(f.ParsedSize()),
		Groups:     f.groups(),
	}
	c.setCompressed(f.opts.algorithm(), optional(f.CompressedSize()))
	return c
}

// ContentFolder groups the inner modules of a concatenated module. Its parsed
// and compressed sizes are estimated from the owning module.
type ContentFolder struct {
	baseFolder
	owner *ConcatenatedModule
}

func newContentFolder(name string, owner *ConcatenatedModule) *ContentFolder {
	f := &ContentFolder{owner: owner}
	f.node = node{name: name, self: f}
	return f
}

func (f *ContentFolder) ParsedSize() (int, bool) {
	return f.owner.estimateShare(f, Node.ParsedSize)
}

func (f *ContentFolder) CompressedSize() (int, bool) {
	return f.owner.estimateShare(f, Node.CompressedSize)
}

func (f *ContentFolder) MergeNestedFolders() {
	f.mergeNested(func(n Node) bool {
		_, ok := n.(*ContentFolder)
		return ok
	})
}

func (f *ContentFolder) ChartData() *ChartData {
	size, sizeOK := f.Size()
	c := &ChartData{
		Label:           f.name,
		Path:            f.Path(),
		StatSize:        optional(size, sizeOK),
		ParsedSize:      optional(f.ParsedSize()),
		InaccurateSizes: true,
		Groups:          f.groups(),
	}
	c.setCompressed(f.owner.opts.algorithm(), optional(f.CompressedSize()))
	return c
}
