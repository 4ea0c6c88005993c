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

// ConcatenatedModule is a module produced by scope hoisting several source
// modules into one. Its inner modules hang below it as ContentModule and
// ContentFolder nodes.
type ConcatenatedModule struct {
	Module
	children childSet
}

func newConcatenatedModule(name string, r *Record, parent Node, opts *Options) *ConcatenatedModule {
	c := &ConcatenatedModule{}
	c.init(name+" (concatenated)", r, parent, opts, c)
	for _, inner := range r.Modules {
		c.addContentModule(inner)
	}
	return c
}

func (c *ConcatenatedModule) Child(name string) Node {
	return c.children.get(name)
}

func (c *ConcatenatedModule) Children() []Node {
	return c.children.list()
}

// ParsedSize is the module's own parsed size, or an estimate from its parent
// proportional to its stat size.
func (c *ConcatenatedModule) ParsedSize() (int, bool) {
	if n, ok := c.ownParsedSize(); ok {
		return n, true
	}
	return c.shareOfParent(Node.ParsedSize)
}

func (c *ConcatenatedModule) CompressedSize() (int, bool) {
	if n, ok := c.ownCompressedSize(); ok {
		return n, true
	}
	return c.shareOfParent(Node.CompressedSize)
}

func (c *ConcatenatedModule) shareOfParent(measure func(Node) (int, bool)) (int, bool) {
	if c.parent == nil {
		return 0, false
	}
	size, sizeOK := c.Size()
	whole, wholeOK := c.parent.Size()
	value, valueOK := measure(c.parent)
	return scaled(size, sizeOK, whole, wholeOK, value, valueOK)
}

// estimateShare scales this module's measure by n's share of its stat size.
func (c *ConcatenatedModule) estimateShare(n Node, measure func(Node) (int, bool)) (int, bool) {
	size, sizeOK := n.Size()
	whole, wholeOK := c.Size()
	value, valueOK := measure(c)
	return scaled(size, sizeOK, whole, wholeOK, value, valueOK)
}

func (c *ConcatenatedModule) addContentModule(r *Record) {
	parts := ModulePathParts(r)
	if parts == nil {
		return
	}
	placeRecord(c, parts,
		func(n Node) bool {
			_, ok := n.(*ContentFolder)
			return ok
		},
		func(name string) folderNode { return newContentFolder(name, c) },
		func(name string, parent container) moduleNode {
			if r.Modules != nil {
				return newConcatenatedModule(name, r, parent, c.opts)
			}
			return newContentModule(name, r, c)
		},
	)
}

func (c *ConcatenatedModule) addChildModule(m moduleNode) {
	placeModule(&c.children, c, m)
}

func (c *ConcatenatedModule) addChildFolder(f folderNode) {
	f.setParent(c)
	c.children.put(f.Name(), f)
}

// MergeNestedFolders collapses single-child content folder chains below c.
func (c *ConcatenatedModule) MergeNestedFolders() {
	for _, child := range c.children.list() {
		if m, ok := child.(interface{ MergeNestedFolders() }); ok {
			m.MergeNestedFolders()
		}
	}
}

func (c *ConcatenatedModule) ChartData() *ChartData {
	chart := moduleChart(c, c.data.ID, c.opts)
	chart.Concatenated = true
	children := c.children.list()
	chart.Groups = make([]*ChartData, 0, len(children))
	for _, child := range children {
		chart.Groups = append(chart.Groups, child.ChartData())
	}
	return chart
}
