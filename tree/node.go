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

import (
	"slices"
	"strings"
)

// Node is any entry of a size tree.
type Node interface {
	Name() string
	Path() string
	Parent() Node
	// Size is the stat size: the module size reported by the bundler, or the
	// sum of children for folders.
	Size() (int, bool)
	// ParsedSize is the byte length of the node's text in the emitted bundle.
	ParsedSize() (int, bool)
	// CompressedSize is the parsed text's length under the tree's algorithm.
	CompressedSize() (int, bool)
	// Src is the node's text in the emitted bundle, if known.
	Src() string
	ChartData() *ChartData

	setParent(Node)
}

// container is a node that owns named children.
type container interface {
	Node
	Child(name string) Node
	Children() []Node
	addChildModule(m moduleNode)
	addChildFolder(f folderNode)
}

type moduleNode interface {
	Node
	record() *Record
	mergeData(r *Record)
}

type folderNode interface {
	container
	folder() *baseFolder
}

type node struct {
	name   string
	parent Node
	self   Node
}

func (n *node) Name() string { return n.name }

func (n *node) Parent() Node { return n.parent }

func (n *node) setParent(p Node) { n.parent = p }

// Path joins the names from the root down to this node.
func (n *node) Path() string {
	var parts []string
	for cur := n.self; cur != nil; cur = cur.Parent() {
		parts = append(parts, cur.Name())
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// childSet is a name-keyed set of nodes that remembers insertion order.
type childSet struct {
	names []string
	nodes map[string]Node
}

func (c *childSet) get(name string) Node {
	return c.nodes[name]
}

func (c *childSet) put(name string, n Node) {
	if c.nodes == nil {
		c.nodes = make(map[string]Node)
	}
	if _, exists := c.nodes[name]; !exists {
		c.names = append(c.names, name)
	}
	c.nodes[name] = n
}

func (c *childSet) list() []Node {
	out := make([]Node, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.nodes[name])
	}
	return out
}

func (c *childSet) len() int {
	return len(c.names)
}

// placeModule inserts m into set under its name. An existing folder of the
// same name wins and m is dropped; an existing module absorbs m's data.
// It reports whether the set changed.
func placeModule(set *childSet, owner Node, m moduleNode) bool {
	switch current := set.get(m.Name()).(type) {
	case nil:
		m.setParent(owner)
		set.put(m.Name(), m)
	case folderNode:
		return false
	case moduleNode:
		current.mergeData(m.record())
	}
	return true
}

// placeRecord walks or creates the folders named by parts[:len-1] below root
// and hands the final segment to newModule. isFolder decides whether an
// existing child can be descended into; anything else is replaced by a new
// folder from newFolder.
func placeRecord(
	root container,
	parts []string,
	isFolder func(Node) bool,
	newFolder func(name string) folderNode,
	newModule func(name string, parent container) moduleNode,
) {
	dirs, file := parts[:len(parts)-1], parts[len(parts)-1]

	current := root
	for _, dir := range dirs {
		child := current.Child(dir)
		if child == nil || !isFolder(child) {
			f := newFolder(dir)
			current.addChildFolder(f)
			child = f
		}
		current = child.(container)
	}

	current.addChildModule(newModule(file, current))
}
