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

package bundle

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/bundlemap/fs"
)

// SourceKind selects the JavaScript grammar goal a bundle is parsed with.
type SourceKind int

const (
	// Script is a classic script; import and export declarations are errors.
	Script SourceKind = iota
	// Module is an ES module.
	Module
)

func (k SourceKind) String() string {
	if k == Module {
		return "module"
	}
	return "script"
}

// Location is a half-open byte range in the bundle text.
type Location struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes in the range.
func (l Location) Len() int { return l.End - l.Start }

// Result is the outcome of parsing one bundle.
type Result struct {
	// Modules maps module ids to the text of their wrapper in the bundle.
	Modules map[string]string
	// Locations maps module ids to the byte range of their wrapper.
	Locations map[string]Location
	// Src is the whole bundle text.
	Src string
	// RuntimeSrc is Src with every module range removed.
	RuntimeSrc string
	// Shape names the wrapper context the modules were found in, or is empty
	// when the bundle has no recognizable modules container.
	Shape string
}

// SyntaxError reports bundle text that is not valid JavaScript.
type SyntaxError struct {
	// Line is 1-based, Column 0-based.
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Msg, e.Line, e.Column)
}

// Parse finds the modules container in a bundle and splits its text into
// module and runtime parts. A bundle with no recognizable container yields an
// empty Modules map and the whole text as runtime.
func Parse(content []byte, kind SourceKind) (*Result, error) {
	parser := getParser()
	defer putParser(parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse bundle")
	}
	defer tree.Close()

	root := tree.RootNode()
	if err := checkSyntax(root, kind); err != nil {
		return nil, err
	}

	w := &walker{src: content}
	w.walk(root)

	result := &Result{
		Modules:   make(map[string]string, len(w.locations)),
		Locations: w.locations,
		Src:       string(content),
		Shape:     w.shape,
	}
	if result.Locations == nil {
		result.Locations = map[string]Location{}
	}
	for id, loc := range result.Locations {
		result.Modules[id] = result.Src[loc.Start:loc.End]
	}
	result.RuntimeSrc = RuntimeSource(result.Src, result.Locations)

	return result, nil
}

// ParseFile reads and parses the bundle at path.
func ParseFile(fsys fs.FileSystem, path string, kind SourceKind) (*Result, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}
	result, err := Parse(content, kind)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", path, err)
	}
	return result, nil
}

// RuntimeSource returns src with the given ranges cut out, keeping the text
// between them in order.
func RuntimeSource(src string, locations map[string]Location) string {
	sorted := slices.SortedFunc(maps.Values(locations), func(a, b Location) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var b strings.Builder
	last := 0
	for _, loc := range sorted {
		if loc.Start > last {
			b.WriteString(src[last:loc.Start])
		}
		last = max(last, loc.End)
	}
	b.WriteString(src[last:])
	return b.String()
}

func checkSyntax(root *ts.Node, kind SourceKind) error {
	if root.HasError() {
		bad := firstError(root)
		if bad == nil {
			bad = root
		}
		pos := bad.StartPosition()
		msg := "Unexpected token"
		if bad.IsMissing() {
			msg = fmt.Sprintf("Expected %q", bad.Kind())
		}
		return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column), Msg: msg}
	}

	for _, st := range namedChildren(root) {
		var msg string
		switch {
		case is(st, "return_statement"):
			msg = "'return' outside of function"
		case kind == Script && is(st, "import_statement", "export_statement"):
			msg = "'import' and 'export' may appear only with 'sourceType: module'"
		default:
			continue
		}
		pos := st.StartPosition()
		return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column), Msg: msg}
	}
	return nil
}

func firstError(n *ts.Node) *ts.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := range n.ChildCount() {
		if child := n.Child(i); child != nil {
			if bad := firstError(child); bad != nil {
				return bad
			}
		}
	}
	return nil
}

// walker searches the syntax tree depth-first for the first modules
// container.
type walker struct {
	src       []byte
	locations map[string]Location
	shape     string
}

func (w *walker) found() bool {
	return w.locations != nil
}

func (w *walker) try(matchers []matcher, n *ts.Node) bool {
	for _, m := range matchers {
		if container := m.match(n, w.src); container != nil {
			w.locations = modulesLocations(container, w.src)
			w.shape = m.shape
			return true
		}
	}
	return false
}

func (w *walker) walk(n *ts.Node) {
	if n == nil || w.found() {
		return
	}

	switch n.Kind() {
	case "expression_statement":
		if parent := n.Parent(); is(parent, "program") && w.try(statementMatchers, n) {
			return
		}
		w.walkChildren(n)

	case "assignment_expression":
		if w.try(assignmentMatchers, n) {
			return
		}
		w.walkChildren(n)

	case "call_expression":
		args, ok := callArguments(n)
		if !ok {
			w.walkChildren(n)
			return
		}
		if w.try(callMatchers, n) {
			return
		}
		// Only the arguments are searched, never the callee.
		for _, arg := range args {
			w.walk(arg)
		}

	default:
		w.walkChildren(n)
	}
}

func (w *walker) walkChildren(n *ts.Node) {
	for _, child := range namedChildren(n) {
		w.walk(child)
		if w.found() {
			return
		}
	}
}
