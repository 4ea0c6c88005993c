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

// Package bundle locates the module functions inside an emitted webpack
// bundle and splits the bundle text into per-module sources and runtime.
package bundle

import (
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsJavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

var javascript = ts.NewLanguage(tsJavascript.Language())

var parserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(javascript); err != nil {
			panic("failed to set JavaScript language: " + err.Error())
		}
		return parser
	},
}

// getParser retrieves a JavaScript parser from the pool.
func getParser() *ts.Parser {
	return parserPool.Get().(*ts.Parser)
}

// putParser returns a JavaScript parser to the pool.
func putParser(p *ts.Parser) {
	p.Reset()
	parserPool.Put(p)
}
