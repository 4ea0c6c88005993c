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
	"math"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Names of the wrapper contexts a modules container can be found in.
const (
	ShapeTopLevelIIFE   = "top-level IIFE"
	ShapeExportsModules = "exports.modules"
	ShapeIIFEArgument   = "IIFE argument"
	ShapeJSONPChunk     = "JSONP chunk"
	ShapeJSONPPush      = "JSONP push"
	ShapeWorkerChunk    = "worker chunk"
)

// matcher recognizes one wrapper context and returns its modules container.
type matcher struct {
	shape string
	match func(n *ts.Node, src []byte) *ts.Node
}

// Tried in order; the first container found wins.
var (
	statementMatchers = []matcher{
		{ShapeTopLevelIIFE, matchTopLevelIIFE},
	}

	assignmentMatchers = []matcher{
		{ShapeExportsModules, matchExportsModules},
	}

	callMatchers = []matcher{
		{ShapeIIFEArgument, matchModulesArgument},
		{ShapeJSONPChunk, matchJSONPChunk},
		{ShapeJSONPPush, matchJSONPPush},
		{ShapeWorkerChunk, matchWorkerChunk},
	}
)

// matchTopLevelIIFE finds the modules list in the first variable declaration
// of a zero-argument IIFE, as emitted by webpack 5:
//
//	(() => { var __webpack_modules__ = ({ ... }); ... })();
func matchTopLevelIIFE(stmt *ts.Node, src []byte) *ts.Node {
	exprs := namedChildren(stmt)
	if len(exprs) != 1 {
		return nil
	}
	expr := unparen(exprs[0])
	if is(expr, "unary_expression") {
		expr = field(expr, "argument")
	}
	if !is(expr, "call_expression") {
		return nil
	}
	if args, ok := callArguments(expr); !ok || len(args) != 0 {
		return nil
	}

	fn := field(expr, "function")
	if !is(fn, "function_expression", "function", "arrow_function") || paramCount(fn) != 0 {
		return nil
	}
	body := fn.ChildByFieldName("body")
	if !is(body, "statement_block") {
		return nil
	}

	for _, st := range namedChildren(body) {
		if !is(st, "variable_declaration", "lexical_declaration") {
			continue
		}
		for _, decl := range namedChildren(st) {
			if !is(decl, "variable_declarator") {
				continue
			}
			if init := field(decl, "value"); init != nil && isModulesList(init, src) {
				return init
			}
		}
		return nil
	}
	return nil
}

// matchExportsModules matches a server-side chunk: exports.modules = { ... }.
func matchExportsModules(assign *ts.Node, src []byte) *ts.Node {
	left := field(assign, "left")
	if !is(left, "member_expression") {
		return nil
	}
	obj, prop := field(left, "object"), left.ChildByFieldName("property")
	if !is(obj, "identifier") || text(obj, src) != "exports" ||
		!is(prop, "property_identifier") || text(prop, src) != "modules" {
		return nil
	}
	right := field(assign, "right")
	if !isModulesHash(right, src) {
		return nil
	}
	return right
}

// matchModulesArgument matches the webpack 4 bootstrap: (function(modules){...})([...]).
func matchModulesArgument(call *ts.Node, src []byte) *ts.Node {
	fn := field(call, "function")
	if !is(fn, "function_expression", "function", "generator_function") || fn.ChildByFieldName("name") != nil {
		return nil
	}
	args, _ := callArguments(call)
	if len(args) != 1 {
		return nil
	}
	list := unparen(args[0])
	if !isSimpleModulesList(list, src) {
		return nil
	}
	return list
}

// matchJSONPChunk matches an async chunk: webpackJsonp([ids], modules).
func matchJSONPChunk(call *ts.Node, src []byte) *ts.Node {
	if !is(field(call, "function"), "identifier") {
		return nil
	}
	args, _ := callArguments(call)
	return chunkModules(args, src)
}

// matchJSONPPush matches (window.webpackJsonp = ... || []).push([[ids], modules, ...]).
func matchJSONPPush(call *ts.Node, src []byte) *ts.Node {
	callee := field(call, "function")
	if !is(callee, "member_expression") {
		return nil
	}
	prop := callee.ChildByFieldName("property")
	if !is(prop, "property_identifier") || text(prop, src) != "push" ||
		!is(field(callee, "object"), "assignment_expression") {
		return nil
	}
	args, _ := callArguments(call)
	if len(args) != 1 {
		return nil
	}
	entry := unparen(args[0])
	if !is(entry, "array") {
		return nil
	}
	return chunkModules(arrayElements(entry), src)
}

// matchWorkerChunk matches a web worker chunk: self.webpackChunk([ids], modules).
func matchWorkerChunk(call *ts.Node, src []byte) *ts.Node {
	if !is(field(call, "function"), "member_expression") {
		return nil
	}
	args, _ := callArguments(call)
	if len(args) != 2 {
		return nil
	}
	return chunkModules(args, src)
}

// chunkModules returns args[1] when args look like ([chunk ids], modules, ...).
func chunkModules(args []*ts.Node, src []byte) *ts.Node {
	if len(args) < 2 || args[0] == nil || args[1] == nil {
		return nil
	}
	if !isChunkIDs(unparen(args[0]), src) {
		return nil
	}
	list := unparen(args[1])
	if !isModulesList(list, src) {
		return nil
	}
	return list
}

func isChunkIDs(n *ts.Node, src []byte) bool {
	if !is(n, "array") {
		return false
	}
	for _, elem := range arrayElements(n) {
		if !isModuleID(unparen(elem), src) {
			return false
		}
	}
	return true
}

func isNumericID(n *ts.Node, src []byte) bool {
	f, ok := numberValue(n, src)
	return ok && f >= 0 && f == math.Trunc(f) && !math.IsInf(f, 0)
}

func isModuleID(n *ts.Node, src []byte) bool {
	return n != nil && (is(n, "string") || isNumericID(n, src))
}

// isModuleWrapper reports whether n can stand for a module in a container:
// an anonymous function, a module id, or an [id, ...] pair.
func isModuleWrapper(n *ts.Node, src []byte) bool {
	switch {
	case n == nil:
		return false
	case is(n, "function_expression", "function", "generator_function"):
		return n.ChildByFieldName("name") == nil
	case is(n, "arrow_function"):
		return true
	case isModuleID(n, src):
		return true
	case is(n, "array"):
		elems := arrayElements(n)
		return len(elems) > 1 && isModuleID(unparen(elems[0]), src)
	}
	return false
}

func isModulesHash(n *ts.Node, src []byte) bool {
	if !is(n, "object") {
		return false
	}
	for _, prop := range namedChildren(n) {
		switch prop.Kind() {
		case "spread_element":
		case "method_definition":
		case "pair":
			if !isModuleWrapper(field(prop, "value"), src) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isModulesArray(n *ts.Node, src []byte) bool {
	if !is(n, "array") {
		return false
	}
	for _, elem := range arrayElements(n) {
		if elem != nil && !isModuleWrapper(unparen(elem), src) {
			return false
		}
	}
	return true
}

func isSimpleModulesList(n *ts.Node, src []byte) bool {
	return isModulesHash(n, src) || isModulesArray(n, src)
}

// optimizedModulesArray recognizes Array(base).concat([...]), which webpack
// emits when module ids start far from zero. It returns the inner array and
// the base id.
func optimizedModulesArray(n *ts.Node, src []byte) (*ts.Node, int, bool) {
	if !is(n, "call_expression") {
		return nil, 0, false
	}
	callee := field(n, "function")
	if !is(callee, "member_expression") {
		return nil, 0, false
	}
	prop := callee.ChildByFieldName("property")
	if !is(prop, "property_identifier") || text(prop, src) != "concat" {
		return nil, 0, false
	}

	base := field(callee, "object")
	if !is(base, "call_expression") {
		return nil, 0, false
	}
	ctor := field(base, "function")
	if !is(ctor, "identifier") || text(ctor, src) != "Array" {
		return nil, 0, false
	}
	baseArgs, ok := callArguments(base)
	if !ok || len(baseArgs) != 1 || !isNumericID(unparen(baseArgs[0]), src) {
		return nil, 0, false
	}

	args, ok := callArguments(n)
	if !ok || len(args) != 1 {
		return nil, 0, false
	}
	arr := unparen(args[0])
	if !isModulesArray(arr, src) {
		return nil, 0, false
	}

	offset, _ := numberValue(unparen(baseArgs[0]), src)
	return arr, int(offset), true
}

func isModulesList(n *ts.Node, src []byte) bool {
	if isSimpleModulesList(n, src) {
		return true
	}
	_, _, ok := optimizedModulesArray(n, src)
	return ok
}

// modulesLocations maps each module id in a container to the byte range of
// its wrapper.
func modulesLocations(container *ts.Node, src []byte) map[string]Location {
	locations := make(map[string]Location)

	switch {
	case is(container, "object"):
		for _, prop := range namedChildren(container) {
			switch prop.Kind() {
			case "pair":
				id, ok := propertyKey(prop.ChildByFieldName("key"), src)
				value := field(prop, "value")
				if !ok || value == nil {
					continue
				}
				locations[id] = span(value, value)
			case "method_definition":
				id, ok := propertyKey(prop.ChildByFieldName("name"), src)
				params, body := prop.ChildByFieldName("parameters"), prop.ChildByFieldName("body")
				if !ok || params == nil || body == nil {
					continue
				}
				locations[id] = span(params, body)
			}
		}

	case is(container, "array"):
		addElements(locations, container, 0)

	default:
		if arr, offset, ok := optimizedModulesArray(container, src); ok {
			addElements(locations, arr, offset)
		}
	}

	return locations
}

func addElements(locations map[string]Location, arr *ts.Node, offset int) {
	for i, elem := range arrayElements(arr) {
		if elem == nil {
			continue
		}
		elem = unparen(elem)
		locations[numberKey(float64(offset+i))] = span(elem, elem)
	}
}

func span(from, to *ts.Node) Location {
	return Location{Start: int(from.StartByte()), End: int(to.EndByte())}
}

// propertyKey returns the module id named by an object key. Keys that are not
// identifiers or literals, and the key "undefined", yield no id.
func propertyKey(key *ts.Node, src []byte) (string, bool) {
	if is(key, "computed_property_name") {
		inner := namedChildren(key)
		if len(inner) != 1 {
			return "", false
		}
		key = unparen(inner[0])
	}

	var id string
	switch {
	case is(key, "property_identifier", "identifier", "private_property_identifier"):
		id = text(key, src)
	case is(key, "string"):
		s, ok := stringValue(key, src)
		if !ok {
			return "", false
		}
		id = s
	case is(key, "number"):
		f, ok := numberValue(key, src)
		if !ok {
			return "", false
		}
		id = numberKey(f)
	default:
		return "", false
	}

	if id == "undefined" {
		return "", false
	}
	return id, true
}
