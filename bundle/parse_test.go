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

package bundle_test

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"bennypowers.dev/bundlemap/bundle"
	"bennypowers.dev/bundlemap/testutil"
)

func parse(t *testing.T, src string, kind bundle.SourceKind) *bundle.Result {
	t.Helper()
	result, err := bundle.Parse([]byte(src), kind)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return result
}

func ids(r *bundle.Result) []string {
	return slices.Sorted(maps.Keys(r.Modules))
}

// assertPartition checks that module texts and runtime text together cover
// the bundle exactly.
func assertPartition(t *testing.T, r *bundle.Result) {
	t.Helper()
	total := len(r.RuntimeSrc)
	for id, loc := range r.Locations {
		if got := r.Src[loc.Start:loc.End]; got != r.Modules[id] {
			t.Errorf("module %s: text %q does not match its location", id, r.Modules[id])
		}
		total += loc.Len()
	}
	if total != len(r.Src) {
		t.Errorf("modules + runtime = %d bytes, bundle is %d", total, len(r.Src))
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		shape   string
		ids     []string
		modules map[string]string
		// method marks slices cut from method shorthand, which are not
		// expressions on their own.
		method bool
	}{
		{
			name:  "top-level IIFE with array",
			src:   `(function(){ var modules = [function(){return 0}, function(){return 1}]; })()`,
			shape: bundle.ShapeTopLevelIIFE,
			ids:   []string{"0", "1"},
			modules: map[string]string{
				"0": "function(){return 0}",
				"1": "function(){return 1}",
			},
		},
		{
			name:  "top-level arrow IIFE with hash",
			src:   `(() => { "use strict"; let __webpack_modules__ = ({ "./a.js": ((m) => { m.exports = 1 }) }); })();`,
			shape: bundle.ShapeTopLevelIIFE,
			ids:   []string{"./a.js"},
			modules: map[string]string{
				"./a.js": "(m) => { m.exports = 1 }",
			},
		},
		{
			name:  "negated IIFE",
			src:   `!function(){ var m = {7: function(){}}; }();`,
			shape: bundle.ShapeTopLevelIIFE,
			ids:   []string{"7"},
		},
		{
			name:  "exports.modules",
			src:   `exports.ids = [3]; exports.modules = { 5: function(module) { module.exports = 5 } };`,
			shape: bundle.ShapeExportsModules,
			ids:   []string{"5"},
		},
		{
			name:  "IIFE argument with holes",
			src:   `(function(modules){ return modules })([function(){a()}, , function(){c()}]);`,
			shape: bundle.ShapeIIFEArgument,
			ids:   []string{"0", "2"},
			modules: map[string]string{
				"0": "function(){a()}",
				"2": "function(){c()}",
			},
		},
		{
			name:  "JSONP chunk",
			src:   `webpackJsonp([0, 1], {12: function(){}, 13: function(){}});`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"12", "13"},
		},
		{
			name:  "JSONP chunk with optimized array",
			src:   `webpackJsonp([4], Array(5).concat([function(){five()}, function(){six()}]));`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"5", "6"},
			modules: map[string]string{
				"5": "function(){five()}",
				"6": "function(){six()}",
			},
		},
		{
			name:  "JSONP push",
			src:   `(self.webpackChunk = self.webpackChunk || []).push([[179], {42: (e, t, n) => { n(1) }}]);`,
			shape: bundle.ShapeJSONPPush,
			ids:   []string{"42"},
			modules: map[string]string{
				"42": "(e, t, n) => { n(1) }",
			},
		},
		{
			name:  "worker chunk",
			src:   `self.webpackChunk([2], {3: function(){}});`,
			shape: bundle.ShapeWorkerChunk,
			ids:   []string{"3"},
		},
		{
			name:  "nested in arguments",
			src:   `define(["dep"], function(dep){ return webpackJsonp([1], [function(){}]); });`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"0"},
		},
		{
			name:  "method shorthand",
			src:   `exports.modules = { 9(module) { module.exports = 9 } };`,
			shape: bundle.ShapeExportsModules,
			ids:   []string{"9"},
			modules: map[string]string{
				"9": "(module) { module.exports = 9 }",
			},
			method: true,
		},
		{
			name:  "key kinds",
			src:   `webpackJsonp([0], {a: function(){}, "\x62": function(){}, 0x10: function(){}, [3]: function(){}, undefined: function(){}, ...rest});`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"16", "3", "a", "b"},
		},
		{
			name:  "surrogate pair key",
			src:   `webpackJsonp([0], {"\uD83D\uDE00": function(){}, "\u00e9": function(){}});`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"é", "😀"},
		},
		{
			name:  "wrapper ids and pairs",
			src:   `webpackJsonp([0], {1: 2, 3: [4, function(){}]});`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"1", "3"},
		},
		{
			name:  "empty container stops search",
			src:   `webpackJsonp([0], {}); webpackJsonp([1], {5: function(){}});`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{},
		},
		{
			name:  "first container wins",
			src:   `webpackJsonp([0], {1: function(){}}); webpackJsonp([1], {2: function(){}});`,
			shape: bundle.ShapeJSONPChunk,
			ids:   []string{"1"},
		},
		{
			name:  "unrecognized",
			src:   `console.log("hello"); var x = {a: 1};`,
			shape: "",
			ids:   []string{},
		},
		{
			name:  "named function is not a wrapper",
			src:   `webpackJsonp([0], {1: function named(){}});`,
			shape: "",
			ids:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parse(t, tt.src, bundle.Script)

			if result.Shape != tt.shape {
				t.Errorf("shape: got %q, want %q", result.Shape, tt.shape)
			}
			if got := ids(result); !slices.Equal(got, tt.ids) {
				t.Errorf("ids: got %q, want %q", got, tt.ids)
			}
			for id, want := range tt.modules {
				if got := result.Modules[id]; got != want {
					t.Errorf("module %s: got %q, want %q", id, got, want)
				}
			}
			assertPartition(t, result)
			if !tt.method {
				assertStandalone(t, result)
			}
		})
	}
}

// assertStandalone checks that every module slice is a complete expression.
func assertStandalone(t *testing.T, r *bundle.Result) {
	t.Helper()
	for id, src := range r.Modules {
		if _, err := bundle.Parse([]byte("("+src+")"), bundle.Script); err != nil {
			t.Errorf("module %s: %q does not parse on its own: %v", id, src, err)
		}
	}
}

func TestParseUnrecognizedKeepsRuntime(t *testing.T) {
	src := `console.log("hello");`
	result := parse(t, src, bundle.Script)
	if len(result.Modules) != 0 {
		t.Errorf("expected no modules, got %v", ids(result))
	}
	if result.RuntimeSrc != src {
		t.Errorf("runtime: got %q", result.RuntimeSrc)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := bundle.Parse([]byte("var a = function( {;"), bundle.Script)
	var syntaxErr *bundle.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *bundle.SyntaxError, got %v", err)
	}
	if syntaxErr.Line != 1 {
		t.Errorf("line: got %d", syntaxErr.Line)
	}
}

func TestParseTopLevelReturn(t *testing.T) {
	for _, kind := range []bundle.SourceKind{bundle.Script, bundle.Module} {
		_, err := bundle.Parse([]byte("return 1;"), kind)
		var syntaxErr *bundle.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("kind %v: expected *bundle.SyntaxError, got %v", kind, err)
		}
		if syntaxErr.Line != 1 || syntaxErr.Column != 0 {
			t.Errorf("kind %v: position %d:%d", kind, syntaxErr.Line, syntaxErr.Column)
		}
	}

	// Returns inside functions are fine.
	parse(t, "webpackJsonp([0], {1: function(){ return 1 }});", bundle.Script)
}

func TestParseSourceKind(t *testing.T) {
	src := "import a from \"a\";\nwebpackJsonp([0], {1: function(){ a() }});\n"

	_, err := bundle.Parse([]byte(src), bundle.Script)
	var syntaxErr *bundle.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("script: expected *bundle.SyntaxError, got %v", err)
	}

	result := parse(t, src, bundle.Module)
	if got := ids(result); !slices.Equal(got, []string{"1"}) {
		t.Errorf("module: ids %q", got)
	}
}

func TestParseFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "bundles", "dist")

	tests := []struct {
		file  string
		shape string
		ids   []string
	}{
		{"webpack5.js", bundle.ShapeTopLevelIIFE, []string{"./src/a.js", "./src/b.js"}},
		{"webpack4.js", bundle.ShapeIIFEArgument, []string{"0", "2"}},
		{"jsonp-push.js", bundle.ShapeJSONPPush, []string{"./node_modules/lodash/lodash.js", "10"}},
		{"unknown.js", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := bundle.ParseFile(mfs, "dist/"+tt.file, bundle.Script)
			if err != nil {
				t.Fatal(err)
			}
			if result.Shape != tt.shape {
				t.Errorf("shape: got %q, want %q", result.Shape, tt.shape)
			}
			if got := ids(result); !slices.Equal(got, tt.ids) {
				t.Errorf("ids: got %q, want %q", got, tt.ids)
			}
			assertPartition(t, result)
		})
	}
}

func TestParseFileWebpack5Runtime(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "bundles", "dist")
	result, err := bundle.ParseFile(mfs, "dist/webpack5.js", bundle.Script)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Modules["./src/a.js"], "(module) =>") {
		t.Errorf("module a: %q", result.Modules["./src/a.js"])
	}
	if !strings.Contains(result.RuntimeSrc, "function __webpack_require__(moduleId)") {
		t.Error("runtime lost the bootstrap")
	}
	if strings.Contains(result.RuntimeSrc, `module.exports = "a"`) {
		t.Error("runtime still contains module text")
	}
}

func TestParseFileMissing(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "bundles", "dist")
	if _, err := bundle.ParseFile(mfs, "dist/missing.js", bundle.Script); err == nil {
		t.Error("expected error")
	}
}

func TestRuntimeSource(t *testing.T) {
	src := "AAbbCCddEE"
	got := bundle.RuntimeSource(src, map[string]bundle.Location{
		"d": {Start: 6, End: 8},
		"b": {Start: 2, End: 4},
	})
	if got != "AACCEE" {
		t.Errorf("got %q", got)
	}
	if got := bundle.RuntimeSource(src, nil); got != src {
		t.Errorf("no locations: got %q", got)
	}
}
