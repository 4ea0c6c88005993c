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
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// namedChildren returns n's named children without comments.
func namedChildren(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]*ts.Node, 0, count)
	for i := range count {
		child := n.NamedChild(i)
		if child == nil || child.IsExtra() || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// unparen strips any number of enclosing parentheses.
func unparen(n *ts.Node) *ts.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		inner := namedChildren(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

func field(n *ts.Node, name string) *ts.Node {
	if n == nil {
		return nil
	}
	return unparen(n.ChildByFieldName(name))
}

func is(n *ts.Node, kinds ...string) bool {
	if n == nil {
		return false
	}
	kind := n.Kind()
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func text(n *ts.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}

// callArguments returns the argument nodes of a call. The second result is
// false for tagged templates, which carry no argument list.
func callArguments(call *ts.Node) ([]*ts.Node, bool) {
	args := call.ChildByFieldName("arguments")
	if !is(args, "arguments") {
		return nil, false
	}
	return namedChildren(args), true
}

// arrayElements returns the elements of an array literal in order, with nil
// for every hole ("[a,,b]").
func arrayElements(arr *ts.Node) []*ts.Node {
	var elems []*ts.Node
	pending := false
	for i := range arr.ChildCount() {
		child := arr.Child(i)
		if child == nil || child.IsExtra() || child.Kind() == "comment" {
			continue
		}
		switch child.Kind() {
		case "[":
		case ",":
			if !pending {
				elems = append(elems, nil)
			}
			pending = false
		case "]":
		default:
			elems = append(elems, child)
			pending = true
		}
	}
	return elems
}

// paramCount counts a function's declared parameters.
func paramCount(fn *ts.Node) int {
	if fn.ChildByFieldName("parameter") != nil {
		return 1
	}
	return len(namedChildren(fn.ChildByFieldName("parameters")))
}

// numberValue evaluates a numeric literal. BigInt literals have no number
// value.
func numberValue(n *ts.Node, src []byte) (float64, bool) {
	if !is(n, "number") {
		return 0, false
	}
	lit := strings.ReplaceAll(text(n, src), "_", "")
	if strings.HasSuffix(lit, "n") {
		return 0, false
	}
	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numberKey formats a number the way it reads as an object property key.
func numberKey(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// stringValue returns the decoded value of a string literal.
func stringValue(n *ts.Node, src []byte) (string, bool) {
	if !is(n, "string") {
		return "", false
	}
	lit := text(n, src)
	if len(lit) < 2 {
		return "", false
	}
	return unescape(lit[1:len(lit)-1], lit[0]), true
}

func unescape(s string, quote byte) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for len(s) > 0 {
		if s[0] != '\\' || len(s) == 1 {
			r, size := utf8.DecodeRuneInString(s)
			b.WriteRune(r)
			s = s[size:]
			continue
		}

		switch next := s[1]; next {
		case '0':
			if len(s) == 2 || s[2] < '0' || s[2] > '9' {
				b.WriteByte(0)
				s = s[2:]
				continue
			}
		case '\n':
			s = s[2:]
			continue
		case '\r':
			s = s[2:]
			if strings.HasPrefix(s, "\n") {
				s = s[1:]
			}
			continue
		case 'u':
			if len(s) > 2 && s[2] == '{' {
				if end := strings.IndexByte(s, '}'); end > 0 {
					if code, err := strconv.ParseUint(s[3:end], 16, 32); err == nil {
						b.WriteRune(rune(code))
						s = s[end+1:]
						continue
					}
				}
			}
			if hi, ok := hex4(s); ok && utf16.IsSurrogate(hi) {
				if lo, ok := hex4(s[6:]); ok {
					if r := utf16.DecodeRune(hi, lo); r != utf8.RuneError {
						b.WriteRune(r)
						s = s[12:]
						continue
					}
				}
				b.WriteRune(utf8.RuneError)
				s = s[6:]
				continue
			}
		}

		value, multibyte, tail, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			// Unknown escapes stand for the escaped character itself.
			r, size := utf8.DecodeRuneInString(s[1:])
			b.WriteRune(r)
			s = s[1+size:]
			continue
		}
		if multibyte || value >= utf8.RuneSelf {
			b.WriteRune(value)
		} else {
			b.WriteByte(byte(value))
		}
		s = tail
	}
	return b.String()
}

// hex4 decodes a leading \uXXXX escape.
func hex4(s string) (rune, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}
	code, err := strconv.ParseUint(s[2:6], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(code), true
}
