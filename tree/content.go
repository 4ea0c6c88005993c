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

// ContentModule is one source module inside a ConcatenatedModule. The bundle
// holds no separate text for it, so parsed and compressed sizes are
// estimates derived from the owner.
type ContentModule struct {
	Module
	owner *ConcatenatedModule
}

func newContentModule(name string, r *Record, owner *ConcatenatedModule) *ContentModule {
	m := &ContentModule{owner: owner}
	m.init(name, r, nil, owner.opts, m)
	return m
}

// Owner returns the concatenated module this module was hoisted into.
func (m *ContentModule) Owner() *ConcatenatedModule { return m.owner }

func (m *ContentModule) ParsedSize() (int, bool) {
	return m.owner.estimateShare(m, Node.ParsedSize)
}

func (m *ContentModule) CompressedSize() (int, bool) {
	return m.owner.estimateShare(m, Node.CompressedSize)
}

func (m *ContentModule) ChartData() *ChartData {
	c := moduleChart(m, m.data.ID, m.opts)
	c.InaccurateSizes = true
	return c
}
