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

package stats_test

import (
	"strings"
	"testing"

	"bennypowers.dev/bundlemap/stats"
	"bennypowers.dev/bundlemap/testutil"
)

func TestParse(t *testing.T) {
	data := `{
		"outputPath": "/dist",
		"assets": [{"name": "main.js", "size": 120, "chunks": [0, "vendors"], "info": {"javascriptModule": true}}],
		"chunks": [{"id": 0, "names": ["main"], "initial": true, "modules": [{"id": 3, "name": "./a.js", "size": 10, "depth": 0}]}],
		"modules": [
			{"id": "./b.js", "name": "./b.js", "chunks": [0]},
			{"id": null, "name": "webpack/runtime/define property", "moduleType": "runtime"}
		],
		"entrypoints": {
			"main": {"assets": ["main.js"]},
			"admin": {"name": "admin", "assets": [{"name": "admin.js", "size": 5}]}
		},
		"assetsByChunkName": {"main": "main.js", "admin": ["admin.js", "admin.js.map"]}
	}`

	c, err := stats.Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	asset := c.Assets[0]
	if asset.Chunks[0] != "0" || asset.Chunks[1] != "vendors" {
		t.Errorf("asset chunks: %q", asset.Chunks)
	}
	if !asset.Info.JavascriptModule {
		t.Error("javascriptModule not decoded")
	}

	m := c.Chunks[0].Modules[0]
	if m.ID != "3" || !m.IsEntry() || *m.Size != 10 {
		t.Errorf("chunk module: %+v", m)
	}

	if c.Modules[0].Size != nil {
		t.Error("missing size should stay nil")
	}
	if c.Modules[0].IsEntry() {
		t.Error("module without depth is not an entry")
	}
	if !c.Modules[1].IsRuntime() || c.Modules[1].ID != "" {
		t.Errorf("runtime module: %+v", c.Modules[1])
	}

	if got := c.Entrypoints["main"].Name; got != "main" {
		t.Errorf("entrypoint name from key: %q", got)
	}
	if got := c.Entrypoints["main"].Assets[0].Name; got != "main.js" {
		t.Errorf("string entrypoint asset: %q", got)
	}
	if got := c.Entrypoints["admin"].Assets[0].Name; got != "admin.js" {
		t.Errorf("object entrypoint asset: %q", got)
	}

	if !c.HasAsset("main.js") || !c.HasAsset("admin.js.map") || c.HasAsset("other.js") {
		t.Errorf("assetsByChunkName: %v", c.AssetsByChunkName)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := stats.Parse([]byte(`{"assets": [{"chunks": [true]}]}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "decoding stats") {
		t.Errorf("error not wrapped: %v", err)
	}
}

func TestDecode(t *testing.T) {
	c, err := stats.Decode(strings.NewReader(`{"children": [{"entrypoints": {"x": {"assets": []}}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Children[0].Entrypoints["x"].Name; got != "x" {
		t.Errorf("child entrypoint name: %q", got)
	}
}

func TestParseFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "project")
	c, err := stats.ParseFile(mfs, "project/stats.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Assets) == 0 {
		t.Error("no assets decoded")
	}

	if _, err := stats.ParseFile(mfs, "project/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
