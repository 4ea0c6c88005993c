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

// Package testutil loads test fixtures and compares output against golden
// files.
package testutil

import (
	"bytes"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"bennypowers.dev/bundlemap/internal/mapfs"
)

var updateGolden = flag.Bool("update", false, "rewrite golden files with actual output")

// candidates lists where testdata/name may live relative to the package
// under test.
func candidates(name string) []string {
	return []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}
}

func locate(t *testing.T, name string) string {
	t.Helper()
	for _, p := range candidates(name) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Fatalf("fixture %s not found under any testdata directory", name)
	return ""
}

// NewFixtureFS copies testdata/fixtureDir into a new in-memory file system,
// rooted at rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	dir := locate(t, fixtureDir)
	mfs := mapfs.New()
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.ToSlash(filepath.Join(rootPath, rel)), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("loading fixtures from %s: %v", fixtureDir, err)
	}
	return mfs
}

// LoadFixtureFile returns the content of testdata/name.
func LoadFixtureFile(t *testing.T, name string) []byte {
	t.Helper()
	content, err := os.ReadFile(locate(t, name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return content
}

// CheckGolden compares actual with testdata/goldenPath and fails with a
// unified diff on mismatch. With -update the golden file is rewritten
// instead.
func CheckGolden(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()

	if *updateGolden {
		target := candidates(goldenPath)[0]
		for _, p := range candidates(goldenPath) {
			if _, err := os.Stat(filepath.Dir(p)); err == nil {
				target = p
				break
			}
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", goldenPath, err)
		}
		if err := os.WriteFile(target, actual, 0644); err != nil {
			t.Fatalf("writing golden file %s: %v", goldenPath, err)
		}
		t.Logf("updated golden file %s", target)
		return
	}

	expected := LoadFixtureFile(t, goldenPath)
	if bytes.Equal(expected, actual) {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: goldenPath,
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("diffing %s: %v", goldenPath, err)
	}
	t.Errorf("output does not match %s (run with -update to accept):\n%s", goldenPath, diff)
}
