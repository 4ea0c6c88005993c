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

// Package mapfs is an in-memory fs.FileSystem for tests.
package mapfs

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

// MapFileSystem keeps files in an fstest.MapFS. Paths are cleaned and made
// relative, so "/dist/main.js" and "dist/main.js" name the same file.
type MapFileSystem struct {
	mu      sync.RWMutex
	files   fstest.MapFS
	modTime time.Time
}

// New returns an empty file system.
func New() *MapFileSystem {
	return &MapFileSystem{
		files:   make(fstest.MapFS),
		modTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile stores content at name.
func (m *MapFileSystem) AddFile(name string, content string, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(name)] = &fstest.MapFile{Data: []byte(content), Mode: mode, ModTime: m.modTime}
}

func (m *MapFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.ReadFile(m.files, clean(name))
}

func (m *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if dir := path.Dir(name); dir != "." {
		if f, ok := m.files[dir]; ok && !f.Mode.IsDir() {
			return &fs.PathError{Op: "open", Path: name, Err: fmt.Errorf("not a directory")}
		}
	}
	m.files[name] = &fstest.MapFile{Data: slices.Clone(data), Mode: perm, ModTime: m.modTime}
	return nil
}

// MkdirAll records the directory; it fails if a file already has its name.
func (m *MapFileSystem) MkdirAll(dir string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = clean(dir)
	if dir == "" {
		return nil
	}
	if f, ok := m.files[dir]; ok && !f.Mode.IsDir() {
		return &fs.PathError{Op: "mkdir", Path: dir, Err: fmt.Errorf("not a directory")}
	}
	m.files[dir] = &fstest.MapFile{Mode: fs.ModeDir | perm.Perm(), ModTime: m.modTime}
	return nil
}

func (m *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.Stat(m.files, clean(name))
}

// Exists reports whether name is a file or has files below it.
func (m *MapFileSystem) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = clean(name)
	if _, ok := m.files[name]; ok {
		return true
	}
	prefix := name + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m *MapFileSystem) Open(name string) (fs.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files.Open(clean(name))
}

// Files lists the stored regular files, sorted.
func (m *MapFileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for p, f := range m.files {
		if !f.Mode.IsDir() {
			names = append(names, p)
		}
	}
	slices.Sort(names)
	return names
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
