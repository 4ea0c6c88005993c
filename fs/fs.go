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

// Package fs abstracts the file operations bundlemap performs, so that stats
// files and bundles can be served from memory in tests.
package fs

import (
	"io/fs"
	"os"
)

// FileSystem is the file access needed to read a build's output and write
// reports.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
	Exists(path string) bool

	// Open makes a FileSystem usable as an fs.FS.
	Open(name string) (fs.File, error)
}

// OSFileSystem is the FileSystem backed by the host's disk.
type OSFileSystem struct{}

// NewOSFileSystem returns the disk-backed FileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o OSFileSystem) Exists(path string) bool {
	_, err := o.Stat(path)
	return err == nil
}

func (OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}
