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

package version

import (
	"runtime/debug"
	"testing"
)

func TestGetVersion(t *testing.T) {
	saved := [...]string{Version, GitCommit, GitTag, GitDirty}
	t.Cleanup(func() {
		Version, GitCommit, GitTag, GitDirty = saved[0], saved[1], saved[2], saved[3]
	})

	Version = "v1.2.3"
	if got := GetVersion(); got != "v1.2.3" {
		t.Errorf("ldflags version: %q", got)
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		t.Skip("test binary carries a module version")
	}

	Version = "dev"
	GitTag, GitCommit, GitDirty = "v0.1.0", "abcdef0123", "dirty"
	if got := GetVersion(); got != "v0.1.0-abcdef0-dirty" {
		t.Errorf("git version: %q", got)
	}

	GitTag, GitCommit = "unknown", "unknown"
	if got := GetVersion(); got != "dev" {
		t.Errorf("fallback: %q", got)
	}
}
