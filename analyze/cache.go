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

package analyze

import (
	"sync"

	"bennypowers.dev/bundlemap/bundle"
)

type cacheEntry struct {
	result *bundle.Result
	err    error
	once   sync.Once
}

// bundleCache holds parsed bundles keyed by file path, so that assets listed
// more than once (for example by several child compilations) are read and
// parsed a single time.
type bundleCache struct {
	entries sync.Map // map[string]*cacheEntry
}

func newBundleCache() *bundleCache {
	return &bundleCache{}
}

// getOrLoad returns the cached outcome for path, running load at most once
// per path. Concurrent callers for the same path wait for the first load.
// Failures are cached too.
func (c *bundleCache) getOrLoad(path string, load func() (*bundle.Result, error)) (*bundle.Result, error) {
	actual, _ := c.entries.LoadOrStore(path, &cacheEntry{})
	entry := actual.(*cacheEntry)
	entry.once.Do(func() {
		entry.result, entry.err = load()
	})
	return entry.result, entry.err
}
