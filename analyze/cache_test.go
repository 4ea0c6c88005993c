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
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"bennypowers.dev/bundlemap/bundle"
)

func TestBundleCacheLoadsOnce(t *testing.T) {
	cache := newBundleCache()
	var calls atomic.Int32
	want := &bundle.Result{Src: "x"}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			got, err := cache.getOrLoad("dist/main.js", func() (*bundle.Result, error) {
				calls.Add(1)
				return want, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != want {
				t.Errorf("got %p, want %p", got, want)
			}
		})
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("loader ran %d times, want 1", n)
	}
}

func TestBundleCacheKeepsErrors(t *testing.T) {
	cache := newBundleCache()
	boom := errors.New("boom")
	calls := 0
	load := func() (*bundle.Result, error) {
		calls++
		return nil, boom
	}

	for range 2 {
		if _, err := cache.getOrLoad("a.js", load); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("loader ran %d times, want 1", calls)
	}

	if _, err := cache.getOrLoad("b.js", func() (*bundle.Result, error) {
		return &bundle.Result{}, nil
	}); err != nil {
		t.Errorf("separate path should load independently: %v", err)
	}
}
