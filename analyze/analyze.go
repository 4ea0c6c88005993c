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

// Package analyze turns a webpack stats manifest and the emitted bundles into
// per-asset size trees.
package analyze

import (
	"errors"
	iofs "io/fs"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"bennypowers.dev/bundlemap/bundle"
	"bennypowers.dev/bundlemap/fs"
	"bennypowers.dev/bundlemap/sizes"
	"bennypowers.dev/bundlemap/stats"
	"bennypowers.dev/bundlemap/tree"
)

var scriptExtension = regexp.MustCompile(`(?i)\.(js|mjs|cjs|bundle)$`)

// Options configures ViewerData.
type Options struct {
	// BundleDir is where emitted bundles are read from. Empty disables
	// bundle parsing; only stat sizes are reported.
	BundleDir   string
	Compression sizes.Algorithm
	Filter      *AssetFilter
	// Parallel caps concurrent bundle parses. Zero means one per CPU.
	Parallel int
	FS       fs.FileSystem
	Logger   zerolog.Logger
}

// AssetChart is the size report for one emitted script.
type AssetChart struct {
	Label                 string            `json:"label"`
	IsAsset               bool              `json:"isAsset"`
	StatSize              int               `json:"statSize"`
	ParsedSize            *int              `json:"parsedSize,omitempty"`
	GzipSize              *int              `json:"gzipSize,omitempty"`
	BrotliSize            *int              `json:"brotliSize,omitempty"`
	ZstdSize              *int              `json:"zstdSize,omitempty"`
	Groups                []*tree.ChartData `json:"groups"`
	IsInitialByEntrypoint map[string]bool   `json:"isInitialByEntrypoint"`
}

// CompressedSize returns the size recorded for alg.
func (a *AssetChart) CompressedSize(alg sizes.Algorithm) *int {
	switch alg {
	case sizes.Gzip:
		return a.GzipSize
	case sizes.Brotli:
		return a.BrotliSize
	case sizes.Zstd:
		return a.ZstdSize
	}
	return nil
}

// asset is a selected script together with the compilation its modules come
// from.
type asset struct {
	name   string
	size   int
	kind   bundle.SourceKind
	chunks []stats.ID
	// modules is nil for child assets whose compilation is unknown.
	modules []*stats.Module
}

// ViewerData builds one AssetChart per script asset in the manifest.
func ViewerData(c *stats.Compilation, opts Options) ([]*AssetChart, error) {
	if opts.Compression == "" {
		opts.Compression = sizes.Gzip
	}
	if _, err := sizes.ParseAlgorithm(string(opts.Compression)); err != nil {
		return nil, err
	}
	if opts.FS == nil {
		opts.FS = fs.NewOSFileSystem()
	}
	log := opts.Logger

	root, assets := selectAssets(c, opts.Filter)

	var sources map[string]*bundle.Result
	var parsedModules map[string]string
	if opts.BundleDir != "" {
		sources, parsedModules = parseBundles(assets, opts)
		if len(sources) == 0 {
			sources, parsedModules = nil, nil
			log.Warn().Msg("No bundles were parsed. Analyzer will show only original module sizes from stats file.")
		}
	}

	initial := initialByEntrypoint(root)
	treeOpts := &tree.Options{Compression: opts.Compression}

	var charts []*AssetChart
	byName := make(map[string]int)
	for _, a := range assets {
		source := sources[a.name]
		records := assetRecords(a, parsedModules, source)
		t := tree.Build(records, treeOpts)

		chart := &AssetChart{
			Label:                 a.name,
			IsAsset:               true,
			Groups:                childCharts(t),
			IsInitialByEntrypoint: initial[a.name],
		}
		if chart.IsInitialByEntrypoint == nil {
			chart.IsInitialByEntrypoint = map[string]bool{}
		}
		chart.StatSize, _ = t.Size()
		if chart.StatSize == 0 {
			chart.StatSize = a.size
		}
		if source != nil {
			parsed := len(source.Src)
			chart.ParsedSize = &parsed
			n, err := sizes.Compressed(opts.Compression, source.Src)
			if err != nil {
				log.Warn().Err(err).Str("asset", a.name).Msg("Could not compute compressed size")
			} else {
				chart.setCompressed(opts.Compression, n)
			}
		}

		if i, seen := byName[a.name]; seen {
			charts[i] = chart
			continue
		}
		byName[a.name] = len(charts)
		charts = append(charts, chart)
	}

	return charts, nil
}

func (a *AssetChart) setCompressed(alg sizes.Algorithm, n int) {
	switch alg {
	case sizes.Gzip:
		a.GzipSize = &n
	case sizes.Brotli:
		a.BrotliSize = &n
	case sizes.Zstd:
		a.ZstdSize = &n
	}
}

func childCharts(root *tree.Folder) []*tree.ChartData {
	children := root.Children()
	groups := make([]*tree.ChartData, 0, len(children))
	for _, child := range children {
		groups = append(groups, child.ChartData())
	}
	return groups
}

// selectAssets returns the compilation that describes the main assets and
// the script assets to report, in manifest order. Assets of child
// compilations are reported too.
func selectAssets(c *stats.Compilation, filter *AssetFilter) (*stats.Compilation, []*asset) {
	root := c
	type candidate struct {
		stat  *stats.Asset
		child bool
	}
	var candidates []candidate

	switch {
	case len(c.Assets) == 0 && len(c.Children) > 0:
		root = c.Children[0]
		for _, a := range root.Assets {
			candidates = append(candidates, candidate{a, false})
		}
		for _, child := range c.Children[1:] {
			for _, a := range child.Assets {
				candidates = append(candidates, candidate{a, true})
			}
		}
	default:
		for _, a := range c.Assets {
			candidates = append(candidates, candidate{a, false})
		}
		for _, child := range c.Children {
			for _, a := range child.Assets {
				candidates = append(candidates, candidate{a, true})
			}
		}
	}

	rootModules := bundleModules(root)

	var assets []*asset
	for _, cand := range candidates {
		if cand.stat == nil || (cand.stat.Type != "" && cand.stat.Type != "asset") {
			continue
		}
		name, _, _ := strings.Cut(cand.stat.Name, "?")
		if !scriptExtension.MatchString(name) || len(cand.stat.Chunks) == 0 || !filter.Include(name) {
			continue
		}

		a := &asset{
			name:   name,
			size:   cand.stat.Size,
			chunks: cand.stat.Chunks,
		}
		if cand.stat.Info.JavascriptModule {
			a.kind = bundle.Module
		}
		if cand.child {
			if owner := childCompilation(c, name); owner != nil {
				a.modules = bundleModules(owner)
			}
		} else {
			a.modules = rootModules
		}
		assets = append(assets, a)
	}
	return root, assets
}

// childCompilation finds the child compilation that emitted name.
func childCompilation(c *stats.Compilation, name string) *stats.Compilation {
	for _, child := range c.Children {
		if child != nil && child.HasAsset(name) {
			return child
		}
	}
	return nil
}

// bundleModules flattens chunk and top-level modules, dropping runtime
// modules and repeated ids.
func bundleModules(c *stats.Compilation) []*stats.Module {
	var all []*stats.Module
	for _, chunk := range c.Chunks {
		if chunk != nil {
			all = append(all, chunk.Modules...)
		}
	}
	all = append(all, c.Modules...)

	seen := make(map[stats.ID]bool)
	var modules []*stats.Module
	for _, m := range all {
		if m == nil || m.IsRuntime() || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		modules = append(modules, m)
	}
	return modules
}

func (a *asset) hasModule(m *stats.Module) bool {
	for _, id := range m.Chunks {
		if slices.Contains(a.chunks, id) {
			return true
		}
	}
	return false
}

// parseBundles parses every asset's bundle on a bounded pool of workers.
// Failures are logged and skipped. Parsed module sources are merged in asset
// order, later assets overriding earlier ones.
func parseBundles(assets []*asset, opts Options) (map[string]*bundle.Result, map[string]string) {
	type outcome struct {
		path   string
		result *bundle.Result
		err    error
	}
	outcomes := make([]outcome, len(assets))

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	cache := newBundleCache()
	jobs := make(chan int, len(assets))
	var wg sync.WaitGroup
	for range min(parallel, max(len(assets), 1)) {
		wg.Go(func() {
			for i := range jobs {
				path := filepath.Join(opts.BundleDir, assets[i].name)
				kind := assets[i].kind
				result, err := cache.getOrLoad(path, func() (*bundle.Result, error) {
					return bundle.ParseFile(opts.FS, path, kind)
				})
				outcomes[i] = outcome{path, result, err}
			}
		})
	}
	for i := range assets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sources := make(map[string]*bundle.Result)
	parsedModules := make(map[string]string)
	for i, o := range outcomes {
		if o.err != nil {
			msg := o.err.Error()
			if errors.Is(o.err, iofs.ErrNotExist) {
				msg = "no such file"
			}
			opts.Logger.Warn().Str("asset", o.path).Msgf("Error parsing bundle asset %q: %s", o.path, msg)
			continue
		}
		opts.Logger.Debug().
			Str("asset", assets[i].name).
			Str("shape", o.result.Shape).
			Int("modules", len(o.result.Modules)).
			Msg("Parsed bundle")
		sources[assets[i].name] = o.result
		for id, src := range o.result.Modules {
			parsedModules[id] = src
		}
	}
	return sources, parsedModules
}

// assetRecords converts the asset's modules into tree records, attaching
// parsed sources by id. Entry modules missing from the bundle's container
// are attributed the runtime text.
func assetRecords(a *asset, parsedModules map[string]string, source *bundle.Result) []*tree.Record {
	var records []*tree.Record
	var unparsedEntries []*tree.Record

	for _, m := range a.modules {
		if !a.hasModule(m) {
			continue
		}
		r := toRecord(m)
		if parsedModules != nil {
			if src := parsedModules[string(m.ID)]; m.ID != "" && src != "" {
				r.ParsedSrc = src
			} else if m.IsEntry() {
				unparsedEntries = append(unparsedEntries, r)
			}
		}
		records = append(records, r)
	}

	if len(unparsedEntries) == 0 || source == nil {
		return records
	}
	if len(unparsedEntries) == 1 {
		unparsedEntries[0].ParsedSrc = source.RuntimeSrc
		return records
	}

	total := 0
	for _, r := range unparsedEntries {
		if r.Size != nil {
			total += *r.Size
		}
	}
	entry := &tree.Record{
		Identifier: "./entry modules",
		Name:       "./entry modules",
		Size:       &total,
		Modules:    unparsedEntries,
		ParsedSrc:  source.RuntimeSrc,
	}
	rest := slices.DeleteFunc(records, func(r *tree.Record) bool {
		return slices.Contains(unparsedEntries, r)
	})
	return append([]*tree.Record{entry}, rest...)
}

func toRecord(m *stats.Module) *tree.Record {
	r := &tree.Record{
		ID:         string(m.ID),
		Identifier: m.Identifier,
		Name:       m.Name,
		Size:       m.Size,
	}
	if m.Modules != nil {
		r.Modules = make([]*tree.Record, 0, len(m.Modules))
		for _, inner := range m.Modules {
			if inner != nil {
				r.Modules = append(r.Modules, toRecord(inner))
			}
		}
	}
	return r
}

// initialByEntrypoint maps asset names to the entrypoints that load them.
func initialByEntrypoint(c *stats.Compilation) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, ep := range c.Entrypoints {
		if ep == nil {
			continue
		}
		for _, a := range ep.Assets {
			if out[a.Name] == nil {
				out[a.Name] = make(map[string]bool)
			}
			out[a.Name][ep.Name] = true
		}
	}
	return out
}
