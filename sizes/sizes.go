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

// Package sizes measures the compressed length of bundle text.
package sizes

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Algorithm names a compression algorithm.
type Algorithm string

const (
	Gzip   Algorithm = "gzip"
	Brotli Algorithm = "brotli"
	Zstd   Algorithm = "zstd"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{Gzip, Brotli, Zstd}

// ParseAlgorithm validates a user-supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Algorithms {
		if alg == known {
			return alg, nil
		}
	}
	return "", fmt.Errorf("unsupported compression algorithm %q (want gzip, brotli or zstd)", name)
}

var zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
})

// Compressed returns the length of text compressed with alg at its highest
// level.
func Compressed(alg Algorithm, text string) (int, error) {
	var cw countingWriter

	switch alg {
	case Gzip:
		w, err := gzip.NewWriterLevel(&cw, gzip.BestCompression)
		if err != nil {
			return 0, err
		}
		if _, err := w.Write([]byte(text)); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
	case Brotli:
		w := brotli.NewWriterLevel(&cw, brotli.BestCompression)
		if _, err := w.Write([]byte(text)); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
	case Zstd:
		enc, err := zstdEncoder()
		if err != nil {
			return 0, fmt.Errorf("creating zstd encoder: %w", err)
		}
		return len(enc.EncodeAll([]byte(text), nil)), nil
	default:
		return 0, fmt.Errorf("unsupported compression algorithm %q", alg)
	}

	return cw.n, nil
}

// countingWriter discards output and keeps its length.
type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
