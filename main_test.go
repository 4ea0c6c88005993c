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

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestMain(m *testing.M) {
	wd := mustGetwd()
	cmd := exec.Command("go", "build", "-o", "bundlemap_test", ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	_ = os.Remove(filepath.Join(wd, "bundlemap_test"))
	os.Exit(code)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	return runCLIEnv(t, nil, args...)
}

func runCLIEnv(t *testing.T, env []string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(filepath.Join(mustGetwd(), "bundlemap_test"), args...)
	cmd.Env = append(os.Environ(), env...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("Failed to run CLI: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

var (
	statsFile = filepath.Join("testdata", "project", "stats.json")
	bundleDir = filepath.Join("testdata", "project", "dist")
)

func TestAnalyzeJSON(t *testing.T) {
	stdout, stderr, code := runCLI(t, "analyze", statsFile, "--bundle-dir", bundleDir)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	var charts []map[string]any
	if err := json.Unmarshal([]byte(stdout), &charts); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if len(charts) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(charts))
	}
	if charts[0]["label"] != "main.js" {
		t.Errorf("Expected main.js first, got %v", charts[0]["label"])
	}
	if _, ok := charts[0]["gzipSize"]; !ok {
		t.Error("Expected gzipSize on main.js")
	}
	if !strings.Contains(stderr, "no such file") {
		t.Errorf("Expected warning about lazy.js, got stderr: %s", stderr)
	}
}

func TestAnalyzeTree(t *testing.T) {
	stdout, stderr, code := runCLI(t, "analyze", statsFile, "--bundle-dir", bundleDir, "--format", "tree", "--sizes", "stat", "--log-level", "silent")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	for _, want := range []string{"main.js (270 B)", "vendors.js (540 B)", "node_modules/lodash (540 B)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in tree output:\n%s", want, stdout)
		}
	}
	if stderr != "" {
		t.Errorf("Expected no logs at silent level, got: %s", stderr)
	}
}

func TestAnalyzeCompressionFromEnv(t *testing.T) {
	stdout, stderr, code := runCLIEnv(t, []string{"BUNDLEMAP_COMPRESSION=brotli"}, "analyze", statsFile, "--bundle-dir", bundleDir)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, `"brotliSize"`) || strings.Contains(stdout, `"gzipSize"`) {
		t.Errorf("Expected brotli sizes only:\n%s", stdout)
	}
}

func TestAnalyzeConfigFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "bundlemap.yaml")
	if err := os.WriteFile(config, []byte("format: tree\nsizes: stat\nlog-level: silent\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, "--config", config, "analyze", statsFile, "--bundle-dir", bundleDir)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "main.js (270 B)") {
		t.Errorf("Expected tree output from config file:\n%s", stdout)
	}
}

func TestAnalyzeOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	stdout, stderr, code := runCLI(t, "analyze", statsFile, "--bundle-dir", bundleDir, "-o", out, "--log-level", "error")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("Expected empty stdout, got %q", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("Output file is not valid JSON: %s", data)
	}
}

func TestAnalyzeInvalidCompression(t *testing.T) {
	_, stderr, code := runCLI(t, "analyze", statsFile, "--compression", "lzma")
	if code == 0 {
		t.Fatal("Expected non-zero exit code")
	}
	if !strings.Contains(stderr, "lzma") {
		t.Errorf("Expected error naming the algorithm, got: %s", stderr)
	}
}

func TestParse(t *testing.T) {
	stdout, stderr, code := runCLI(t, "parse", filepath.Join("testdata", "bundles", "webpack5.js"))
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	for _, want := range []string{"shape:   top-level IIFE", "modules: 2", "./src/a.js", "./src/b.js"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestParseMissingFile(t *testing.T) {
	_, _, code := runCLI(t, "parse", filepath.Join("testdata", "bundles", "missing.js"))
	if code == 0 {
		t.Error("Expected non-zero exit code")
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, stderr, code := runCLI(t, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if info["version"] == "" {
		t.Error("Expected a version")
	}
}
