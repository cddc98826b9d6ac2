package module

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModule(t *testing.T, dir, rel, source string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	l := &Loader{
		aliases: map[string]string{
			"io":     "lib/io",
			"math":   "lib/math",
			"core":   "lib/core",
			"system": "lib/system",
		},
		cache:    make(map[string]*cacheEntry),
		readFile: os.ReadFile,
	}
	l.AddSearchPath(dir)
	return l, dir
}

func TestResolveViaAlias(t *testing.T) {
	l, dir := newTestLoader(t)
	writeModule(t, dir, "lib/math.dryad", "export let pi = 3;")

	path, ok := l.Resolve("math")
	if !ok {
		t.Fatal("expected math to resolve via alias")
	}
	if path != filepath.Join(dir, "lib/math.dryad") {
		t.Errorf("unexpected resolved path: %s", path)
	}
}

func TestResolveDottedPathWithoutAlias(t *testing.T) {
	l, dir := newTestLoader(t)
	writeModule(t, dir, "util/strings.dryad", "export let x = 1;")

	path, ok := l.Resolve("util.strings")
	if !ok {
		t.Fatal("expected util.strings to resolve")
	}
	if path != filepath.Join(dir, "util/strings.dryad") {
		t.Errorf("unexpected resolved path: %s", path)
	}
}

func TestResolveAliasPrefixSubpath(t *testing.T) {
	l, dir := newTestLoader(t)
	writeModule(t, dir, "lib/io/file.dryad", "export let x = 1;")

	path, ok := l.Resolve("io.file")
	if !ok {
		t.Fatal("expected io.file to resolve through the io alias prefix")
	}
	if path != filepath.Join(dir, "lib/io/file.dryad") {
		t.Errorf("unexpected resolved path: %s", path)
	}
}

func TestResolveMiss(t *testing.T) {
	l, _ := newTestLoader(t)
	if _, ok := l.Resolve("nonexistent.module"); ok {
		t.Error("expected resolution miss for a module with no backing file")
	}
}

func TestLoadCachesParsedStatements(t *testing.T) {
	l, dir := newTestLoader(t)
	writeModule(t, dir, "lib/core.dryad", "export let answer = 42;")

	stmts1, _, ok := l.Load("core")
	if !ok {
		t.Fatal("expected core to load")
	}
	if !l.IsLoaded("core") {
		t.Error("expected IsLoaded to report true after Load")
	}
	stmts2, _, ok := l.Load("core")
	if !ok {
		t.Fatal("expected second load to hit the cache")
	}
	if len(stmts1) != len(stmts2) || len(stmts1) == 0 {
		t.Errorf("expected identical cached statement lists, got %d and %d", len(stmts1), len(stmts2))
	}
}

func TestLoadModuleNotFound(t *testing.T) {
	l, _ := newTestLoader(t)
	_, d, ok := l.Load("missing")
	if ok {
		t.Fatal("expected load failure for a missing module")
	}
	if d.Code == 0 {
		t.Error("expected a diagnostic to be returned on load failure")
	}
}

func TestAddAliasOverride(t *testing.T) {
	l, dir := newTestLoader(t)
	writeModule(t, dir, "vendor/special.dryad", "export let x = 1;")
	l.AddAlias("sp", "vendor/special")

	path, ok := l.Resolve("sp")
	if !ok {
		t.Fatal("expected custom alias to resolve")
	}
	if path != filepath.Join(dir, "vendor/special.dryad") {
		t.Errorf("unexpected resolved path: %s", path)
	}
}
