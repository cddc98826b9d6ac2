// Package module implements Dryad's module loader: resolution of a
// logical module name (an alias or a dotted path) to a source file,
// parse-once caching, and the default alias table (§4.7).
package module

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/internal/parser"
)

// DefaultAliases is the built-in alias table every Loader starts with.
var DefaultAliases = map[string]string{
	"io":     "lib/io",
	"math":   "lib/math",
	"core":   "lib/core",
	"system": "lib/system",
}

type cacheEntry struct {
	path       string
	statements []ast.Statement
}

// Loader resolves logical module names to files, parses them once, and
// caches the resulting statement list by resolved path. It never
// evaluates anything (§6 "the loader never evaluates statements").
type Loader struct {
	searchPaths []string
	aliases     map[string]string
	cache       map[string]*cacheEntry
	readFile    func(string) ([]byte, error)
}

// NewLoader builds a Loader whose search paths always include "./lib"
// and "./oak_modules", followed by a "lib" directory adjacent to the
// running executable if one exists, followed by any extraPaths handed
// in by an external collaborator (the Oak configuration, per §6).
func NewLoader(extraPaths []string) *Loader {
	paths := []string{"./lib", "./oak_modules"}
	if exe, err := os.Executable(); err == nil {
		adjacent := filepath.Join(filepath.Dir(exe), "lib")
		if info, err := os.Stat(adjacent); err == nil && info.IsDir() {
			paths = append(paths, adjacent)
		}
	}
	paths = append(paths, extraPaths...)

	aliases := make(map[string]string, len(DefaultAliases))
	for k, v := range DefaultAliases {
		aliases[k] = v
	}

	return &Loader{
		searchPaths: paths,
		aliases:     aliases,
		cache:       make(map[string]*cacheEntry),
		readFile:    os.ReadFile,
	}
}

// AddAlias registers or overrides a local alias for a dotted module path.
func (l *Loader) AddAlias(alias, dottedPath string) {
	l.aliases[alias] = dottedPath
}

// AddSearchPath appends a directory to the end of the search order.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Resolve turns a logical module name into a filesystem path, following
// §4.7's resolution order: (1) alias table, tried against the full
// dotted name and progressively shorter left-anchored prefixes; (2)
// dotted-name-to-path conversion (`.` -> separator, `.dryad` suffix);
// (3) search paths in registration order. Returns ("", false) if no
// candidate file exists anywhere.
func (l *Loader) Resolve(name string) (string, bool) {
	if aliased, ok := l.resolveAlias(name); ok {
		if path, ok := l.findInSearchPaths(aliased); ok {
			return path, true
		}
		// The alias target may itself already be a concrete relative path.
		if info, err := os.Stat(aliased); err == nil && !info.IsDir() {
			return aliased, true
		}
	}

	rel := strings.ReplaceAll(name, ".", string(filepath.Separator)) + ".dryad"
	if path, ok := l.findInSearchPaths(rel); ok {
		return path, true
	}

	return "", false
}

// resolveAlias tries the alias table against the full dotted path, then
// each progressively shorter left-anchored prefix, substituting the
// matched alias's expansion and appending the remaining segments as
// path components.
func (l *Loader) resolveAlias(path string) (string, bool) {
	segments := strings.Split(path, ".")
	for i := len(segments); i > 0; i-- {
		prefix := strings.Join(segments[:i], ".")
		if expansion, ok := l.aliases[prefix]; ok {
			rest := segments[i:]
			if len(rest) == 0 {
				return expansion, true
			}
			return expansion + string(filepath.Separator) + strings.Join(rest, string(filepath.Separator)), true
		}
	}
	return "", false
}

func (l *Loader) findInSearchPaths(rel string) (string, bool) {
	if !strings.HasSuffix(rel, ".dryad") {
		rel += ".dryad"
	}
	for _, dir := range l.searchPaths {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Load resolves name, parses the file the first time it is seen, and
// returns the cached statement list on every subsequent call for the
// same resolved path.
func (l *Loader) Load(name string) ([]ast.Statement, diag.Diagnostic, bool) {
	path, ok := l.Resolve(name)
	if !ok {
		return nil, diag.New(diag.EModuleNotFound, "module not found: "+name, nil), false
	}

	if entry, ok := l.cache[path]; ok {
		return entry.statements, diag.Diagnostic{}, true
	}

	src, err := l.readFile(path)
	if err != nil {
		return nil, diag.New(diag.EFileNotFound, "failed to read module file: "+path, nil), false
	}

	lx := lexer.New(string(src))
	p := parser.New(lx)
	prog := p.ParseProgram()

	if len(p.Diagnostics()) > 0 {
		return nil, p.Diagnostics()[0], false
	}

	l.cache[path] = &cacheEntry{path: path, statements: prog.Statements}
	return prog.Statements, diag.Diagnostic{}, true
}

// IsLoaded reports whether name has already been resolved and cached.
func (l *Loader) IsLoaded(name string) bool {
	path, ok := l.Resolve(name)
	if !ok {
		return false
	}
	_, cached := l.cache[path]
	return cached
}
