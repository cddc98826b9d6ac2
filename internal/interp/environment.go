// Package interp implements Dryad's tree-walking evaluator: the lexical
// environment chain, the statement/expression evaluation rules of §4.5,
// and the exception/function-call state machines.
package interp

import (
	"strings"

	"github.com/dryad-lang/dryad/internal/value"
)

// Environment is a lexical-scope record: variables, an optional `this`
// binding, an alias table (local name -> dotted module path), an export
// table, and a parent link. Block statements never create a new
// Environment (§3); only function-call frames, catch clauses, namespace
// bodies, and module `use`/`using` bodies do.
type Environment struct {
	vars    map[string]value.Value
	this    *value.Instance
	aliases map[string]string
	exports map[string]value.Value
	parent  *Environment
}

// NewEnvironment creates a child frame of parent (nil for the global
// frame).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		vars:    make(map[string]value.Value),
		aliases: make(map[string]string),
		exports: make(map[string]value.Value),
		parent:  parent,
	}
}

// Define binds name in this frame directly, without consulting the
// parent chain. Used for variable declarations, function declarations,
// class declarations, and parameter binding.
func (e *Environment) Define(name string, v value.Value) {
	e.vars[name] = cloneForBinding(v)
}

// Set rebinds name in the innermost frame of the chain that already
// holds it; if no frame does, the binding is created in this frame.
func (e *Environment) Set(name string, v value.Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = cloneForBinding(v)
			return
		}
	}
	e.vars[name] = cloneForBinding(v)
}

// cloneForBinding gives arrays and objects value semantics: binding one
// into a frame (plain assignment, `let`, or parameter passing) copies it,
// so later mutation through the new name never reaches back through the
// old one (§9 "assignments and parameter passing copy; mutators return
// modified copies").
func cloneForBinding(v value.Value) value.Value {
	switch cv := v.(type) {
	case *value.Array:
		return cv.Clone()
	case *value.Object:
		return cv.Clone()
	default:
		return v
	}
}

// SetThis binds `this` in this frame.
func (e *Environment) SetThis(inst *value.Instance) {
	e.this = inst
}

// This returns the nearest enclosing `this` binding, walking the chain.
func (e *Environment) This() (*value.Instance, bool) {
	for env := e; env != nil; env = env.parent {
		if env.this != nil {
			return env.this, true
		}
	}
	return nil, false
}

// Get implements §4.4's lookup order: `this`, then a plain variable
// walking the chain, then alias-prefixed namespace resolution, then the
// export table, else a miss.
func (e *Environment) Get(name string) (value.Value, bool) {
	if name == "this" {
		if inst, ok := e.This(); ok {
			return inst, true
		}
		return nil, false
	}

	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}

	if v, ok := e.ResolveWithAlias(name); ok {
		return v, true
	}

	for env := e; env != nil; env = env.parent {
		if v, ok := env.exports[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// DefineInNamespace stores v under the dotted key "ns.name" in this
// frame, or under "name" alone when ns is empty.
func (e *Environment) DefineInNamespace(ns, name string, v value.Value) {
	key := name
	if ns != "" {
		key = ns + "." + name
	}
	e.Define(key, v)
}

// ResolveNamespacePath tries path as a dotted variable key, then
// progressively shorter left-anchored prefixes, walking the chain at
// each length.
func (e *Environment) ResolveNamespacePath(path string) (value.Value, bool) {
	segments := strings.Split(path, ".")
	for i := len(segments); i > 0; i-- {
		key := strings.Join(segments[:i], ".")
		for env := e; env != nil; env = env.parent {
			if v, ok := env.vars[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// AddAlias registers alias -> fullPath in this frame.
func (e *Environment) AddAlias(alias, fullPath string) {
	e.aliases[alias] = fullPath
}

// ResolveWithAlias substitutes path's first dotted segment with its
// alias expansion, if one is registered anywhere in the chain, then
// recurses into namespace-path resolution.
func (e *Environment) ResolveWithAlias(path string) (value.Value, bool) {
	segments := strings.Split(path, ".")
	head := segments[0]

	for env := e; env != nil; env = env.parent {
		if expansion, ok := env.aliases[head]; ok {
			rest := append([]string{expansion}, segments[1:]...)
			return e.ResolveNamespacePath(strings.Join(rest, "."))
		}
	}
	return nil, false
}

// ExportItem adds name -> v to this frame's export table.
func (e *Environment) ExportItem(name string, v value.Value) {
	e.exports[name] = v
}

// Exports returns a copy of this frame's export table, for merging into
// a caller's frame after a `use` statement.
func (e *Environment) Exports() map[string]value.Value {
	out := make(map[string]value.Value, len(e.exports))
	for k, v := range e.exports {
		out[k] = v
	}
	return out
}
