// Package value implements Dryad's runtime value model: the tagged union
// of number/string/boolean/null/array/object/class/instance/function/
// exception variants, plus truthiness and equality.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dryad-lang/dryad/internal/ast"
)

// Kind tags a Value's variant.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindArray
	KindObject
	KindClass
	KindInstance
	KindFunction
	KindException
	KindNativeModule
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindFunction:
		return "function"
	case KindException:
		return "exception"
	case KindNativeModule:
		return "native-module"
	default:
		return "null"
	}
}

// Value is any Dryad runtime value.
type Value interface {
	Kind() Kind
	String() string
}

// Null is the singleton null value.
type Null struct{}

func (Null) Kind() Kind      { return KindNull }
func (Null) String() string  { return "null" }

var NullValue = Null{}

// Number wraps a 64-bit float, Dryad's sole numeric representation.
type Number float64

func (Number) Kind() Kind { return KindNumber }
func (n Number) String() string {
	f := float64(n)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String wraps a Go string.
type String string

func (String) Kind() Kind     { return KindString }
func (s String) String() string { return string(s) }

// Boolean wraps a Go bool.
type Boolean bool

func (Boolean) Kind() Kind      { return KindBoolean }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// Array is an ordered, value-cloned sequence of values (§9: arrays are
// copied on assignment and by mutators that "modify" them).
type Array struct {
	Elements []Value
}

func NewArray(elems []Value) *Array { return &Array{Elements: elems} }

func (*Array) Kind() Kind { return KindArray }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Clone returns a shallow copy of a, giving assignment value semantics.
func (a *Array) Clone() *Array {
	cp := make([]Value, len(a.Elements))
	copy(cp, a.Elements)
	return &Array{Elements: cp}
}

// Object is a string-keyed map; insertion order is not semantically
// meaningful but is preserved for Keys(), Clone and Json output.
// String() lists the keys in sorted order.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (*Object) Kind() Kind { return KindObject }

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) Clone() *Object {
	cp := NewObject()
	for _, k := range o.keys {
		cp.Set(k, o.values[k])
	}
	return cp
}

func (o *Object) String() string {
	keys := append([]string(nil), o.keys...)
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, o.values[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Class is a shared handle: any reference to it, or to any instance of
// it, observes the same method tables (§3 Ownership & lifetimes).
type Class struct {
	Name           string
	Fields         []*ast.FieldDecl // ordered; declares the instance field set
	Methods        map[string]*Function
	StaticMethods  map[string]*Function
}

func (*Class) Kind() Kind     { return KindClass }
func (c *Class) String() string { return "<class " + c.Name + ">" }

// Instance is a shared, mutable class instance: field writes are visible
// through every alias to the same Instance.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(c *Class) *Instance {
	fields := make(map[string]Value, len(c.Fields))
	for _, f := range c.Fields {
		fields[f.Name] = NullValue
	}
	return &Instance{Class: c, Fields: fields}
}

func (*Instance) Kind() Kind { return KindInstance }
func (i *Instance) String() string {
	return "<" + i.Class.Name + " instance>"
}

// Environment is the minimal interface Function needs from the
// evaluator's environment, avoiding an import cycle between value and
// interp.
type Environment interface{}

// Function is a closure: a user-defined function or method value,
// capturing its defining environment by reference (§9 closure capture
// semantics).
type Function struct {
	Name       string
	Parameters []string
	Body       *ast.BlockStatement
	Env        Environment
	Visibility ast.Visibility
	IsStatic   bool
	// BoundThis is set when a Function value is produced by binding a
	// method to a particular instance (e.g. when read as a first-class
	// value via member access).
	BoundThis *Instance
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) String() string {
	return "<function " + f.Name + ">"
}

// Exception is the payload carried by `throw`/`catch`.
type Exception struct {
	Message string
	Payload Value // optional; nil if the thrown value was a plain string
}

func (*Exception) Kind() Kind { return KindException }
func (e *Exception) String() string { return e.Message }

// NativeModule is a handle to a module-qualified built-in registry entry
// (Console, Fs, Math, ...), resolved during member/call expression
// evaluation (§4.6, §4.7).
type NativeModule struct {
	Name string
}

func (*NativeModule) Kind() Kind { return KindNativeModule }
func (m *NativeModule) String() string { return "<native module " + m.Name + ">" }

// Truthy implements §4.4's truthiness table: false, null, numeric 0.0,
// and the empty string are falsy; everything else is truthy, except
// exceptions, which are pinned falsy to prevent a thrown value used
// directly in a condition from silently passing.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Number:
		return float64(t) != 0
	case String:
		return string(t) != ""
	case Boolean:
		return bool(t)
	case *Exception:
		return false
	default:
		return true
	}
}

// Equal implements §4.4's equality rules for `==`/`!=`.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Boolean:
		return av == b.(Boolean)
	case *Class:
		return av == b.(*Class)
	case *Instance:
		bv := b.(*Instance)
		if av.Class != bv.Class {
			return false
		}
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, fv := range av.Fields {
			ov, ok := bv.Fields[k]
			if !ok || !Equal(fv, ov) {
				return false
			}
		}
		return true
	case *Function:
		return av.Name == b.(*Function).Name
	case *Exception:
		return av.Message == b.(*Exception).Message
	default:
		return a == b
	}
}

// DeepEqual extends Equal with recursive structural comparison for
// arrays and objects, backing Core.deepEquals (§12 supplemented feature).
func DeepEqual(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Array:
		bv := b.(*Array)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !DeepEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.keys) != len(bv.keys) {
			return false
		}
		for _, k := range av.keys {
			ov, ok := bv.Get(k)
			if !ok || !DeepEqual(av.values[k], ov) {
				return false
			}
		}
		return true
	default:
		return Equal(a, b)
	}
}

// TypeOf renders Core.typeof's string name for v's kind.
func TypeOf(v Value) string { return v.Kind().String() }
