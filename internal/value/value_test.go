package value

import "testing"

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", NullValue, false},
		{"zero", Number(0), false},
		{"nonzero", Number(1), true},
		{"negative", Number(-1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"false", Boolean(false), false},
		{"true", Boolean(true), true},
		{"empty array", NewArray(nil), true},
		{"empty object", NewObject(), true},
		{"exception", &Exception{Message: "boom"}, false},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("%s: Truthy() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEqualPrimitives(t *testing.T) {
	if !Equal(Number(1), Number(1)) {
		t.Error("1 == 1 should be true")
	}
	if Equal(Number(1), Number(2)) {
		t.Error("1 == 2 should be false")
	}
	if !Equal(String("a"), String("a")) {
		t.Error(`"a" == "a" should be true`)
	}
	if Equal(Number(1), String("1")) {
		t.Error("values of different kinds should never be equal")
	}
}

func TestEqualArraysAreReferenceEquality(t *testing.T) {
	a := NewArray([]Value{Number(1)})
	b := NewArray([]Value{Number(1)})
	if Equal(a, b) {
		t.Error("distinct array instances with == should not be equal by reference")
	}
	if !Equal(a, a) {
		t.Error("an array should == itself")
	}
}

func TestDeepEqualArrays(t *testing.T) {
	a := NewArray([]Value{Number(1), String("x")})
	b := NewArray([]Value{Number(1), String("x")})
	if !DeepEqual(a, b) {
		t.Error("structurally identical arrays should be DeepEqual")
	}
	c := NewArray([]Value{Number(1), String("y")})
	if DeepEqual(a, c) {
		t.Error("arrays differing in content should not be DeepEqual")
	}
}

func TestDeepEqualObjects(t *testing.T) {
	a := NewObject()
	a.Set("x", Number(1))
	b := NewObject()
	b.Set("x", Number(1))
	if !DeepEqual(a, b) {
		t.Error("structurally identical objects should be DeepEqual")
	}
}

func TestArrayCloneIsShallowCopy(t *testing.T) {
	a := NewArray([]Value{Number(1), Number(2)})
	clone := a.Clone()
	clone.Elements[0] = Number(99)
	if a.Elements[0] != Number(1) {
		t.Error("mutating a clone's elements should not affect the original")
	}
}

func TestObjectClonePreservesKeyOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Number(1))
	o.Set("a", Number(2))
	clone := o.Clone()
	if got := clone.Keys(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("clone did not preserve insertion order: %v", got)
	}
}

func TestInstanceEqualityComparesFieldsByClass(t *testing.T) {
	cls := &Class{Name: "Point", Methods: map[string]*Function{}, StaticMethods: map[string]*Function{}}
	a := NewInstance(cls)
	a.Fields["x"] = Number(1)
	b := NewInstance(cls)
	b.Fields["x"] = Number(1)
	if !Equal(a, b) {
		t.Error("instances of the same class with equal fields should be Equal")
	}
	b.Fields["x"] = Number(2)
	if Equal(a, b) {
		t.Error("instances with differing field values should not be Equal")
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(1), "number"},
		{String("x"), "string"},
		{Boolean(true), "boolean"},
		{NullValue, "null"},
		{NewArray(nil), "array"},
		{NewObject(), "object"},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.v); got != tt.want {
			t.Errorf("TypeOf(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestNumberStringFormatting(t *testing.T) {
	if got := Number(5).String(); got != "5" {
		t.Errorf("whole number should format without decimal: got %q", got)
	}
	if got := Number(5.5).String(); got != "5.5" {
		t.Errorf("fractional number should keep its decimal: got %q", got)
	}
}
