package vm

import (
	"fmt"
	"math"
)

// Kind identifies which alternative of the tagged union a Value holds
// (spec.md §4.9: "tagged unions over {int64, float64, bool, char,
// string handle, unit}").
type Kind uint8

const (
	KUnit Kind = iota
	KInt
	KFloat
	KBool
	KChar
	KString
)

// Value is a stack-allocated tagged union, grounded on funvibe-funxy's
// internal/vm Value{Type, Data, Obj} shape: small primitives pack into
// Data so pushing/popping them never allocates, while a string is the
// one alternative that needs a heap-backed handle.
type Value struct {
	Kind Kind
	Data uint64 // int64 bits, float64 bits, bool (0/1), or a rune
	Str  string
}

func UnitVal() Value           { return Value{Kind: KUnit} }
func IntVal(v int64) Value     { return Value{Kind: KInt, Data: uint64(v)} }
func FloatVal(v float64) Value { return Value{Kind: KFloat, Data: math.Float64bits(v)} }
func CharVal(v rune) Value     { return Value{Kind: KChar, Data: uint64(v)} }
func StringVal(v string) Value { return Value{Kind: KString, Str: v} }

func BoolVal(v bool) Value {
	var d uint64
	if v {
		d = 1
	}
	return Value{Kind: KBool, Data: d}
}

func (v Value) AsInt() int64     { return int64(v.Data) }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.Data) }
func (v Value) AsBool() bool     { return v.Data == 1 }
func (v Value) AsChar() rune     { return rune(v.Data) }
func (v Value) AsString() string { return v.Str }

// Inspect renders a Value for diagnostic/REPL output.
func (v Value) Inspect() string {
	switch v.Kind {
	case KInt:
		return fmt.Sprintf("%d", v.AsInt())
	case KFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KBool:
		return fmt.Sprintf("%t", v.AsBool())
	case KChar:
		return fmt.Sprintf("%q", v.AsChar())
	case KString:
		return fmt.Sprintf("%q", v.Str)
	default:
		return "()"
	}
}
