package domain

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the shapes a config or variable value can take.
type ValueKind int

const (
	// ValueString is a scalar string (numbers are stored in their decimal form).
	ValueString ValueKind = iota
	// ValueBool is a boolean scalar.
	ValueBool
	// ValueList is an ordered sequence of strings.
	ValueList
)

// Value is a scalar or list value declared by the build script.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Bool bool      `json:"bool,omitempty"`
	List []string  `json:"list,omitempty"`
}

// StringValue builds a scalar string value.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// BoolValue builds a boolean value.
func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// ListValue builds a list value. The slice is copied.
func ListValue(items []string) Value {
	return Value{Kind: ValueList, List: append([]string(nil), items...)}
}

// String renders the value the way it appears in the emitted build script.
func (v Value) String() string {
	switch v.Kind {
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueList:
		return strings.Join(v.List, " ")
	default:
		return v.Str
	}
}

// Strings returns the value as a flag list. A scalar string is split on whitespace.
func (v Value) Strings() []string {
	switch v.Kind {
	case ValueList:
		return append([]string(nil), v.List...)
	case ValueBool:
		return []string{strconv.FormatBool(v.Bool)}
	default:
		return strings.Fields(v.Str)
	}
}

// Truth reports whether the value enables a boolean setting.
func (v Value) Truth() bool {
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueList:
		return len(v.List) > 0
	default:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	}
}

// Variable is a named value injected verbatim into the emitted build script.
type Variable struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}
