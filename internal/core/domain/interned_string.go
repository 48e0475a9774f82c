package domain

import "unique"

// InternedString is a value object that wraps a unique.Handle[string].
// Target names and dependency references are interned so that name lookups
// and comparisons are handle comparisons.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString creates a new InternedString from a string.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// InternStrings interns every element of ss, keeping order.
func InternStrings(ss []string) []InternedString {
	if len(ss) == 0 {
		return nil
	}
	out := make([]InternedString, len(ss))
	for i, s := range ss {
		out[i] = NewInternedString(s)
	}
	return out
}

// Strings returns the string values of is, keeping order.
func Strings(is []InternedString) []string {
	if len(is) == 0 {
		return nil
	}
	out := make([]string, len(is))
	for i, s := range is {
		out[i] = s.String()
	}
	return out
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
