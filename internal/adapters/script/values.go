package script

import (
	"go.starlark.net/starlark"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/zerr"
)

// targetValue is what exe() and lib() return. Passing it in deps is the same
// as passing the target's name.
type targetValue struct {
	target *domain.Target
}

var (
	_ starlark.Value    = (*targetValue)(nil)
	_ starlark.HasAttrs = (*targetValue)(nil)
)

func (t *targetValue) String() string {
	return "<" + t.Type() + " " + t.target.Name.String() + ">"
}

func (t *targetValue) Type() string {
	if t.target.Kind == domain.TargetExecutable {
		return "exe"
	}
	return "lib"
}

func (t *targetValue) Freeze() {}

func (t *targetValue) Truth() starlark.Bool { return starlark.True }

func (t *targetValue) Hash() (uint32, error) {
	return starlark.String(t.target.Name.String()).Hash()
}

func (t *targetValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(t.target.Name.String()), nil
	case "artifact":
		return starlark.String(t.target.Artifact()), nil
	case "sources":
		return stringList(t.target.Sources), nil
	}
	return nil, nil
}

func (t *targetValue) AttrNames() []string {
	return []string{"artifact", "name", "sources"}
}

// ruleValue is what a named shell() returns.
type ruleValue string

func (r ruleValue) String() string        { return "<rule " + string(r) + ">" }
func (r ruleValue) Type() string          { return "rule" }
func (r ruleValue) Freeze()               {}
func (r ruleValue) Truth() starlark.Bool  { return starlark.True }
func (r ruleValue) Hash() (uint32, error) { return starlark.String(r).Hash() }

// toValue converts a scalar or a list of scalars into a config/variable value.
func toValue(v starlark.Value, field string) (domain.Value, error) {
	switch value := v.(type) {
	case starlark.String:
		return domain.StringValue(value.GoString()), nil
	case starlark.Bool:
		return domain.BoolValue(bool(value)), nil
	case starlark.Int, starlark.Float:
		return domain.StringValue(value.String()), nil
	case *starlark.List, starlark.Tuple:
		items, err := flattenStrings(starlark.Tuple{value}, field)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.ListValue(items), nil
	}
	return domain.Value{}, zerr.With(zerr.With(zerr.New("unsupported value type"), "field", field), "type", v.Type())
}

// toDeps canonicalizes deps into names. Strings, target and rule references are accepted.
func toDeps(v starlark.Value) ([]string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, zerr.With(zerr.New("deps must be a list"), "type", v.Type())
	}

	var names []string
	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		switch dep := item.(type) {
		case starlark.String:
			names = append(names, dep.GoString())
		case *targetValue:
			names = append(names, dep.target.Name.String())
		case ruleValue:
			names = append(names, string(dep))
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidDependency, "deps entries must be names or references"), "type", item.Type())
		}
	}
	return names, nil
}

// optionalStrings reads a list of strings that may be None.
func optionalStrings(v starlark.Value, field string) ([]string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	return flattenStrings(starlark.Tuple{v}, field)
}

// flattenStrings collects strings from values that are strings or
// (nested) lists and tuples of strings.
func flattenStrings(values starlark.Tuple, field string) ([]string, error) {
	var out []string
	var walk func(v starlark.Value) error
	walk = func(v starlark.Value) error {
		switch value := v.(type) {
		case starlark.String:
			out = append(out, value.GoString())
			return nil
		case *starlark.List, starlark.Tuple:
			iter := value.(starlark.Iterable).Iterate()
			defer iter.Done()
			var item starlark.Value
			for iter.Next(&item) {
				if err := walk(item); err != nil {
					return err
				}
			}
			return nil
		}
		return zerr.With(zerr.With(zerr.New("expected strings"), "field", field), "type", v.Type())
	}

	for _, v := range values {
		if err := walk(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func stringList(items []string) *starlark.List {
	elems := make([]starlark.Value, len(items))
	for i, s := range items {
		elems[i] = starlark.String(s)
	}
	return starlark.NewList(elems)
}
