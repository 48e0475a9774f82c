package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// TargetKind distinguishes libraries from executables.
type TargetKind int

const (
	// TargetLibrary is a static library archived from its objects.
	TargetLibrary TargetKind = iota
	// TargetExecutable is a program linked from its objects and libraries.
	TargetExecutable
)

// String returns the vocabulary name of the kind.
func (k TargetKind) String() string {
	if k == TargetExecutable {
		return "executable"
	}
	return "library"
}

// MarshalText implements encoding.TextMarshaler.
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TargetKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "library":
		*k = TargetLibrary
	case "executable":
		*k = TargetExecutable
	default:
		return zerr.With(zerr.New("unknown target kind"), "kind", string(text))
	}
	return nil
}

// Target is a library or executable declared by the build script.
type Target struct {
	Kind    TargetKind
	Name    InternedString
	Sources []string
	Deps    []InternedString
	// CFlags are appended after the global compile flags for this target only.
	CFlags []string
}

// Artifact returns the path of the file the target produces.
func (t *Target) Artifact() string {
	if t.Kind == TargetExecutable {
		return ExecutableArtifactPath(t.Name.String())
	}
	return LibraryArtifactPath(t.Name.String())
}

// Objects returns the object paths of the target's sources, in source order.
func (t *Target) Objects(project string) []string {
	objects := make([]string, len(t.Sources))
	for i, src := range t.Sources {
		objects[i] = ObjectPath(project, t.Name.String(), src)
	}
	return objects
}

// ValidateTargetName rejects names that cannot be a make target or path
// segment, and executable names that would be linked over a build/ entry.
func ValidateTargetName(kind TargetKind, name string) error {
	if !targetNamePattern.MatchString(name) {
		return tag(ErrInvalidTargetName, "target", name)
	}
	if _, reserved := reservedBuildEntries[name]; reserved && kind == TargetExecutable {
		return tag(ErrInvalidTargetName, "target", name, "reason", "collides with "+ExecutableArtifactPath(name))
	}
	return nil
}

func (t *Target) validate() error {
	name := t.Name.String()
	if err := ValidateTargetName(t.Kind, name); err != nil {
		return err
	}
	if len(t.Sources) == 0 {
		return tag(ErrEmptyTarget, "target", name)
	}

	seen := make(map[string]string, len(t.Sources))
	for _, src := range t.Sources {
		base := baseName(src)
		if prev, ok := seen[base]; ok {
			return tag(ErrObjectCollision, "target", name, "source", src, "conflicts_with", prev)
		}
		seen[base] = src
	}
	return nil
}

// ShellFunction is a named shell command emitted as its own rule.
type ShellFunction struct {
	Name    InternedString
	Command string
	Deps    []string
}

// CustomStepKind distinguishes custom step variants.
type CustomStepKind string

const (
	// CustomStepShell runs a shell command.
	CustomStepShell CustomStepKind = "shell"
	// CustomStepCopy copies one file.
	CustomStepCopy CustomStepKind = "copy"
)

// CustomStep is an anonymous phony step. Its position in the graph names its rule.
type CustomStep struct {
	Kind    CustomStepKind `json:"kind"`
	Command string         `json:"cmd,omitempty"`
	Deps    []string       `json:"deps,omitempty"`
	Src     string         `json:"src,omitempty"`
	Dest    string         `json:"dest,omitempty"`
}

// RuleName returns custom_shell_<index> or copy_<index>.
func (s CustomStep) RuleName(index int) string {
	if s.Kind == CustomStepCopy {
		return "copy_" + strconv.Itoa(index)
	}
	return "custom_shell_" + strconv.Itoa(index)
}

func (s CustomStep) validate() error {
	switch s.Kind {
	case CustomStepShell:
		if strings.TrimSpace(s.Command) == "" {
			return tag(ErrInvalidCustomStep, "reason", "shell step needs cmd")
		}
	case CustomStepCopy:
		if s.Src == "" || s.Dest == "" {
			return tag(ErrInvalidCustomStep, "reason", "copy step needs src and dest")
		}
	default:
		return tag(ErrInvalidCustomStep, "type", string(s.Kind))
	}
	return nil
}
