package domain

import "strings"

// Well-known GlobalConfig keys.
const (
	ConfigKeyCompiler = "CC"
	ConfigKeyArchiver = "AR"
	ConfigKeyLinker   = "LD"
	ConfigKeyCFlags   = "CFLAGS"
	ConfigKeyLDFlags  = "LDFLAGS"
	ConfigKeyDebug    = "DEBUG"
)

// ValidateConfig checks a value before it is stored under key. The tool
// overrides are used as argv[0], so they must be one non-empty word.
func ValidateConfig(key string, value Value) error {
	switch key {
	case ConfigKeyCompiler, ConfigKeyArchiver, ConfigKeyLinker:
	default:
		return nil
	}
	if value.Kind != ValueString || value.Str == "" || strings.ContainsAny(value.Str, " \t\n") {
		return tag(ErrInvalidToolOverride, "key", key, "value", value.String())
	}
	return nil
}

// ConfigEntry is one key of the global configuration.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// GlobalConfig is the project-wide key/value configuration.
// Entries keep the position of their first declaration.
type GlobalConfig struct {
	entries []ConfigEntry
}

// Set stores a value for key, replacing any previous value in place.
func (c *GlobalConfig) Set(key string, value Value) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries[i].Value = value
			return
		}
	}
	c.entries = append(c.entries, ConfigEntry{Key: key, Value: value})
}

// Get returns the value stored for key.
func (c *GlobalConfig) Get(key string) (Value, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Entries returns a copy of the entries in declaration order.
func (c *GlobalConfig) Entries() []ConfigEntry {
	return append([]ConfigEntry(nil), c.entries...)
}

// Debug reports whether debug builds are requested.
func (c *GlobalConfig) Debug() bool {
	v, ok := c.Get(ConfigKeyDebug)
	return ok && v.Truth()
}

// DebugFlags returns -g -O0 for debug builds and -O2 otherwise.
func (c *GlobalConfig) DebugFlags() []string {
	if c.Debug() {
		return []string{"-g", "-O0"}
	}
	return []string{"-O2"}
}

// CFlags returns the user compile flags.
func (c *GlobalConfig) CFlags() []string {
	return c.flags(ConfigKeyCFlags)
}

// LDFlags returns the user link flags.
func (c *GlobalConfig) LDFlags() []string {
	return c.flags(ConfigKeyLDFlags)
}

// Overrides returns the toolchain binaries pinned by the configuration.
func (c *GlobalConfig) Overrides() ToolOverrides {
	return ToolOverrides{
		Compiler: c.scalar(ConfigKeyCompiler),
		Archiver: c.scalar(ConfigKeyArchiver),
		Linker:   c.scalar(ConfigKeyLinker),
	}
}

func (c *GlobalConfig) flags(key string) []string {
	v, ok := c.Get(key)
	if !ok {
		return nil
	}
	return v.Strings()
}

func (c *GlobalConfig) scalar(key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}
