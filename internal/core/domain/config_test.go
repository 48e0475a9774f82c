package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pkgman/internal/core/domain"
)

func TestValue_Rendering(t *testing.T) {
	assert.Equal(t, "a b c", domain.ListValue([]string{"a", "b", "c"}).String())
	assert.Equal(t, "true", domain.BoolValue(true).String())
	assert.Equal(t, "42", domain.StringValue("42").String())
	assert.Equal(t, []string{"-Wall", "-O1"}, domain.StringValue(" -Wall  -O1 ").Strings())
}

func TestValue_Truth(t *testing.T) {
	tests := []struct {
		value domain.Value
		want  bool
	}{
		{domain.BoolValue(true), true},
		{domain.BoolValue(false), false},
		{domain.StringValue("1"), true},
		{domain.StringValue("0"), false},
		{domain.StringValue("False"), false},
		{domain.StringValue(""), false},
		{domain.ListValue(nil), false},
		{domain.ListValue([]string{"x"}), true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.Truth(), tt.value.String())
	}
}

func TestGlobalConfig(t *testing.T) {
	var c domain.GlobalConfig
	assert.Equal(t, []string{"-O2"}, c.DebugFlags())
	assert.Equal(t, domain.ToolOverrides{}, c.Overrides())

	c.Set(domain.ConfigKeyCompiler, domain.StringValue("clang"))
	c.Set("CUSTOM", domain.StringValue("kept"))
	c.Set(domain.ConfigKeyLDFlags, domain.ListValue([]string{"-lm", "-pthread"}))
	c.Set(domain.ConfigKeyDebug, domain.BoolValue(true))
	c.Set(domain.ConfigKeyCompiler, domain.StringValue("gcc"))

	assert.Equal(t, []string{"-g", "-O0"}, c.DebugFlags())
	assert.Equal(t, []string{"-lm", "-pthread"}, c.LDFlags())
	assert.Nil(t, c.CFlags())
	assert.Equal(t, domain.ToolOverrides{Compiler: "gcc"}, c.Overrides())

	entries := c.Entries()
	assert.Len(t, entries, 4)
	assert.Equal(t, domain.ConfigKeyCompiler, entries[0].Key)
	assert.Equal(t, "CUSTOM", entries[1].Key)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, domain.ValidateConfig(domain.ConfigKeyCompiler, domain.StringValue("clang")))
	assert.NoError(t, domain.ValidateConfig(domain.ConfigKeyLinker, domain.StringValue("/usr/bin/ld.lld")))
	assert.NoError(t, domain.ValidateConfig(domain.ConfigKeyCFlags, domain.ListValue([]string{"-Wall", "-O1"})))

	for _, v := range []domain.Value{
		domain.ListValue([]string{"ccache", "cc"}),
		domain.StringValue("ccache cc"),
		domain.StringValue(""),
		domain.BoolValue(true),
	} {
		assert.ErrorIs(t, domain.ValidateConfig(domain.ConfigKeyCompiler, v), domain.ErrInvalidToolOverride, v.String())
	}
	assert.ErrorIs(t, domain.ValidateConfig(domain.ConfigKeyArchiver, domain.ListValue([]string{"ar"})), domain.ErrInvalidToolOverride)
}
