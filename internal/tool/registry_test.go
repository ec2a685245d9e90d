package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(_ context.Context, _ Args) (any, error) { return "ok", nil }

func named(name string) Schema {
	return Schema{Name: name, Description: "tool " + name}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.List())
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(named("echo"), nopHandler))

	def, ok := reg.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", def.Schema.Name)
	assert.NotNil(t, def.Handler)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(named("echo"), nopHandler))

	err := reg.Register(named("echo"), nopHandler)
	require.ErrorIs(t, err, ErrDuplicateTool)
	assert.Contains(t, err.Error(), "echo")
	assert.Equal(t, 1, reg.Len())
}

func TestRegisterRejectsBadSchema(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(Schema{}, nopHandler)
	require.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestRegisterRejectsNilHandler(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(named("echo"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler is required")
}

func TestListKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(named(name), nopHandler))
	}

	first := reg.List()
	second := reg.List()

	names := make([]string, 0, len(first))
	for _, s := range first {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
	assert.Equal(t, first, second)

	// Callers cannot reorder the registry through the returned slice.
	first[0] = named("mutated")
	assert.Equal(t, "zeta", reg.List()[0].Name)
}
