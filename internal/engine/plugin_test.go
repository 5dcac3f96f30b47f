package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginSet_EnabledPreservesRegistrationOrder(t *testing.T) {
	set := NewPluginSet(BuiltinPlugins(), []string{"npm", "kubectl", "git"})

	var ids []string
	for _, p := range set.Enabled() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"kubectl", "git", "npm"}, ids)
}

func TestPluginSet_ToggleAndLookup(t *testing.T) {
	set := NewPluginSet(BuiltinPlugins(), nil)
	assert.Empty(t, set.Enabled())

	set.Enable("docker")
	assert.True(t, set.IsEnabled("docker"))
	require.Len(t, set.Enabled(), 1)

	set.Disable("docker")
	assert.False(t, set.IsEnabled("docker"))

	p, ok := set.Lookup("git")
	require.True(t, ok)
	assert.Equal(t, "Git", p.Name)
	_, ok = set.Lookup("terraform")
	assert.False(t, ok)
}

func TestBuiltinPlugins_CatalogShape(t *testing.T) {
	plugins := BuiltinPlugins()
	require.Len(t, plugins, 4)

	ids := []string{plugins[0].ID, plugins[1].ID, plugins[2].ID, plugins[3].ID}
	assert.Equal(t, []string{"kubectl", "git", "docker", "npm"}, ids)

	for _, p := range plugins {
		assert.NotEmpty(t, p.TriggerWords, p.ID)
		assert.NotNil(t, p.PostProcess, p.ID)
	}
}
