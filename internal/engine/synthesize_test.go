package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct{ out string }

func (g fixedGenerator) Generate(string, Plugin) string { return g.out }

func pluginByID(t *testing.T, id string) Plugin {
	t.Helper()
	for _, p := range BuiltinPlugins() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("plugin %q not in catalog", id)
	return Plugin{}
}

func TestSynthesize_DestructiveMarkersGateConfirmation(t *testing.T) {
	cases := []struct {
		plugin string
		raw    string
	}{
		{"kubectl", "kubectl delete pod my-app"},
		{"kubectl", "kubectl drain node-1 --force"},
		{"git", "git push --force origin main"},
		{"git", "git reset --hard HEAD~3"},
		{"docker", "docker run --privileged app"},
		{"docker", "docker system prune -a"},
		{"npm", "npm install left-pad --force"},
		{"npm", "npm audit fix"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			synth := NewSynthesizer(fixedGenerator{out: tc.raw})
			block := synth.Synthesize("some request", pluginByID(t, tc.plugin))

			assert.True(t, block.RequiresConfirmation)
			assert.NotEmpty(t, block.Warnings)
			assert.Equal(t, BlockPending, block.Status)
		})
	}
}

func TestSynthesize_BenignCommandAutoConfirms(t *testing.T) {
	synth := NewSynthesizer(fixedGenerator{out: "git status"})
	block := synth.Synthesize("check my git status", pluginByID(t, "git"))

	assert.False(t, block.RequiresConfirmation)
	assert.Empty(t, block.Warnings)
	assert.Equal(t, BlockConfirmed, block.Status)
	assert.Equal(t, "git status", block.GeneratedCommand)
	assert.Equal(t, "git", block.PluginID)
	assert.Equal(t, "check my git status", block.OriginalInput)
	assert.NotEmpty(t, block.ID)
	assert.NotEmpty(t, block.Explanation)
}

func TestSynthesize_KubectlDeleteWarnsAboutDeletion(t *testing.T) {
	synth := NewSynthesizer(fixedGenerator{out: "kubectl delete namespace staging"})
	block := synth.Synthesize("remove the staging namespace", pluginByID(t, "kubectl"))

	require.True(t, block.RequiresConfirmation)
	require.Len(t, block.Warnings, 1)
	assert.Contains(t, block.Warnings[0], "delete")
}

func TestSynthesize_TrimsRawCommand(t *testing.T) {
	synth := NewSynthesizer(fixedGenerator{out: "  docker ps  \n"})
	block := synth.Synthesize("show containers", pluginByID(t, "docker"))
	assert.Equal(t, "docker ps", block.GeneratedCommand)
}

func TestMockGenerator_KeywordTemplates(t *testing.T) {
	gen := MockGenerator{}

	assert.Contains(t, gen.Generate("delete the broken pod", pluginByID(t, "kubectl")), "kubectl delete")
	assert.Contains(t, gen.Generate("show me recent commits", pluginByID(t, "git")), "git log")
	assert.Contains(t, gen.Generate("clean up old images", pluginByID(t, "docker")), "system prune")
	assert.Contains(t, gen.Generate("fix the vulnerabilities", pluginByID(t, "npm")), "npm audit fix")
	assert.Equal(t, "kubectl get pods --all-namespaces", gen.Generate("what pods exist", pluginByID(t, "kubectl")))
}
