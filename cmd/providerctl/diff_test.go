package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/providerctl/pkg/provider"
)

func TestChangeDiff(t *testing.T) {
	var agents provider.AgentMap[provider.AgentConfig]
	agents.Set("simple", provider.AgentConfig{Model: "gpt-4o"})
	saved := provider.Config{ID: 3, Name: "Production", Type: "openai", Agents: agents}

	t.Run("unchanged", func(t *testing.T) {
		diff, err := changeDiff(&saved, provider.MutationInput{Name: saved.Name, Type: saved.Type, Agents: agents})
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("changed model", func(t *testing.T) {
		var edited provider.AgentMap[provider.AgentConfig]
		edited.Set("simple", provider.AgentConfig{Model: "gpt-4o-mini"})

		diff, err := changeDiff(&saved, provider.MutationInput{Name: saved.Name, Type: saved.Type, Agents: edited})
		require.NoError(t, err)
		assert.Contains(t, diff, "--- saved")
		assert.Contains(t, diff, "+++ edited")
		assert.Regexp(t, `(?m)^-\s+model: gpt-4o$`, diff)
		assert.Regexp(t, `(?m)^\+\s+model: gpt-4o-mini$`, diff)
	})

	t.Run("new provider", func(t *testing.T) {
		diff, err := changeDiff(nil, provider.MutationInput{Name: "fresh", Type: "openai", Agents: agents})
		require.NoError(t, err)
		assert.Contains(t, diff, "+name: fresh\n")
	})
}

func TestColorizeDiff_KeepsLines(t *testing.T) {
	in := "--- saved\n+++ edited\n@@ -1 +1 @@\n-a\n+b\n c\n"
	out := colorizeDiff(in)
	for _, want := range []string{"--- saved", "+++ edited", "-a", "+b", " c"} {
		assert.Contains(t, out, want)
	}
}
