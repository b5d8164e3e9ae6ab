package providerform

import (
	"strings"

	"github.com/germanamz/providerctl/pkg/provider"
)

// ToMutationInput converts form state into the payload of the create, update
// and test mutations. Agents without a model are dropped, unset numbers
// become nil, and a price is sent only when both of its sides are numbers.
// It never fails: anything malformed is treated as unset.
func ToMutationInput(f Form) provider.MutationInput {
	in := provider.MutationInput{
		Name: f.Name,
		Type: provider.Type(f.Type),
	}

	f.Agents.Each(func(key string, a AgentFields) bool {
		if provider.IsMetadataKey(key) {
			return true
		}
		model := strings.TrimSpace(a.Model)
		if model == "" {
			return true
		}
		in.Agents.Set(key, toAgentConfig(model, a))
		return true
	})

	return in
}

func toAgentConfig(model string, a AgentFields) provider.AgentConfig {
	ac := provider.AgentConfig{
		Model:             model,
		Temperature:       parseFloat(a.Temperature),
		MaxTokens:         parseInt(a.MaxTokens),
		TopK:              parseInt(a.TopK),
		TopP:              parseFloat(a.TopP),
		MinLength:         parseInt(a.MinLength),
		MaxLength:         parseInt(a.MaxLength),
		RepetitionPenalty: parseFloat(a.RepetitionPenalty),
		FrequencyPenalty:  parseFloat(a.FrequencyPenalty),
		PresencePenalty:   parseFloat(a.PresencePenalty),
	}

	if a.Reasoning != nil {
		ac.Reasoning = &provider.Reasoning{
			Effort:    provider.ParseReasoningEffort(strings.TrimSpace(a.Reasoning.Effort)),
			MaxTokens: parseInt(a.Reasoning.MaxTokens),
		}
	}

	if a.Price != nil {
		in, out := parseFloat(a.Price.Input), parseFloat(a.Price.Output)
		if in != nil && out != nil {
			ac.Price = &provider.Price{Input: *in, Output: *out}
		}
	}

	return ac
}
