package providerform

import (
	"strconv"

	"github.com/germanamz/providerctl/pkg/provider"
)

// CopySuffix marks the name of a provider cloned from another one.
const CopySuffix = " (Copy)"

// Form is the editable state of a provider. Every value is kept as the text
// the user sees; an empty string means the value is unset.
type Form struct {
	Type   string
	Name   string
	Agents provider.AgentMap[AgentFields]
}

// AgentFields is the editable state of one agent role.
type AgentFields struct {
	Model             string
	Temperature       string
	MaxTokens         string
	TopK              string
	TopP              string
	MinLength         string
	MaxLength         string
	RepetitionPenalty string
	FrequencyPenalty  string
	PresencePenalty   string
	Reasoning         *ReasoningFields
	Price             *PriceFields
}

// ReasoningFields is the editable reasoning block of an agent.
type ReasoningFields struct {
	Effort    string
	MaxTokens string
}

// PriceFields is the editable price block of an agent.
type PriceFields struct {
	Input  string
	Output string
}

// New returns an empty form with the given type preselected.
func New(t provider.Type) Form {
	return Form{Type: string(t)}
}

// FromConfig seeds a form from a stored provider.
func FromConfig(c provider.Config) Form {
	return Form{
		Type:   string(c.Type),
		Name:   c.Name,
		Agents: AgentsFromConfig(c.Agents),
	}
}

// CopyOf seeds a new-provider form from an existing provider. The name is
// suffixed so the copy is distinguishable.
func CopyOf(c provider.Config) Form {
	f := FromConfig(c)
	f.Name = c.Name + CopySuffix
	return f
}

// Clone returns a deep copy of f.
func (f Form) Clone() Form {
	out := f
	out.Agents = provider.MapAgents(f.Agents, func(_ string, a AgentFields) AgentFields {
		return a.clone()
	})
	return out
}

func (a AgentFields) clone() AgentFields {
	out := a
	if a.Reasoning != nil {
		r := *a.Reasoning
		out.Reasoning = &r
	}
	if a.Price != nil {
		p := *a.Price
		out.Price = &p
	}
	return out
}

// EnsureAgents adds an empty entry for every role that has none yet, so the
// form carries a slot for each role the editor shows.
func (f *Form) EnsureAgents(roles []string) {
	for _, r := range roles {
		if provider.IsMetadataKey(r) || f.Agents.Has(r) {
			continue
		}
		f.Agents.Set(r, AgentFields{})
	}
}

// AgentsFromConfig converts stored agent setups into form fields.
func AgentsFromConfig(agents provider.AgentMap[provider.AgentConfig]) provider.AgentMap[AgentFields] {
	var out provider.AgentMap[AgentFields]
	agents.Each(func(key string, ac provider.AgentConfig) bool {
		if !provider.IsMetadataKey(key) {
			out.Set(key, AgentFieldsFromConfig(ac))
		}
		return true
	})
	return out
}

// AgentFieldsFromConfig converts one stored agent setup into form fields.
// Unset numbers become empty strings.
func AgentFieldsFromConfig(ac provider.AgentConfig) AgentFields {
	a := AgentFields{
		Model:             ac.Model,
		Temperature:       formatFloat(ac.Temperature),
		MaxTokens:         formatInt(ac.MaxTokens),
		TopK:              formatInt(ac.TopK),
		TopP:              formatFloat(ac.TopP),
		MinLength:         formatInt(ac.MinLength),
		MaxLength:         formatInt(ac.MaxLength),
		RepetitionPenalty: formatFloat(ac.RepetitionPenalty),
		FrequencyPenalty:  formatFloat(ac.FrequencyPenalty),
		PresencePenalty:   formatFloat(ac.PresencePenalty),
	}
	if ac.Reasoning != nil {
		r := &ReasoningFields{MaxTokens: formatInt(ac.Reasoning.MaxTokens)}
		if ac.Reasoning.Effort != nil {
			r.Effort = string(*ac.Reasoning.Effort)
		}
		a.Reasoning = r
	}
	if ac.Price != nil {
		a.Price = &PriceFields{
			Input:  strconv.FormatFloat(ac.Price.Input, 'f', -1, 64),
			Output: strconv.FormatFloat(ac.Price.Output, 'f', -1, 64),
		}
	}
	return a
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
