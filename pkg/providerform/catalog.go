package providerform

import (
	"slices"
	"strings"

	"github.com/germanamz/providerctl/pkg/provider"
)

// ResolveAgentTypes returns the agent roles the editor shows, sorted. The
// source is, in order of preference: the selected type's defaults when
// creating, the saved provider's agents when editing, the first default that
// has agents, and finally the canonical role list.
func ResolveAgentTypes(isNew bool, selected provider.Type, providerID string, cat *provider.Catalog) []string {
	var (
		source provider.AgentMap[provider.AgentConfig]
		found  bool
	)

	switch {
	case isNew && selected != "" && cat != nil:
		if d, ok := cat.DefaultFor(selected); ok && d.Agents.Len() > 0 {
			source, found = d.Agents, true
		}
	case !isNew && providerID != "" && cat != nil:
		if id, err := provider.ParseID(providerID); err == nil {
			if p, ok := cat.ProviderByID(id); ok && p.Agents.Len() > 0 {
				source, found = p.Agents, true
			}
		}
	}

	if !found {
		if d, ok := cat.FirstDefaultWithAgents(); ok {
			source, found = d.Agents, true
		}
	}

	if !found {
		return provider.CanonicalRoles()
	}

	roles := make([]string, 0, source.Len())
	for _, k := range source.Keys() {
		if !provider.IsMetadataKey(k) {
			roles = append(roles, k)
		}
	}
	slices.Sort(roles)
	return roles
}

// AvailableModels returns the models offered for t, nameless entries removed,
// sorted by name. An empty type or one the catalog does not know yields an
// empty list.
func AvailableModels(cat *provider.Catalog, t provider.Type) []provider.ModelOption {
	if t == "" {
		return nil
	}
	raw := cat.ModelsFor(t)
	if len(raw) == 0 {
		return nil
	}
	out := make([]provider.ModelOption, 0, len(raw))
	for _, m := range raw {
		if m.Name != "" {
			out = append(out, m)
		}
	}
	return provider.SortModels(out)
}

// SearchModels filters models by a case-insensitive substring of the name.
func SearchModels(models []provider.ModelOption, query string) []provider.ModelOption {
	q := strings.ToLower(query)
	var out []provider.ModelOption
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	return out
}

// DefaultAgents builds form agents from the default provider of t. A default
// model missing from available is replaced by the first available model. It
// reports false when there is nothing to fill: no available models, or no
// default with agents for t.
func DefaultAgents(cat *provider.Catalog, t provider.Type, available []provider.ModelOption) (provider.AgentMap[AgentFields], bool) {
	var out provider.AgentMap[AgentFields]
	if t == "" || len(available) == 0 {
		return out, false
	}
	d, ok := cat.DefaultFor(t)
	if !ok || d.Agents.Len() == 0 {
		return out, false
	}

	d.Agents.Each(func(key string, ac provider.AgentConfig) bool {
		if provider.IsMetadataKey(key) {
			return true
		}
		if ac.Model != "" && !hasModel(available, ac.Model) {
			ac.Model = available[0].Name
		}
		out.Set(key, AgentFieldsFromConfig(ac))
		return true
	})
	return out, true
}

func hasModel(models []provider.ModelOption, name string) bool {
	return slices.ContainsFunc(models, func(m provider.ModelOption) bool { return m.Name == name })
}
