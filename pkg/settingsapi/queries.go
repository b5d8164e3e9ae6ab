package settingsapi

import (
	"strings"

	"github.com/germanamz/providerctl/pkg/provider"
)

const agentConfigFragment = `fragment agentConfigFragment on AgentConfig {
  model
  maxTokens
  temperature
  topK
  topP
  minLength
  maxLength
  repetitionPenalty
  frequencyPenalty
  presencePenalty
  reasoning { effort maxTokens }
  price { input output }
}`

const testResultFragment = `fragment testResultFragment on TestResult {
  name
  type
  result
  reasoning
  streaming
  latency
  error
}`

// selection renders "{ k1 body k2 body ... }" over keys.
func selection(keys []string, body string) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, k := range keys {
		b.WriteString("    ")
		b.WriteString(k)
		b.WriteString(" ")
		b.WriteString(body)
		b.WriteString("\n")
	}
	b.WriteString("  }")
	return b.String()
}

func typeKeys() []string {
	types := provider.KnownTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func providerConfigFragment() string {
	return `fragment providerConfigFragment on ProviderConfig {
  id
  name
  type
  agents ` + selection(provider.CanonicalRoles(), "{ ...agentConfigFragment }") + `
  createdAt
  updatedAt
}`
}

func settingsProvidersQuery() string {
	return `query settingsProviders {
  settingsProviders {
    default ` + selection(typeKeys(), "{ ...providerConfigFragment }") + `
    userDefined { ...providerConfigFragment }
    models ` + selection(typeKeys(), "{ name thinking price { input output } }") + `
  }
}
` + providerConfigFragment() + "\n" + agentConfigFragment
}

func createProviderMutation() string {
	return `mutation createProvider($name: String!, $type: ProviderType!, $agents: AgentsConfigInput!) {
  createProvider(name: $name, type: $type, agents: $agents) { ...providerConfigFragment }
}
` + providerConfigFragment() + "\n" + agentConfigFragment
}

func updateProviderMutation() string {
	return `mutation updateProvider($providerId: ID!, $name: String!, $type: ProviderType!, $agents: AgentsConfigInput!) {
  updateProvider(providerId: $providerId, name: $name, type: $type, agents: $agents) { ...providerConfigFragment }
}
` + providerConfigFragment() + "\n" + agentConfigFragment
}

const deleteProviderMutation = `mutation deleteProvider($providerId: ID!) {
  deleteProvider(providerId: $providerId)
}`

func testProviderMutation() string {
	return `mutation testProvider($type: ProviderType!, $agents: AgentsConfigInput!) {
  testProvider(type: $type, agents: $agents) ` + selection(provider.CanonicalRoles(), "{ tests { ...testResultFragment } }") + `
}
` + testResultFragment
}
