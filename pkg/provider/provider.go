package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type identifies the backend family a provider configuration talks to.
type Type string

const (
	TypeOpenAI    Type = "openai"
	TypeAnthropic Type = "anthropic"
	TypeGemini    Type = "gemini"
	TypeBedrock   Type = "bedrock"
	TypeOllama    Type = "ollama"
	TypeCustom    Type = "custom"
)

// KnownTypes returns the provider types the platform ships defaults for, in
// the order the backend lists them.
func KnownTypes() []Type {
	return []Type{TypeOpenAI, TypeAnthropic, TypeGemini, TypeBedrock, TypeOllama, TypeCustom}
}

// ReasoningEffort is a coarse knob for how much deliberation a reasoning
// model performs.
type ReasoningEffort string

const (
	EffortLow    ReasoningEffort = "low"
	EffortMedium ReasoningEffort = "medium"
	EffortHigh   ReasoningEffort = "high"
)

// ParseReasoningEffort maps a case-insensitive effort name to its enum value.
// Unknown or empty names return nil.
func ParseReasoningEffort(s string) *ReasoningEffort {
	var e ReasoningEffort
	switch strings.ToLower(s) {
	case "low":
		e = EffortLow
	case "medium":
		e = EffortMedium
	case "high":
		e = EffortHigh
	default:
		return nil
	}
	return &e
}

// Reasoning holds reasoning-model settings. Nil fields are unset.
type Reasoning struct {
	Effort    *ReasoningEffort `json:"effort" yaml:"effort,omitempty"`
	MaxTokens *int             `json:"maxTokens" yaml:"max_tokens,omitempty"`
}

// Price is the per-token cost of a model, input and output.
type Price struct {
	Input  float64 `json:"input" yaml:"input"`
	Output float64 `json:"output" yaml:"output"`
}

// AgentConfig is the model setup of one agent role. Nil pointers mean the
// parameter is unset and the backend default applies.
type AgentConfig struct {
	Model             string     `json:"model" yaml:"model"`
	Temperature       *float64   `json:"temperature" yaml:"temperature,omitempty"`
	MaxTokens         *int       `json:"maxTokens" yaml:"max_tokens,omitempty"`
	TopK              *int       `json:"topK" yaml:"top_k,omitempty"`
	TopP              *float64   `json:"topP" yaml:"top_p,omitempty"`
	MinLength         *int       `json:"minLength" yaml:"min_length,omitempty"`
	MaxLength         *int       `json:"maxLength" yaml:"max_length,omitempty"`
	RepetitionPenalty *float64   `json:"repetitionPenalty" yaml:"repetition_penalty,omitempty"`
	FrequencyPenalty  *float64   `json:"frequencyPenalty" yaml:"frequency_penalty,omitempty"`
	PresencePenalty   *float64   `json:"presencePenalty" yaml:"presence_penalty,omitempty"`
	Reasoning         *Reasoning `json:"reasoning" yaml:"reasoning,omitempty"`
	Price             *Price     `json:"price" yaml:"price,omitempty"`
}

// ID identifies a saved provider. GraphQL serializes IDs as strings; a bare
// number is accepted too.
type ID int64

// ParseID parses a decimal provider id.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("provider: invalid id %q", s)
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	if s == "" {
		*id = 0
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Config is a provider configuration as stored by the backend. ID is zero
// for a provider that has not been saved yet.
type Config struct {
	ID        ID                    `json:"id" yaml:"-"`
	Name      string                `json:"name" yaml:"name"`
	Type      Type                  `json:"type" yaml:"type"`
	Agents    AgentMap[AgentConfig] `json:"agents" yaml:"agents"`
	CreatedAt *time.Time            `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt *time.Time            `json:"updatedAt,omitempty" yaml:"-"`
}

// IsNew reports whether the configuration has not been persisted.
func (c Config) IsNew() bool { return c.ID == 0 }

// MutationInput is the payload of the create, update and test mutations.
type MutationInput struct {
	Name   string                `json:"name" yaml:"name"`
	Type   Type                  `json:"type" yaml:"type"`
	Agents AgentMap[AgentConfig] `json:"agents" yaml:"agents"`
}

// ModelOption is one entry of a provider type's model list.
type ModelOption struct {
	Name     string `json:"name"`
	Thinking bool   `json:"thinking"`
	Price    *Price `json:"price"`
}

// CanonicalRoles is the fixed list of agent roles the platform defines, used
// when neither a catalog default nor a saved provider says otherwise.
func CanonicalRoles() []string {
	return []string{
		"adviser",
		"agent",
		"assistant",
		"coder",
		"enricher",
		"generator",
		"installer",
		"pentester",
		"reflector",
		"refiner",
		"searcher",
		"simple",
		"simpleJson",
	}
}
