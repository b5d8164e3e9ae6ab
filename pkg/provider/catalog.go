package provider

import (
	"encoding/json"
	"fmt"
)

// TypeDefault is the built-in configuration the backend keeps under one
// provider type key. Type is that key; Config.Type is whatever the payload
// carried and may differ.
type TypeDefault struct {
	Type   Type
	Config Config
}

// TypeModels is the model list the backend offers for one provider type.
type TypeModels struct {
	Type   Type
	Models []ModelOption
}

// Catalog is everything the settings page needs from the backend: the
// built-in default configuration per provider type, the user's saved
// providers, and the known models per type. Defaults and Models keep the
// backend's field order.
type Catalog struct {
	Defaults    []TypeDefault
	UserDefined []Config
	Models      []TypeModels
}

// DefaultFor returns the built-in configuration stored under the type key t.
func (c *Catalog) DefaultFor(t Type) (Config, bool) {
	if c == nil {
		return Config{}, false
	}
	for _, d := range c.Defaults {
		if d.Type == t {
			return d.Config, true
		}
	}
	return Config{}, false
}

// FirstDefaultWithAgents returns the first default configuration, in catalog
// order, that carries at least one agent.
func (c *Catalog) FirstDefaultWithAgents() (Config, bool) {
	if c == nil {
		return Config{}, false
	}
	for _, d := range c.Defaults {
		if d.Config.Agents.Len() > 0 {
			return d.Config, true
		}
	}
	return Config{}, false
}

// ProviderByID returns the saved provider with the given id.
func (c *Catalog) ProviderByID(id ID) (Config, bool) {
	if c == nil {
		return Config{}, false
	}
	for _, p := range c.UserDefined {
		if p.ID == id {
			return p, true
		}
	}
	return Config{}, false
}

// ModelsFor returns the raw model list for t, or nil.
func (c *Catalog) ModelsFor(t Type) []ModelOption {
	if c == nil {
		return nil
	}
	for _, tm := range c.Models {
		if tm.Type == t {
			return tm.Models
		}
	}
	return nil
}

// Types lists the provider types the backend knows models for, in catalog
// order. These are the choices offered for a provider's type.
func (c *Catalog) Types() []Type {
	if c == nil {
		return nil
	}
	out := make([]Type, 0, len(c.Models))
	for _, tm := range c.Models {
		out = append(out, tm.Type)
	}
	return out
}

type catalogJSON struct {
	Default     json.RawMessage `json:"default"`
	UserDefined []Config        `json:"userDefined"`
	Models      json.RawMessage `json:"models"`
}

// UnmarshalJSON decodes the settingsProviders payload. The default and models
// objects are keyed by provider type; their order is kept.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var raw catalogJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Catalog{UserDefined: raw.UserDefined}

	if len(raw.Default) > 0 {
		err := decodeObject(raw.Default, func(key string, v json.RawMessage) error {
			var cfg Config
			if err := json.Unmarshal(v, &cfg); err != nil {
				return fmt.Errorf("default %q: %w", key, err)
			}
			if cfg.Type == "" {
				cfg.Type = Type(key)
			}
			c.Defaults = append(c.Defaults, TypeDefault{Type: Type(key), Config: cfg})
			return nil
		})
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}

	if len(raw.Models) > 0 {
		err := decodeObject(raw.Models, func(key string, v json.RawMessage) error {
			var models []ModelOption
			if err := json.Unmarshal(v, &models); err != nil {
				return fmt.Errorf("models %q: %w", key, err)
			}
			c.Models = append(c.Models, TypeModels{Type: Type(key), Models: models})
			return nil
		})
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}

	return nil
}
