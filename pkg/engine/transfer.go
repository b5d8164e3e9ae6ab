package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

// ErrProviderExists is returned by Import when a saved provider already has
// the document's name and type.
var ErrProviderExists = errors.New("engine: provider already exists")

// MarshalProvider renders a provider as a portable YAML document. The id and
// timestamps are left out so the document can be imported anywhere.
func MarshalProvider(c provider.Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("engine: marshal provider: %w", err)
	}
	return data, nil
}

// UnmarshalProvider parses a document written by MarshalProvider and checks
// it the same way the editor checks a form before saving.
func UnmarshalProvider(data []byte) (provider.MutationInput, error) {
	var c provider.Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return provider.MutationInput{}, fmt.Errorf("engine: parse provider: %w", err)
	}

	if c.Type != "" && !slices.Contains(provider.KnownTypes(), c.Type) {
		return provider.MutationInput{}, fmt.Errorf("engine: parse provider: unknown type %q", c.Type)
	}

	form := providerform.FromConfig(c)
	if errs := providerform.Validate(form); errs != nil {
		return provider.MutationInput{}, fmt.Errorf("engine: parse provider: %w", errs)
	}

	return providerform.ToMutationInput(form), nil
}

// Export returns the saved provider id as a YAML document.
func (e *Engine) Export(ctx context.Context, id provider.ID) ([]byte, error) {
	c, err := e.client.Provider(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("engine: export: %w", err)
	}
	return MarshalProvider(c)
}

// Import saves the provider described by a YAML document as a new provider.
// A saved provider with the same name and type makes it fail with
// ErrProviderExists.
func (e *Engine) Import(ctx context.Context, data []byte) (provider.Config, error) {
	in, err := UnmarshalProvider(data)
	if err != nil {
		return provider.Config{}, err
	}

	cat, err := e.client.Catalog(ctx)
	if err != nil {
		return provider.Config{}, fmt.Errorf("engine: import: %w", err)
	}
	if existing, ok := provider.Find(provider.Config{Name: in.Name, Type: in.Type}, cat.UserDefined); ok {
		return provider.Config{}, fmt.Errorf("%w: %q is saved as id %s", ErrProviderExists, provider.Tooltip(existing), existing.ID)
	}

	c, err := e.client.CreateProvider(ctx, in)
	if err != nil {
		return provider.Config{}, fmt.Errorf("engine: import: %w", err)
	}

	e.log.InfoContext(ctx, "provider imported", "id", c.ID, "name", c.Name)
	return c, nil
}
