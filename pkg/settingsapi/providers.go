package settingsapi

import (
	"context"
	"fmt"

	"github.com/germanamz/providerctl/pkg/provider"
)

const catalogKey = "settingsProviders"

// Catalog returns the provider catalog. A cached copy is returned while it
// is fresh; concurrent callers share one fetch. The returned value must not
// be modified. A new fetch always yields a new pointer, so callers can use
// pointer identity to notice a refreshed catalog.
func (c *Client) Catalog(ctx context.Context) (*provider.Catalog, error) {
	if cat, ok := c.cached(); ok {
		return cat, nil
	}

	v, err, _ := c.sf.Do(catalogKey, func() (any, error) {
		if cat, ok := c.cached(); ok {
			return cat, nil
		}

		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		var resp struct {
			SettingsProviders provider.Catalog `json:"settingsProviders"`
		}
		if err := c.exec(ctx, "settingsProviders", settingsProvidersQuery(), nil, &resp); err != nil {
			return nil, err
		}
		cat := &resp.SettingsProviders

		c.mu.Lock()
		if c.gen == gen {
			c.catalog = cat
			c.fetchedAt = c.now()
		}
		c.mu.Unlock()

		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*provider.Catalog), nil
}

func (c *Client) cached() (*provider.Catalog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catalog == nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.catalog, true
}

// InvalidateCatalog drops the cached catalog. A fetch already in flight is
// not stored.
func (c *Client) InvalidateCatalog() {
	c.mu.Lock()
	c.catalog = nil
	c.gen++
	c.mu.Unlock()
}

// Provider returns the saved provider with the given id.
func (c *Client) Provider(ctx context.Context, id provider.ID) (provider.Config, error) {
	cat, err := c.Catalog(ctx)
	if err != nil {
		return provider.Config{}, err
	}
	p, ok := cat.ProviderByID(id)
	if !ok {
		return provider.Config{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

func mutationVars(in provider.MutationInput) map[string]any {
	return map[string]any{
		"name":   in.Name,
		"type":   in.Type,
		"agents": in.Agents,
	}
}

// CreateProvider saves a new provider.
func (c *Client) CreateProvider(ctx context.Context, in provider.MutationInput) (provider.Config, error) {
	var resp struct {
		CreateProvider provider.Config `json:"createProvider"`
	}
	if err := c.exec(ctx, "createProvider", createProviderMutation(), mutationVars(in), &resp); err != nil {
		return provider.Config{}, err
	}
	c.InvalidateCatalog()
	return resp.CreateProvider, nil
}

// UpdateProvider replaces the saved provider id.
func (c *Client) UpdateProvider(ctx context.Context, id provider.ID, in provider.MutationInput) (provider.Config, error) {
	vars := mutationVars(in)
	vars["providerId"] = id

	var resp struct {
		UpdateProvider provider.Config `json:"updateProvider"`
	}
	if err := c.exec(ctx, "updateProvider", updateProviderMutation(), vars, &resp); err != nil {
		return provider.Config{}, err
	}
	c.InvalidateCatalog()
	return resp.UpdateProvider, nil
}

// DeleteProvider removes the saved provider id.
func (c *Client) DeleteProvider(ctx context.Context, id provider.ID) error {
	vars := map[string]any{"providerId": id}
	if err := c.exec(ctx, "deleteProvider", deleteProviderMutation, vars, nil); err != nil {
		return err
	}
	c.InvalidateCatalog()
	return nil
}

// TestProvider runs the backend's check suite against an unsaved
// configuration. Nothing is stored, so the catalog stays cached.
func (c *Client) TestProvider(ctx context.Context, in provider.MutationInput) (provider.TestResults, error) {
	vars := map[string]any{
		"type":   in.Type,
		"agents": in.Agents,
	}

	var resp struct {
		TestProvider provider.TestResults `json:"testProvider"`
	}
	if err := c.exec(ctx, "testProvider", testProviderMutation(), vars, &resp); err != nil {
		return provider.TestResults{}, err
	}
	return resp.TestProvider, nil
}
