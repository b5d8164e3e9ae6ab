// Package provider defines the provider-settings domain: provider
// configurations, per-role agent model setups kept in an ordered AgentMap,
// the catalog of defaults and models the backend serves, and test results.
// It also holds the small display helpers shared by every front-end.
package provider
