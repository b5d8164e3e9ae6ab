// Package engine is the composition root that assembles the providerctl
// components from configuration and exposes them through a frontend-agnostic
// API. Frontends open editor sessions through Engine, observe activity on an
// EventBus, and never build API clients or loggers themselves.
package engine
