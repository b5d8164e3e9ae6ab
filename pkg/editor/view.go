package editor

import (
	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

// Form returns a copy of the current form.
func (s *Session) Form() providerform.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Clone()
}

// Route returns the current route, including query changes made by the
// session.
func (s *Session) Route() formsync.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// IsNew reports whether the session edits an unsaved provider.
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route.IsNew
}

// Catalog returns the last loaded catalog, or nil before Load.
func (s *Session) Catalog() *provider.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// State returns the orchestration state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading returns the in-flight flags.
func (s *Session) Loading() Loading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsLoading reports whether a save or delete is in flight.
func (s *Session) IsLoading() bool {
	return s.Loading().Saving()
}

// FieldErrors returns the per-field errors of the last rejected submit.
func (s *Session) FieldErrors() providerform.ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrs
}

// ErrorMessage returns the message to display, or "".
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// TestResults returns the results of the last successful test run while
// they have not been dismissed.
func (s *Session) TestResults() (provider.TestResults, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return provider.TestResults{}, false
	}
	return *s.results, true
}

// AgentTypes lists the agent roles the editor shows for the current form.
func (s *Session) AgentTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return providerform.ResolveAgentTypes(s.route.IsNew, provider.Type(s.form.Type), s.route.ProviderID, s.catalog)
}

// Models lists the models offered for the selected type.
func (s *Session) Models() []provider.ModelOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return providerform.AvailableModels(s.catalog, provider.Type(s.form.Type))
}

// Saved returns the stored record the session edits, if any.
func (s *Session) Saved() (provider.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.route.IsNew {
		return provider.Config{}, false
	}
	id, err := provider.ParseID(s.route.ProviderID)
	if err != nil {
		return provider.Config{}, false
	}
	return s.catalog.ProviderByID(id)
}

// CopiedFrom returns the provider the form was copied from while the copy
// still carries that provider's type.
func (s *Session) CopiedFrom() (provider.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.route.IsNew || !s.ctrl.CopySeeded() {
		return provider.Config{}, false
	}
	id, err := provider.ParseID(s.route.Query.Get("id"))
	if err != nil {
		return provider.Config{}, false
	}
	return s.catalog.ProviderByID(id)
}
