package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

// Backend is the provider settings API. Successful create, update and delete
// calls are expected to invalidate whatever catalog the backend caches.
type Backend interface {
	Catalog(ctx context.Context) (*provider.Catalog, error)
	CreateProvider(ctx context.Context, in provider.MutationInput) (provider.Config, error)
	UpdateProvider(ctx context.Context, id provider.ID, in provider.MutationInput) (provider.Config, error)
	DeleteProvider(ctx context.Context, id provider.ID) error
	TestProvider(ctx context.Context, in provider.MutationInput) (provider.TestResults, error)
}

// Navigator leaves the editor for another route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver registers fn to be told when actions start and finish. It is
// called without the session lock held.
func WithObserver(fn func(Activity)) Option {
	return func(s *Session) { s.observe = fn }
}

// Session is one open provider editor: the form, its synchronization with
// the route and catalog, and the submit, test and delete actions. Methods are
// safe for concurrent use. Backend calls run without the lock held, and each
// kind of action runs at most once at a time.
type Session struct {
	backend Backend
	nav     Navigator
	log     *slog.Logger
	observe func(Activity)

	mu        sync.Mutex
	route     formsync.Route
	ctrl      formsync.Controller
	catalog   *provider.Catalog
	form      providerform.Form
	state     State
	loading   Loading
	fieldErrs providerform.ValidationErrors
	errMsg    string
	results   *provider.TestResults
	closed    bool
}

// New opens an editor at route.
func New(backend Backend, nav Navigator, route formsync.Route, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		nav:     nav,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		route:   route,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load fetches the catalog and synchronizes the form with it. Calling it
// again picks up a refreshed catalog.
func (s *Session) Load(ctx context.Context) error {
	cat, err := s.backend.Catalog(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.errMsg = "Error loading providers: " + err.Error()
		s.state = StateError
		route := s.route.String()
		s.mu.Unlock()

		s.log.ErrorContext(ctx, "load catalog failed", "route", route, "error", err)
		return fmt.Errorf("editor: load: %w", err)
	}
	s.catalog = cat
	target := s.reconcile()
	s.mu.Unlock()

	s.navigate(target)
	return nil
}

// SetRoute moves the session to another editor route, for instance after
// the caller applied a query change or the user followed a link.
func (s *Session) SetRoute(r formsync.Route) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.route = r
	target := s.reconcile()
	s.mu.Unlock()

	s.navigate(target)
}

// Update applies a user edit to the form. A pending error is cleared and the
// form is resynchronized, so a changed type pulls in that type's defaults.
func (s *Session) Update(fn func(f *providerform.Form)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fn(&s.form)
	s.userAction()
	target := s.reconcile()
	s.mu.Unlock()

	s.navigate(target)
}

// SetType selects the provider type.
func (s *Session) SetType(t provider.Type) {
	s.Update(func(f *providerform.Form) { f.Type = string(t) })
}

// reconcile runs one sync step and returns a route to leave for, if any.
// Callers hold s.mu.
func (s *Session) reconcile() string {
	eff := s.ctrl.Reconcile(formsync.Inputs{Catalog: s.catalog, Route: s.route}, &s.form)
	if eff.Changed() {
		s.log.Debug("form synchronized",
			"route", s.route.String(),
			"reset", eff.Reset,
			"agents_filled", eff.AgentsFilled,
			"query", eff.Query.Encode(),
			"navigate", eff.Navigate)
	}
	if eff.Query != nil {
		s.route = s.route.WithQuery(eff.Query)
	}
	if eff.Reset {
		s.fieldErrs = nil
	}
	return eff.Navigate
}

// userAction drops a displayed error on the next interaction. Callers hold
// s.mu.
func (s *Session) userAction() {
	if s.state == StateError {
		s.state = StateIdle
		s.errMsg = ""
	}
}

func (s *Session) navigate(route string) {
	if route != "" && s.nav != nil {
		s.nav.Navigate(route)
	}
}

func (s *Session) notify(a Activity) {
	if s.observe != nil {
		s.observe(a)
	}
}

// Submit validates the form and saves it: create on the new route, update
// on an edit route. Validation failures are recorded per field and returned
// as providerform.ValidationErrors without contacting the backend. On success
// the session navigates to the provider listing.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.loading.Saving() {
		s.mu.Unlock()
		return ErrBusy
	}
	s.userAction()

	s.state = StateValidating
	if errs := providerform.Validate(s.form); errs != nil {
		s.fieldErrs = errs
		s.state = StateIdle
		s.mu.Unlock()
		return errs
	}
	s.fieldErrs = nil

	in := providerform.ToMutationInput(s.form)
	isNew := s.route.IsNew
	idText := s.route.ProviderID
	route := s.route.String()
	if isNew {
		s.loading.Create = true
	} else {
		s.loading.Update = true
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	s.notify(Activity{Action: ActionSubmit, Route: route})

	var err error
	if isNew {
		_, err = s.backend.CreateProvider(ctx, in)
	} else {
		var id provider.ID
		if id, err = provider.ParseID(idText); err == nil {
			_, err = s.backend.UpdateProvider(ctx, id, in)
		}
	}

	s.mu.Lock()
	s.loading.Create, s.loading.Update = false, false
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.errMsg = err.Error()
		s.state = StateError
		s.mu.Unlock()

		s.log.ErrorContext(ctx, "submit failed", "route", route, "error", err)
		s.notify(Activity{Action: ActionSubmit, Route: route, Done: true, Err: err})
		return fmt.Errorf("editor: submit: %w", err)
	}
	s.state = StateIdle
	s.mu.Unlock()

	s.log.InfoContext(ctx, "provider saved", "route", route, "name", in.Name)
	s.notify(Activity{Action: ActionSubmit, Route: route, Done: true})
	s.navigate(formsync.ListRoute)
	return nil
}

// Test validates the form and runs the backend checks against it without
// saving. A validation failure becomes the session error, listing every
// field, and no request is made. On success the results are kept for
// display until DismissTestResults.
func (s *Session) Test(ctx context.Context) (provider.TestResults, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return provider.TestResults{}, ErrClosed
	}
	if s.loading.Test {
		s.mu.Unlock()
		return provider.TestResults{}, ErrBusy
	}
	s.userAction()

	s.state = StateValidating
	if errs := providerform.Validate(s.form); errs != nil {
		s.errMsg = providerform.FormatValidationErrors(errs)
		s.state = StateError
		s.mu.Unlock()
		return provider.TestResults{}, errs
	}

	in := providerform.ToMutationInput(s.form)
	route := s.route.String()
	s.loading.Test = true
	s.state = StateTesting
	s.results = nil
	s.mu.Unlock()

	s.notify(Activity{Action: ActionTest, Route: route})

	res, err := s.backend.TestProvider(ctx, in)

	s.mu.Lock()
	s.loading.Test = false
	if s.closed {
		s.mu.Unlock()
		return provider.TestResults{}, ErrClosed
	}
	if err != nil {
		s.errMsg = err.Error()
		s.state = StateError
		s.mu.Unlock()

		s.log.ErrorContext(ctx, "test failed", "route", route, "error", err)
		s.notify(Activity{Action: ActionTest, Route: route, Done: true, Err: err})
		return provider.TestResults{}, fmt.Errorf("editor: test: %w", err)
	}
	s.results = &res
	s.state = StateIdle
	s.mu.Unlock()

	s.notify(Activity{Action: ActionTest, Route: route, Done: true})
	return res, nil
}

// Delete removes the saved provider and navigates to the listing. It does
// nothing on the new route.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.route.IsNew || s.route.ProviderID == "" {
		s.mu.Unlock()
		return nil
	}
	if s.loading.Saving() {
		s.mu.Unlock()
		return ErrBusy
	}
	s.userAction()

	idText := s.route.ProviderID
	route := s.route.String()
	s.loading.Delete = true
	s.state = StateDeleting
	s.mu.Unlock()

	s.notify(Activity{Action: ActionDelete, Route: route})

	id, err := provider.ParseID(idText)
	if err == nil {
		err = s.backend.DeleteProvider(ctx, id)
	}

	s.mu.Lock()
	s.loading.Delete = false
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.errMsg = err.Error()
		s.state = StateError
		s.mu.Unlock()

		s.log.ErrorContext(ctx, "delete failed", "route", route, "error", err)
		s.notify(Activity{Action: ActionDelete, Route: route, Done: true, Err: err})
		return fmt.Errorf("editor: delete: %w", err)
	}
	s.state = StateIdle
	s.mu.Unlock()

	s.log.InfoContext(ctx, "provider deleted", "route", route)
	s.notify(Activity{Action: ActionDelete, Route: route, Done: true})
	s.navigate(formsync.ListRoute)
	return nil
}

// Close detaches the session. Calls still in flight finish without touching
// state or navigating.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// DismissTestResults closes the results view.
func (s *Session) DismissTestResults() {
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()
}
