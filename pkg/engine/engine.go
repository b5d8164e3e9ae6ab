package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/providerctl/pkg/editor"
	"github.com/germanamz/providerctl/pkg/formsync"
	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/settingsapi"
)

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient replaces the HTTP client built from the config timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Engine) { e.httpClient = hc }
}

// WithLogger replaces the logger built from the config log settings.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// Engine is the composition root: it builds the API client and logger from
// configuration and opens editor sessions over them. Frontends interact with
// Engine and editor sessions and observe activity through the EventBus.
type Engine struct {
	cfg        Config
	events     *EventBus
	httpClient *http.Client
	log        *slog.Logger
	logFile    io.Closer
	client     *settingsapi.Client

	mu       sync.Mutex
	sessions map[string]*editor.Session
	nextID   int
}

// New creates an Engine from the given configuration.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		events:   NewEventBus(),
		sessions: make(map[string]*editor.Session),
	}
	for _, o := range opts {
		o(e)
	}

	if e.httpClient == nil {
		e.httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}

	if e.log == nil {
		log, closer, err := newLogger(cfg)
		if err != nil {
			return nil, err
		}
		e.log, e.logFile = log, closer
	}

	apiOpts := []settingsapi.Option{
		settingsapi.WithHTTPClient(e.httpClient),
		settingsapi.WithLogger(e.log),
		settingsapi.WithCatalogTTL(cfg.CatalogTTLDuration()),
		settingsapi.WithAuth(settingsapi.Auth{
			Token:  cfg.Token,
			Header: cfg.AuthHeader,
			Scheme: cfg.AuthScheme,
		}),
	}
	for k, v := range cfg.Headers {
		apiOpts = append(apiOpts, settingsapi.WithHeader(k, v))
	}
	e.client = settingsapi.New(cfg.Endpoint, apiOpts...)

	return e, nil
}

func newLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return nil, nil, fmt.Errorf("engine: open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.log }

// Providers returns the saved providers sorted by name.
func (e *Engine) Providers(ctx context.Context) ([]provider.Config, error) {
	cat, err := e.client.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: list providers: %w", err)
	}
	return provider.Sort(cat.UserDefined), nil
}

// OpenEditor creates an editor session at route and loads it. Navigation
// requested by the session is published as EventNavigate and then passed to
// nav, which may be nil.
func (e *Engine) OpenEditor(ctx context.Context, route formsync.Route, nav editor.Navigator) (string, *editor.Session, error) {
	e.mu.Lock()
	e.nextID++
	id := "editor-" + strconv.Itoa(e.nextID)
	e.mu.Unlock()

	navigate := editor.NavigatorFunc(func(to string) {
		e.publish(EventNavigate, id, to, nil)
		if nav != nil {
			nav.Navigate(to)
		}
	})

	sess := editor.New(e.client, navigate, route,
		editor.WithLogger(e.log.With("session", id)),
		editor.WithObserver(func(a editor.Activity) {
			switch {
			case !a.Done:
				e.publish(EventActionStart, id, a.Route, a.Action)
			case a.Err != nil:
				e.publish(EventError, id, a.Route, a.Err)
				e.publish(EventActionEnd, id, a.Route, a.Action)
			default:
				e.publish(EventActionEnd, id, a.Route, a.Action)
			}
		}),
	)

	e.mu.Lock()
	e.sessions[id] = sess
	e.mu.Unlock()
	e.publish(EventEditorOpened, id, route.String(), nil)

	if err := sess.Load(ctx); err != nil {
		e.CloseEditor(id)
		return "", nil, err
	}
	e.publish(EventCatalogLoaded, id, sess.Route().String(), sess.Catalog())

	return id, sess, nil
}

// CloseEditor closes and forgets the session id. Results of its in-flight
// calls are discarded.
func (e *Engine) CloseEditor(id string) {
	e.mu.Lock()
	s, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()

	if ok {
		s.Close()
		e.publish(EventEditorClosed, id, "", nil)
	}
}

// Close closes every open session and the log file.
func (e *Engine) Close() error {
	e.mu.Lock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.CloseEditor(id)
	}

	if e.logFile != nil {
		return e.logFile.Close()
	}
	return nil
}

func (e *Engine) publish(kind EventKind, sessionID, route string, data any) {
	e.events.Publish(Event{
		Kind:      kind,
		SessionID: sessionID,
		Route:     route,
		Timestamp: time.Now(),
		Data:      data,
	})
}
