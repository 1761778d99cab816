package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/perfstub/pkg/auth"
	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/httputil"
	"github.com/getmockd/perfstub/pkg/logging"
	"github.com/getmockd/perfstub/pkg/openapi"
	"github.com/getmockd/perfstub/pkg/stateful"
)

// reservedPaths are owned by the fixture routes and cannot host a catalog.
var reservedPaths = []string{
	"/api/users", "/api/products", "/api/tasks", "/api/orders",
	"/api/patient", "/api/remediation", "/api/test", "/api/file",
	"/api/test-token", "/api/auth", "/api/state",
}

// Router owns the mux and the state behind every route.
type Router struct {
	mux      *http.ServeMux
	log      *slog.Logger
	state    *stateful.StateStore
	catalogs []*Catalog
	users    *auth.CredentialStore
	tokens   *auth.TokenIssuer
	perf     config.PerfConfig
	maxBody  int64
}

// Option configures a Router.
type Option func(*options)

type options struct {
	logger *slog.Logger
	clock  func() time.Time
	users  *auth.CredentialStore
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides the discovery timestamp source of every catalog.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithCredentialStore replaces the store loaded from auth.usersFile.
func WithCredentialStore(s *auth.CredentialStore) Option {
	return func(o *options) { o.users = s }
}

// New builds every route described by cfg.
func New(cfg *config.Config, opts ...Option) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("routes: nil config")
	}
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}

	users := o.users
	if users == nil {
		var err error
		if users, err = auth.LoadCredentialStore(cfg.Auth.UsersFile); err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
	}
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	rt := &Router{
		mux:     http.NewServeMux(),
		log:     o.logger,
		state:   stateful.NewStateStore(),
		users:   users,
		tokens:  tokens,
		perf:    cfg.Perf,
		maxBody: cfg.Perf.MaxUploadBytes,
	}

	catOpts := CatalogOptions{
		Logger:        o.logger,
		MaxBodyBytes:  cfg.Perf.MaxUploadBytes,
		OrderMaxDelay: time.Duration(cfg.Perf.OrderMaxDelayMs) * time.Millisecond,
		Clock:         o.clock,
	}
	if cfg.Auth.ProtectCatalogs {
		catOpts.Wrap = auth.BasicAuth(users)
	}
	for _, cc := range cfg.Catalogs {
		if isReserved(cc.BasePath) {
			return nil, fmt.Errorf("catalog %s: base path %s is reserved", cc.Name, cc.BasePath)
		}
		coll, err := rt.state.Register(cc.Name, cc.Seed...)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cc.Name, err)
		}
		cat, err := NewCatalog(cc, coll, catOpts)
		if err != nil {
			return nil, err
		}
		rt.catalogs = append(rt.catalogs, cat)
	}

	if err := rt.register(); err != nil {
		return nil, err
	}
	return rt, nil
}

func isReserved(basePath string) bool {
	for _, p := range reservedPaths {
		if basePath == p || strings.HasPrefix(basePath, p+"/") {
			return true
		}
	}
	return false
}

// register mounts every route. ServeMux panics on conflicting patterns,
// which only a catalog layout can cause, so the panic becomes an error.
func (rt *Router) register() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("register routes: %v", p)
		}
	}()

	rt.mux.HandleFunc("GET /health", rt.handleHealth)
	rt.mux.HandleFunc("GET /openapi.json", openapi.JSONHandler(rt.OpenAPI))
	rt.mux.HandleFunc("GET /openapi.yaml", openapi.YAMLHandler(rt.OpenAPI))
	rt.mux.HandleFunc("GET /api/state", rt.handleStateOverview)
	rt.mux.HandleFunc("POST /api/state/reset", rt.handleStateReset)

	for _, c := range rt.catalogs {
		c.Register(rt.mux)
	}
	rt.registerFixtures()
	rt.registerPatient()
	rt.registerRemediation()
	rt.registerPerf()
	rt.registerAuth()
	rt.mux.HandleFunc("POST /api/file/pdf/upload", rt.handleUpload)

	rt.mux.HandleFunc("/api/", rt.handleNotFound)
	return nil
}

func (rt *Router) registerAuth() {
	basic := auth.BasicAuth(rt.users)
	rt.mux.Handle("POST /api/auth/login", auth.LoginHandler(rt.users))
	rt.mux.Handle("GET /api/auth/profile", basic(http.HandlerFunc(auth.ProfileHandler)))
	rt.mux.Handle("GET /api/auth/admin", basic(auth.RequireRole("admin")(http.HandlerFunc(auth.AdminHandler))))
	rt.mux.Handle("POST /api/test-token/token", auth.TokenHandler(rt.tokens))
}

// Handler returns the root handler.
func (rt *Router) Handler() http.Handler { return rt.mux }

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

// Catalogs returns the mounted catalogs in config order.
func (rt *Router) Catalogs() []*Catalog { return rt.catalogs }

// Catalog returns the catalog named name.
func (rt *Router) Catalog(name string) (*Catalog, bool) {
	for _, c := range rt.catalogs {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// State returns the collection registry.
func (rt *Router) State() *stateful.StateStore { return rt.state }

// OpenAPI builds the document from the live catalog configuration.
func (rt *Router) OpenAPI() *openapi3.T {
	views := make([]openapi.Catalog, len(rt.catalogs))
	for i, c := range rt.catalogs {
		views[i] = c.OpenAPI()
	}
	return openapi.Build(views)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	names := make([]string, len(rt.catalogs))
	for i, c := range rt.catalogs {
		names[i] = c.Name()
	}
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"catalogs": names,
	})
}

func (rt *Router) handleStateOverview(w http.ResponseWriter, r *http.Request) {
	ov := rt.state.Overview()
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"collections": ov.Collections,
		"counts":      ov.Counts,
		"totalItems":  ov.TotalItems,
	})
}

// handleStateReset restores seed records of one collection, or of all of
// them when ?collection= is absent.
func (rt *Router) handleStateReset(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("collection")
	resp, err := rt.state.Reset(name)
	if err != nil {
		e := stateful.ToErrorResponse(err)
		httputil.WriteErrorWithDetails(w, e.StatusCode, e.Error, e.Message, map[string]any{
			"resource": e.Resource,
			"hint":     e.Hint,
		})
		return
	}
	rt.log.Info("state reset", "collections", resp.Resources)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"reset":     resp.Reset,
		"resources": resp.Resources,
		"message":   resp.Message,
	})
}

func (rt *Router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.Envelope(w, http.StatusNotFound, map[string]any{
		"status":  "fail",
		"message": "API endpoint not found",
	})
}
