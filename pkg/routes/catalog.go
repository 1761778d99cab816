package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/perfstub/pkg/config"
	"github.com/getmockd/perfstub/pkg/discovery"
	"github.com/getmockd/perfstub/pkg/httputil"
	"github.com/getmockd/perfstub/pkg/logging"
	"github.com/getmockd/perfstub/pkg/openapi"
	"github.com/getmockd/perfstub/pkg/stateful"
)

// Catalog serves the CRUD, discovery inspection and feature routes of one
// discovery-enabled store.
type Catalog struct {
	cfg        config.CatalogConfig
	label      string
	engine     *discovery.Engine
	coll       *stateful.Collection
	log        *slog.Logger
	maxBody    int64
	orderDelay time.Duration
	wrap       func(http.Handler) http.Handler
}

// CatalogOptions are the shared settings of every catalog.
type CatalogOptions struct {
	Logger *slog.Logger
	// MaxBodyBytes caps JSON request bodies. <= 0 disables the limit.
	MaxBodyBytes int64
	// OrderMaxDelay bounds the random delay of the order route.
	OrderMaxDelay time.Duration
	// Wrap, when set, wraps every catalog handler (e.g. basic auth).
	Wrap func(http.Handler) http.Handler
	// Clock overrides the discovery timestamp source.
	Clock func() time.Time
}

// NewCatalog builds a catalog around coll from its config.
func NewCatalog(cc config.CatalogConfig, coll *stateful.Collection, opts CatalogOptions) (*Catalog, error) {
	profile, err := cc.Profile()
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cc.Name, err)
	}
	configs, err := discovery.NewConfigStore(profile.Configs)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cc.Name, err)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("catalog", cc.Name)

	engineOpts := []discovery.Option{discovery.WithLogger(log)}
	if opts.Clock != nil {
		engineOpts = append(engineOpts, discovery.WithClock(opts.Clock))
	}

	return &Catalog{
		cfg:        cc,
		label:      cc.DisplayLabel(),
		engine:     discovery.NewEngine(configs, discovery.NewResultStore(), profile.Samples, engineOpts...),
		coll:       coll,
		log:        log,
		maxBody:    opts.MaxBodyBytes,
		orderDelay: opts.OrderMaxDelay,
		wrap:       opts.Wrap,
	}, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.cfg.Name }

// BasePath returns the mount point.
func (c *Catalog) BasePath() string { return c.cfg.BasePath }

// Engine returns the discovery engine of the catalog.
func (c *Catalog) Engine() *discovery.Engine { return c.engine }

// Collection returns the record collection.
func (c *Catalog) Collection() *stateful.Collection { return c.coll }

// OpenAPI returns the public view of the catalog's live configuration.
func (c *Catalog) OpenAPI() openapi.Catalog {
	configs := c.engine.Configs()
	return openapi.Catalog{
		Name:     c.cfg.Name,
		BasePath: c.cfg.BasePath,
		Label:    c.label,
		Features: c.cfg.Features,
		Post:     configs.Get(discovery.MethodPOST),
		Put:      configs.Get(discovery.MethodPUT),
		Samples:  c.engine.Samples(),
	}
}

// Register mounts the catalog routes on mux.
func (c *Catalog) Register(mux *http.ServeMux) {
	base := c.cfg.BasePath
	handle := func(pattern string, h http.HandlerFunc) {
		var handler http.Handler = h
		if c.wrap != nil {
			handler = c.wrap(handler)
		}
		mux.Handle(pattern, handler)
	}

	for _, root := range []string{base, base + "/{$}"} {
		handle("GET "+root, c.handleList)
		handle("POST "+root, c.handleCreate)
	}
	handle("GET "+base+"/{id}", c.handleGet)
	handle("PUT "+base+"/{id}", c.handleReplace)
	handle("PATCH "+base+"/{id}", c.handlePatch)
	handle("DELETE "+base+"/{id}", c.handleDelete)

	handle("GET "+base+"/test/field-discovery", c.handleDiscoveryResults)
	handle("GET "+base+"/test/field-discovery/config", c.handleGetConfig)
	handle("PUT "+base+"/test/field-discovery/config", c.handleUpdateConfig)
	handle("GET "+base+"/test/field-discovery/{method}", c.handleMethodResults)
	handle("POST "+base+"/test/field-discovery/reset", c.handleReset)
	handle("POST "+base+"/test/field-discovery/run", c.handleRun)
	handle("POST "+base+"/test/simulate-backend", c.handleSimulate)

	if c.cfg.HasFeature(config.FeatureOrder) {
		handle("POST "+base+"/order", c.handleOrder)
	}
	if c.cfg.HasFeature(config.FeatureInventory) {
		handle("GET "+base+"/findByStatus", c.handleFindByStatus)
		handle("GET "+base+"/inventory", c.handleInventory)
	}

	c.log.Debug("catalog registered", "basePath", base, "features", c.cfg.Features)
}

// msg prefixes a response message with the catalog label.
func (c *Catalog) msg(s string) string {
	return c.label + ": " + s
}

// decode reads a JSON object body, writing a 400 and returning false on
// failure.
func (c *Catalog) decode(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, err := httputil.DecodeObject(w, r, c.maxBody)
	if err != nil {
		writeDecodeError(w, err)
		return nil, false
	}
	return body, true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
		return
	}
	httputil.WriteBadRequest(w, discovery.KindInvalidJSON, "Request body must be a valid JSON object")
}

func writeInvalidMethod(w http.ResponseWriter, message string, available []string) {
	httputil.WriteErrorWithDetails(w, http.StatusBadRequest, discovery.KindInvalidMethod, message, map[string]any{
		"availableMethods": available,
	})
}

func methodKeys() []string {
	out := make([]string, len(discovery.Methods))
	for i, m := range discovery.Methods {
		out[i] = m.Key()
	}
	return out
}

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}
