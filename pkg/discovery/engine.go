package discovery

import (
	"log/slog"
	"slices"
	"time"

	"github.com/getmockd/perfstub/pkg/logging"
)

// Engine runs discovery against a Simulator and records the attempts in a
// ResultStore.
type Engine struct {
	configs *ConfigStore
	results *ResultStore
	sim     *Simulator
	samples map[string]any
	log     *slog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock overrides the time source used for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine. samples supplies a probe value for any field
// the caller's body does not provide.
func NewEngine(configs *ConfigStore, results *ResultStore, samples map[string]any, opts ...Option) *Engine {
	e := &Engine{
		configs: configs,
		results: results,
		sim:     NewSimulator(configs),
		samples: cloneBody(samples),
		log:     logging.Nop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configs returns the config store the engine reads.
func (e *Engine) Configs() *ConfigStore { return e.configs }

// Results returns the store the engine writes to.
func (e *Engine) Results() *ResultStore { return e.results }

// Simulator returns the backend oracle.
func (e *Engine) Simulator() *Simulator { return e.sim }

// Samples returns a copy of the sample value table.
func (e *Engine) Samples() map[string]any { return cloneBody(e.samples) }

// Discover runs all five phases for m using body as the source of probe
// values. It returns the shared Result of m, which later runs overwrite.
func (e *Engine) Discover(m Method, body map[string]any) (*Result, error) {
	cfg, err := e.configs.Lookup(m)
	if err != nil {
		return nil, err
	}
	res := e.results.Get(m)
	res.reset(StatusRunning)

	r := &run{engine: e, method: m, result: res, source: body}
	r.baseline(cfg)
	r.documentedOptional(cfg)
	discovered := r.probeUndocumented(cfg)
	if len(discovered) > 1 {
		r.confirmRequired(discovered)
	}
	r.probeOptional(cfg, discovered)

	res.complete(e.now())

	snap := res.Snapshot()
	e.log.Info("field discovery complete",
		"method", m,
		"tests", len(snap.TestSequence),
		"required", snap.DiscoveredUndocumentedRequired,
		"optional", snap.DiscoveredUndocumentedOptional,
	)
	return res, nil
}

// run carries the state of a single Discover call.
type run struct {
	engine *Engine
	method Method
	result *Result
	source map[string]any
	body   map[string]any
}

// value returns the caller's value for field, else the sample value.
func (r *run) value(field string) (any, bool) {
	if v, ok := r.source[field]; ok && !IsMissing(v) {
		return v, true
	}
	if v, ok := r.engine.samples[field]; ok && !IsMissing(v) {
		return v, true
	}
	return nil, false
}

func (r *run) attempt(phase int, desc string, body map[string]any) ValidationResult {
	res := r.engine.sim.Validate(r.method, body)
	r.result.record(Attempt{
		Phase:         phase,
		Description:   desc,
		RequestBody:   cloneBody(body),
		BackendResult: res,
		Timestamp:     r.engine.now(),
	})
	r.engine.log.Debug("discovery attempt",
		"method", r.method,
		"phase", phase,
		"description", desc,
		"success", res.Success,
	)
	return res
}

// with returns a copy of the running body plus field, when a value exists.
func (r *run) with(field string) map[string]any {
	b := cloneBody(r.body)
	if v, ok := r.value(field); ok {
		b[field] = v
	}
	return b
}

func (r *run) baseline(cfg FieldConfig) {
	r.body = make(map[string]any, len(cfg.DocumentedRequired))
	for _, f := range cfg.DocumentedRequired {
		if v, ok := r.value(f); ok {
			r.body[f] = v
		}
	}
	r.attempt(1, "Documented required fields only", r.body)
}

func (r *run) documentedOptional(cfg FieldConfig) {
	for _, f := range cfg.DocumentedOptional {
		v, ok := r.value(f)
		if !ok {
			continue
		}
		r.body[f] = v
		r.attempt(2, "Added documented optional field: "+f, r.body)
	}
}

func (r *run) probeUndocumented(cfg FieldConfig) []string {
	var discovered []string
	for _, f := range cfg.PotentialUndocumented {
		probe := r.with(f)
		res := r.attempt(3, "Testing undocumented field: "+f, probe)
		if res.Success && !slices.Contains(discovered, f) {
			discovered = append(discovered, f)
			r.result.addRequired(f)
			if v, ok := probe[f]; ok {
				r.body[f] = v
			}
			r.engine.log.Debug("discovered undocumented required field", "method", r.method, "field", f)
		}
	}
	return discovered
}

func (r *run) confirmRequired(discovered []string) {
	for _, f := range discovered {
		probe := cloneBody(r.body)
		delete(probe, f)
		res := r.attempt(4, "Testing without discovered field: "+f, probe)
		if !res.Success {
			r.engine.log.Debug("confirmed required field", "method", r.method, "field", f)
		}
	}
}

func (r *run) probeOptional(cfg FieldConfig, discovered []string) {
	for _, f := range cfg.PotentialUndocumented {
		if slices.Contains(discovered, f) {
			continue
		}
		res := r.attempt(5, "Testing potential optional undocumented field: "+f, r.with(f))
		if res.Success {
			r.result.addOptional(f)
			r.engine.log.Debug("discovered undocumented optional field", "method", r.method, "field", f)
		}
	}
}
