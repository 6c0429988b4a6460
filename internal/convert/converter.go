// Package convert runs a conversion: configure, load the model, build and
// export, in that order, stopping at the first failing step.
package convert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rknnc/internal/config"
	"rknnc/internal/payload"
	"rknnc/internal/toolkit"
	"rknnc/pkg/types"
)

// Converter owns one toolkit handle. Runs on the same Converter are
// serialized; use separate toolkits for parallel conversions.
type Converter struct {
	mu      sync.Mutex
	tk      toolkit.Toolkit
	loader  payload.ArrayLoader
	log     zerolog.Logger
	metrics *Metrics
	state   State
	now     func() time.Time
}

// New returns a Converter. metrics may be nil.
func New(tk toolkit.Toolkit, loader payload.ArrayLoader, log zerolog.Logger, metrics *Metrics) *Converter {
	return &Converter{tk: tk, loader: loader, log: log, metrics: metrics, now: time.Now}
}

// State returns the step the last run reached; after a failure it is the
// failing step.
func (c *Converter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run executes all four steps against cfg. Nothing is rolled back on
// failure; the toolkit's state after a failed step is unspecified.
func (c *Converter) Run(ctx context.Context, cfg config.Configuration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	steps := []struct {
		state State
		run   func(context.Context, config.Configuration) error
	}{
		{StateConfigure, c.configure},
		{StateLoadModel, c.loadModel},
		{StateBuild, c.build},
		{StateExport, c.export},
	}
	for _, s := range steps {
		c.state = s.state
		c.log.Info().Str("step", s.state.String()).Msg("conversion step")
		if err := s.run(ctx, cfg); err != nil {
			c.log.Error().Err(err).Str("step", s.state.String()).Msg("conversion failed")
			return err
		}
	}
	c.state = StateDone
	c.metrics.succeeded(c.now())
	c.log.Info().Str("export_path", exportPath(cfg)).Msg("conversion done")
	return nil
}

func (c *Converter) configure(ctx context.Context, cfg config.Configuration) error {
	kw, err := payload.Section(cfg.Config, c.loader)
	if err != nil {
		return &StepError{Step: StateConfigure, Op: types.OpConfig, Err: err}
	}
	return c.invoke(StateConfigure, types.OpConfig, func() (int, error) {
		return c.tk.Configure(ctx, kw)
	})
}

// loadModel dispatches on the load variant. Every variant of config.Load
// needs a case here.
func (c *Converter) loadModel(ctx context.Context, cfg config.Configuration) error {
	switch l := cfg.Load.(type) {
	case config.OnnxLoad:
		kw, err := payload.Section(l, c.loader)
		if err != nil {
			return &StepError{Step: StateLoadModel, Op: types.OpLoadONNX, Err: err}
		}
		return c.invoke(StateLoadModel, types.OpLoadONNX, func() (int, error) {
			return c.tk.LoadONNX(ctx, l.Model, payload.Without(kw, "model"))
		})
	default:
		return &StepError{Step: StateLoadModel, Op: "load", Err: fmt.Errorf("unsupported load section %T", cfg.Load)}
	}
}

func (c *Converter) build(ctx context.Context, cfg config.Configuration) error {
	kw, err := payload.Section(cfg.Build, c.loader)
	if err != nil {
		return &StepError{Step: StateBuild, Op: types.OpBuild, Err: err}
	}
	return c.invoke(StateBuild, types.OpBuild, func() (int, error) {
		return c.tk.Build(ctx, kw)
	})
}

func (c *Converter) export(ctx context.Context, cfg config.Configuration) error {
	path := exportPath(cfg)
	return c.invoke(StateExport, types.OpExport, func() (int, error) {
		return c.tk.Export(ctx, path)
	})
}

// invoke times one toolkit call and turns a nonzero status into a StepError.
func (c *Converter) invoke(step State, op string, call func() (int, error)) error {
	start := c.now()
	code, err := call()
	dur := c.now().Sub(start)
	c.metrics.observeCall(op, code, err, dur)
	c.log.Debug().Str("op", op).Int("code", code).Dur("took", dur).Msg("toolkit call returned")
	if err != nil {
		return &StepError{Step: step, Op: op, Err: err}
	}
	if code != toolkit.StatusOK {
		return &StepError{Step: step, Op: op, Code: code}
	}
	return nil
}

func exportPath(cfg config.Configuration) string {
	return cfg.Export.Destination(config.ModelPath(cfg.Load))
}
