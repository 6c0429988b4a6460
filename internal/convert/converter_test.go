package convert

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"rknnc/internal/arrays"
	"rknnc/internal/config"
	"rknnc/internal/payload"
)

type call struct {
	op     string
	arg    string
	kwargs []string
}

// fakeToolkit records calls and answers with scripted codes per op.
type fakeToolkit struct {
	mu     sync.Mutex
	codes  map[string]int
	errs   map[string]error
	calls  []call
	active int
	maxPar int
	delay  time.Duration
}

func (f *fakeToolkit) record(op, arg string, kw payload.Payload) (int, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.maxPar {
		f.maxPar = f.active
	}
	c := call{op: op, arg: arg}
	if kw != nil {
		c.kwargs = payload.Keys(kw)
	}
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--
	return f.codes[op], f.errs[op]
}

func (f *fakeToolkit) Configure(_ context.Context, kw payload.Payload) (int, error) {
	return f.record("config", "", kw)
}

func (f *fakeToolkit) LoadONNX(_ context.Context, model string, kw payload.Payload) (int, error) {
	return f.record("load_onnx", model, kw)
}

func (f *fakeToolkit) Build(_ context.Context, kw payload.Payload) (int, error) {
	return f.record("build", "", kw)
}

func (f *fakeToolkit) Export(_ context.Context, path string) (int, error) {
	return f.record("export_rknn", path, nil)
}

func (f *fakeToolkit) Close() error { return nil }

func (f *fakeToolkit) ops() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

type stubLoader struct{ err error }

func (s stubLoader) LoadArrays(path string) (arrays.Artifact, error) {
	if s.err != nil {
		return nil, s.err
	}
	return arrays.Single{Array: arrays.Array{Path: path}}, nil
}

func ptr[T any](v T) *T { return &v }

func testConfig(t *testing.T) config.Configuration {
	t.Helper()
	cfg, err := config.New(
		config.GeneralSettings{TargetPlatform: ptr("rk3588")},
		config.OnnxLoad{Model: "models/net.onnx", Inputs: []string{"images"}, InputInitialValFile: ptr("init.npy")},
		config.BuildSettings{Dataset: ptr("data.txt")},
		config.ExportSettings{},
	)
	require.NoError(t, err)
	return cfg
}

func TestRunAllSteps(t *testing.T) {
	tk := &fakeToolkit{}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(tk, stubLoader{}, zerolog.Nop(), m)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, c.Run(context.Background(), testConfig(t)))
	require.Equal(t, StateDone, c.State())
	require.Equal(t, []string{"config", "load_onnx", "build", "export_rknn"}, tk.ops())

	require.Equal(t, "models/net.onnx", tk.calls[1].arg)
	require.Equal(t, []string{"inputs", "input_initial_val"}, tk.calls[1].kwargs, "model is positional")
	require.Contains(t, tk.calls[0].kwargs, "target_platform")
	require.Equal(t, []string{"do_quantization", "dataset", "auto_hybrid"}, tk.calls[2].kwargs)
	require.Equal(t, "models/net.rknn", tk.calls[3].arg)

	require.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("build", resultOK)))
	require.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastSuccess))
}

func TestRunExplicitExportPath(t *testing.T) {
	tk := &fakeToolkit{}
	cfg := testConfig(t)
	cfg.Export.ExportPath = ptr("out/custom.rknn")
	require.NoError(t, New(tk, stubLoader{}, zerolog.Nop(), nil).Run(context.Background(), cfg))
	require.Equal(t, "out/custom.rknn", tk.calls[3].arg)
}

func TestRunStopsAtFirstNonzeroCode(t *testing.T) {
	tk := &fakeToolkit{codes: map[string]int{"load_onnx": -1}}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(tk, stubLoader{}, zerolog.Nop(), m)

	err := c.Run(context.Background(), testConfig(t))
	require.Error(t, err)
	require.Equal(t, []string{"config", "load_onnx"}, tk.ops(), "build and export must not run")

	var se *StepError
	require.True(t, errors.As(err, &se))
	require.Equal(t, StateLoadModel, se.Step)
	require.Equal(t, -1, se.Code)
	require.Equal(t, "rknn.load_onnx failed with code -1", err.Error())
	require.Equal(t, StateLoadModel, FailedStep(err))
	require.Equal(t, StateLoadModel, c.State())

	require.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("load_onnx", resultFailed)))
	require.Equal(t, 0.0, testutil.ToFloat64(m.lastSuccess))
}

func TestRunTransportError(t *testing.T) {
	boom := errors.New("pipe closed")
	tk := &fakeToolkit{errs: map[string]error{"build": boom}}
	err := New(tk, stubLoader{}, zerolog.Nop(), nil).Run(context.Background(), testConfig(t))
	require.ErrorIs(t, err, boom)
	require.Equal(t, StateBuild, FailedStep(err))
	require.Equal(t, []string{"config", "load_onnx", "build"}, tk.ops())
}

func TestRunArrayResolutionFailure(t *testing.T) {
	tk := &fakeToolkit{}
	err := New(tk, stubLoader{err: fs.ErrNotExist}, zerolog.Nop(), nil).Run(context.Background(), testConfig(t))
	require.ErrorIs(t, err, fs.ErrNotExist)
	var re *payload.ResolveError
	require.True(t, errors.As(err, &re))
	require.Equal(t, StateLoadModel, FailedStep(err))
	require.Equal(t, []string{"config"}, tk.ops(), "load_onnx must not be called")
}

func TestRunsAreSerialized(t *testing.T) {
	tk := &fakeToolkit{delay: 5 * time.Millisecond}
	c := New(tk, stubLoader{}, zerolog.Nop(), nil)
	cfg := testConfig(t)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Run(context.Background(), cfg)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, tk.maxPar)
	require.Len(t, tk.calls, 12)
	for i := 0; i < 12; i += 4 {
		require.Equal(t, []string{"config", "load_onnx", "build", "export_rknn"}, opsOf(tk.calls[i:i+4]))
	}
}

func opsOf(cs []call) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.op
	}
	return out
}

func TestFailedStepOther(t *testing.T) {
	require.Equal(t, StateIdle, FailedStep(errors.New("x")))
	require.Equal(t, "load_model", StateLoadModel.String())
}
