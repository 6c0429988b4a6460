package payload

import (
	"encoding/json"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"rknnc/internal/arrays"
	"rknnc/internal/config"
)

type fakeLoader struct {
	art   arrays.Artifact
	err   error
	calls []string
}

func (f *fakeLoader) LoadArrays(path string) (arrays.Artifact, error) {
	f.calls = append(f.calls, path)
	return f.art, f.err
}

func ptr[T any](v T) *T { return &v }

func TestZeroSectionsMarshalEmpty(t *testing.T) {
	sections := []config.Section{config.GeneralSettings{}, config.OnnxLoad{}, config.BuildSettings{}, config.ExportSettings{}}
	for _, s := range sections {
		p, err := Section(s, nil)
		require.NoError(t, err, s.SectionName())
		require.Zero(t, p.Len(), "%s produced keys %v", s.SectionName(), Keys(p))
	}
}

func TestSettingOneFieldAddsOneKey(t *testing.T) {
	cases := []struct {
		name string
		s    config.Section
		key  string
		want any
	}{
		{"dtype", config.GeneralSettings{QuantizedDtype: ptr("w8a16")}, "quantized_dtype", "w8a16"},
		{"level", config.GeneralSettings{OptimizationLevel: ptr(0)}, "optimization_level", 0},
		{"false flag", config.GeneralSettings{RemoveWeight: ptr(false)}, "remove_weight", false},
		{"mean", config.GeneralSettings{MeanValues: []float32{0, 0.5}}, "mean_values", []float32{0, 0.5}},
		{"op_target", config.GeneralSettings{OpTarget: map[string]string{"Conv": "cpu", "Add": "npu"}}, "op_target", map[string]string{"Add": "npu", "Conv": "cpu"}},
		{"dynamic", config.GeneralSettings{DynamicInput: [][][]int{{{1, 3}}, {{2, 3}, {4}}}}, "dynamic_input", [][][]int{{{1, 3}}, {{2, 3}, {4}}}},
		{"thresh", config.GeneralSettings{AutoHybridCosThresh: ptr(float32(0.98))}, "auto_hybrid_cos_thresh", float32(0.98)},
		{"model", config.OnnxLoad{Model: "m.onnx"}, "model", "m.onnx"},
		{"shapes", config.OnnxLoad{InputSizeList: [][]int{{1, 3, 224, 224}}}, "input_size_list", [][]int{{1, 3, 224, 224}}},
		{"dataset", config.BuildSettings{Dataset: ptr("d.txt")}, "dataset", "d.txt"},
		{"batch", config.BuildSettings{RknnBatchSize: ptr(8)}, "rknn_batch_size", 8},
		{"export", config.ExportSettings{ExportPath: ptr("o.rknn")}, "export_path", "o.rknn"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Section(tc.s, nil)
			require.NoError(t, err)
			require.Equal(t, []string{tc.key}, Keys(p))
			got, _ := p.Get(tc.key)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestMarshalKeepsDeclaredOrder(t *testing.T) {
	g := config.GeneralSettings{
		TargetPlatform: ptr("rk3588"),
		MeanValues:     []float32{1},
		FloatDtype:     ptr("float16"),
	}
	p, err := Section(g, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"mean_values", "target_platform", "float_dtype"}, Keys(p))

	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.Equal(t, `{"mean_values":[1],"target_platform":"rk3588","float_dtype":"float16"}`, string(b))
}

func TestArrayFileNormalization(t *testing.T) {
	single := &fakeLoader{art: arrays.Single{Array: arrays.Array{Path: "x.npy"}}}
	p, err := Section(config.OnnxLoad{Model: "m.onnx", InputInitialValFile: ptr("x.npy")}, single)
	require.NoError(t, err)
	require.Equal(t, []string{"model", "input_initial_val"}, Keys(p))
	v, _ := p.Get("input_initial_val")
	require.Equal(t, []any{arrays.Array{Path: "x.npy"}}, v)
	require.Equal(t, []string{"x.npy"}, single.calls)
}

func TestArrayFileArchiveOrder(t *testing.T) {
	art, err := arrays.FileLoader{}.LoadArrays(writeNpz(t, "second", "first"))
	require.NoError(t, err)
	loader := &fakeLoader{art: art}
	p, err := Section(config.OnnxLoad{InputInitialValFile: ptr("in.npz")}, loader)
	require.NoError(t, err)
	v, _ := p.Get("input_initial_val")
	list := v.([]any)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].(arrays.Array).Key)
	require.Equal(t, "first", list[1].(arrays.Array).Key)
}

func TestArrayFileErrorPropagates(t *testing.T) {
	loader := &fakeLoader{err: fs.ErrNotExist}
	_, err := Section(config.OnnxLoad{Model: "m.onnx", InputInitialValFile: ptr("gone.npz")}, loader)
	var re *ResolveError
	require.True(t, errors.As(err, &re), "got %v", err)
	require.Equal(t, "input_initial_val_file", re.Field)
	require.Equal(t, "gone.npz", re.Path)
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Section(config.OnnxLoad{InputInitialValFile: ptr("x.npy")}, nil)
	require.True(t, errors.As(err, &re))
}

func TestWithout(t *testing.T) {
	p := New()
	p.Set("model", "m.onnx")
	p.Set("inputs", []string{"a"})
	p.Set("outputs", []string{"b"})
	rest := Without(p, "model", "absent")
	require.Equal(t, []string{"inputs", "outputs"}, Keys(rest))
	require.Equal(t, 3, p.Len(), "original must not change")
}

func TestDerivedKey(t *testing.T) {
	require.Equal(t, "input_initial_val", DerivedKey("input_initial_val_file"))
	require.Equal(t, "dataset", DerivedKey("dataset"))
}
