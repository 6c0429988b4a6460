package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const tomlDoc = `
[config]
mean_values = [0.0, 0.0, 0.0]
std_values = [255.0, 255.0, 255.0]
target_platform = "rk3588"
quantized_method = "group32"
optimization_level = 2
dynamic_input = [[[1, 3, 224, 224]], [[1, 3, 320, 320]]]

[config.op_target]
Conv_0 = "cpu"

[load]
model_type = "Onnx"
model = "net.onnx"
inputs = ["images"]
input_size_list = [[1, 3, 224, 224]]

[build]
dataset = "dataset.txt"
rknn_batch_size = 4

[export]
export_path = "out/net.rknn"
`

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", tomlDoc)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g := cfg.Config
	if *g.TargetPlatform != "rk3588" || *g.QuantizedMethod != "group32" || *g.OptimizationLevel != 2 {
		t.Fatalf("unexpected config section: %+v", g)
	}
	if len(g.DynamicInput) != 2 || g.DynamicInput[1][0][2] != 320 {
		t.Fatalf("unexpected dynamic_input: %v", g.DynamicInput)
	}
	if g.OpTarget["Conv_0"] != "cpu" {
		t.Fatalf("unexpected op_target: %v", g.OpTarget)
	}
	// defaults are resolved at construction
	if *g.QuantizedDtype != "w8a8" || *g.FloatDtype != "float16" || *g.QuantImgRGB2BGR {
		t.Fatalf("defaults not applied: %+v", g)
	}
	onnx, ok := cfg.Load.(OnnxLoad)
	if !ok {
		t.Fatalf("expected OnnxLoad, got %T", cfg.Load)
	}
	if onnx.Model != "net.onnx" || onnx.Inputs[0] != "images" || onnx.InputSizeList[0][1] != 3 {
		t.Fatalf("unexpected load section: %+v", onnx)
	}
	if *cfg.Build.Dataset != "dataset.txt" || *cfg.Build.RknnBatchSize != 4 || !*cfg.Build.DoQuantization {
		t.Fatalf("unexpected build section: %+v", cfg.Build)
	}
	if got := cfg.Export.Destination(onnx.Model); got != "out/net.rknn" {
		t.Fatalf("export destination = %q", got)
	}
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "config:\n  quantized_dtype: w16a16i\n  mean_values: [0, 0, 0]\nmodel:\n  model: net.onnx\nbuild:\n  do_quantization: false\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Config.QuantizedDtype != "w16a16i" || len(cfg.Config.MeanValues) != 3 {
		t.Fatalf("unexpected cfg: %+v", cfg.Config)
	}
	if cfg.Load.(OnnxLoad).Model != "net.onnx" {
		t.Fatalf("model alias not honored: %+v", cfg.Load)
	}
	if *cfg.Build.DoQuantization {
		t.Fatalf("explicit false overwritten by default")
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"config":{"quantized_algorithm":"kl_divergence"},"load":{"model":"m.onnx","outputs":["out"]},"export":{}}`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Config.QuantizedAlgorithm != "kl_divergence" {
		t.Fatalf("unexpected cfg: %+v", cfg.Config)
	}
	if got := cfg.Export.Destination("m.onnx"); got != "m.rknn" {
		t.Fatalf("derived export path = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := LoadFile(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestFormatHelpers(t *testing.T) {
	for in, want := range map[string]Format{"a.TOML": FormatTOML, "b.yml": FormatYAML, "c.yaml": FormatYAML, "d.json": FormatJSON} {
		got, err := FormatFromPath(in)
		if err != nil || got != want {
			t.Fatalf("FormatFromPath(%q) = %q, %v", in, got, err)
		}
	}
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Fatalf("ParseFormat(YML) = %q, %v", f, err)
	}
	if _, err := ParseFormat("ini"); err == nil {
		t.Fatalf("expected error for ini")
	}
}
