package config

import "reflect"

// GeneralSettings is the [config] table: global quantization and
// normalization parameters handed to the toolkit's configure call.
type GeneralSettings struct {
	MeanValues           []float32         `toml:"mean_values,omitempty" yaml:"mean_values,omitempty" json:"mean_values,omitempty"`
	StdValues            []float32         `toml:"std_values,omitempty" yaml:"std_values,omitempty" json:"std_values,omitempty"`
	QuantizedDtype       *string           `toml:"quantized_dtype,omitempty" yaml:"quantized_dtype,omitempty" json:"quantized_dtype,omitempty" validate:"omitempty,quantized_dtype"`
	QuantizedAlgorithm   *string           `toml:"quantized_algorithm,omitempty" yaml:"quantized_algorithm,omitempty" json:"quantized_algorithm,omitempty" validate:"omitempty,quantized_algorithm"`
	QuantizedMethod      *string           `toml:"quantized_method,omitempty" yaml:"quantized_method,omitempty" json:"quantized_method,omitempty" validate:"omitempty,quantized_method"`
	TargetPlatform       *string           `toml:"target_platform,omitempty" yaml:"target_platform,omitempty" json:"target_platform,omitempty" validate:"omitempty,nonempty"`
	QuantImgRGB2BGR      *bool             `toml:"quant_img_RGB2BGR,omitempty" yaml:"quant_img_RGB2BGR,omitempty" json:"quant_img_RGB2BGR,omitempty"`
	FloatDtype           *string           `toml:"float_dtype,omitempty" yaml:"float_dtype,omitempty" json:"float_dtype,omitempty" validate:"omitempty,float_dtype"`
	OptimizationLevel    *int              `toml:"optimization_level,omitempty" yaml:"optimization_level,omitempty" json:"optimization_level,omitempty" validate:"omitempty,optimization_level"`
	CustomString         *string           `toml:"custom_string,omitempty" yaml:"custom_string,omitempty" json:"custom_string,omitempty"`
	RemoveWeight         *bool             `toml:"remove_weight,omitempty" yaml:"remove_weight,omitempty" json:"remove_weight,omitempty"`
	CompressWeight       *bool             `toml:"compress_weight,omitempty" yaml:"compress_weight,omitempty" json:"compress_weight,omitempty"`
	InputsYUVFmt         *string           `toml:"inputs_yuv_fmt,omitempty" yaml:"inputs_yuv_fmt,omitempty" json:"inputs_yuv_fmt,omitempty"`
	SingleCoreMode       *bool             `toml:"single_core_mode,omitempty" yaml:"single_core_mode,omitempty" json:"single_core_mode,omitempty"`
	ModelPruning         *bool             `toml:"model_pruning,omitempty" yaml:"model_pruning,omitempty" json:"model_pruning,omitempty"`
	OpTarget             map[string]string `toml:"op_target,omitempty" yaml:"op_target,omitempty" json:"op_target,omitempty"`
	DynamicInput         [][][]int         `toml:"dynamic_input,omitempty" yaml:"dynamic_input,omitempty" json:"dynamic_input,omitempty" validate:"omitempty,dive,dive,dive,min=0"`
	QuantizeWeight       *bool             `toml:"quantize_weight,omitempty" yaml:"quantize_weight,omitempty" json:"quantize_weight,omitempty"`
	RemoveReshape        *bool             `toml:"remove_reshape,omitempty" yaml:"remove_reshape,omitempty" json:"remove_reshape,omitempty"`
	SparseInfer          *bool             `toml:"sparse_infer,omitempty" yaml:"sparse_infer,omitempty" json:"sparse_infer,omitempty"`
	EnableFlashAttention *bool             `toml:"enable_flash_attention,omitempty" yaml:"enable_flash_attention,omitempty" json:"enable_flash_attention,omitempty"`
	AutoHybridCosThresh  *float32          `toml:"auto_hybrid_cos_thresh,omitempty" yaml:"auto_hybrid_cos_thresh,omitempty" json:"auto_hybrid_cos_thresh,omitempty"`
	AutoHybridEucThresh  *float32          `toml:"auto_hybrid_euc_thresh,omitempty" yaml:"auto_hybrid_euc_thresh,omitempty" json:"auto_hybrid_euc_thresh,omitempty"`
}

func (GeneralSettings) SectionName() string { return "config" }

func (g GeneralSettings) Fields() []Field {
	return []Field{
		{Name: "mean_values", Description: "Mean values for normalization, one per channel.", Value: seq(g.MeanValues)},
		{Name: "std_values", Description: "Standard deviation values for normalization, one per channel.", Value: seq(g.StdValues)},
		{Name: "quantized_dtype", Description: "Quantized dtype. [w8a8, w8a16, w16a16i, w16a16i_dfp, w4a16]", Value: opt(g.QuantizedDtype)},
		{Name: "quantized_algorithm", Description: "Quantized algorithm. [normal, mmse, kl_divergence, gdq]", Value: opt(g.QuantizedAlgorithm)},
		{Name: "quantized_method", Description: "Quantized method. [layer, channel, group<N>]", Value: opt(g.QuantizedMethod)},
		{Name: "target_platform", Description: "Target platform. [rk3588, rk3576, rk3568, rk3562, rk2118, rv1126b, rv1106, ...]", Value: opt(g.TargetPlatform)},
		{Name: "quant_img_RGB2BGR", Description: "Use BGR channel order instead of RGB for quantization images.", Value: opt(g.QuantImgRGB2BGR)},
		{Name: "float_dtype", Description: "Float dtype. [float16]", Value: opt(g.FloatDtype)},
		{Name: "optimization_level", Description: "Optimization level. [0, 1, 2, 3]", Value: opt(g.OptimizationLevel)},
		{Name: "custom_string", Description: "A custom string to add to the model.", Value: opt(g.CustomString)},
		{Name: "remove_weight", Description: "Remove the weights from the model.", Value: opt(g.RemoveWeight)},
		{Name: "compress_weight", Description: "Compress the model weights.", Value: opt(g.CompressWeight)},
		{Name: "inputs_yuv_fmt", Description: "Input YUV format.", Value: opt(g.InputsYUVFmt)},
		{Name: "single_core_mode", Description: "Single core mode.", Value: opt(g.SingleCoreMode)},
		{Name: "model_pruning", Description: "Prune the model.", Value: opt(g.ModelPruning)},
		{Name: "op_target", Description: "Target backend per operator name.", Value: dict(g.OpTarget)},
		{Name: "dynamic_input", Description: "Shape sets for dynamic input, e.g. [[[1,3,224,224]], [[1,3,320,320]]].", Value: seq(g.DynamicInput)},
		{Name: "quantize_weight", Description: "Quantize weights only.", Value: opt(g.QuantizeWeight)},
		{Name: "remove_reshape", Description: "Remove reshape operators at the model boundary.", Value: opt(g.RemoveReshape)},
		{Name: "sparse_infer", Description: "Enable sparse inference.", Value: opt(g.SparseInfer)},
		{Name: "enable_flash_attention", Description: "Enable flash attention.", Value: opt(g.EnableFlashAttention)},
		{Name: "auto_hybrid_cos_thresh", Description: "Cosine similarity threshold for automatic hybrid quantization.", Value: opt(g.AutoHybridCosThresh)},
		{Name: "auto_hybrid_euc_thresh", Description: "Euclidean distance threshold for automatic hybrid quantization.", Value: opt(g.AutoHybridEucThresh)},
	}
}

// WithDefaults fills every unset field that has a documented default.
func (g GeneralSettings) WithDefaults() GeneralSettings {
	g.QuantizedDtype = orDefault(g.QuantizedDtype, "w8a8")
	g.QuantizedAlgorithm = orDefault(g.QuantizedAlgorithm, "normal")
	g.QuantizedMethod = orDefault(g.QuantizedMethod, "channel")
	g.QuantImgRGB2BGR = orDefault(g.QuantImgRGB2BGR, false)
	g.FloatDtype = orDefault(g.FloatDtype, "float16")
	g.OptimizationLevel = orDefault(g.OptimizationLevel, 3)
	g.RemoveWeight = orDefault(g.RemoveWeight, false)
	g.CompressWeight = orDefault(g.CompressWeight, false)
	g.SingleCoreMode = orDefault(g.SingleCoreMode, false)
	return g
}

func (g GeneralSettings) Equal(o GeneralSettings) bool { return fieldsEqual(g.Fields(), o.Fields()) }

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !reflect.DeepEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
