package config

import "fmt"

// Load is the [load] table: how the source model is read. It is a closed
// union; the only variant today is OnnxLoad. Adding a format means adding a
// type that implements Load and a case in every switch over the union.
type Load interface {
	Section
	ModelType() string
	isLoad()
}

// ModelTypeOnnx is the model_type tag selecting OnnxLoad.
const ModelTypeOnnx = "Onnx"

// OnnxLoad loads an ONNX model file.
type OnnxLoad struct {
	Model               string   `toml:"model,omitempty" yaml:"model,omitempty" json:"model,omitempty" validate:"required"`
	Inputs              []string `toml:"inputs,omitempty" yaml:"inputs,omitempty" json:"inputs,omitempty"`
	InputSizeList       [][]int  `toml:"input_size_list,omitempty" yaml:"input_size_list,omitempty" json:"input_size_list,omitempty" validate:"omitempty,dive,dive,min=0"`
	InputInitialValFile *string  `toml:"input_initial_val_file,omitempty" yaml:"input_initial_val_file,omitempty" json:"input_initial_val_file,omitempty" validate:"omitempty,nonempty"`
	Outputs             []string `toml:"outputs,omitempty" yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

func (OnnxLoad) SectionName() string { return "load" }
func (OnnxLoad) ModelType() string   { return ModelTypeOnnx }
func (OnnxLoad) isLoad()             {}

func (o OnnxLoad) Fields() []Field {
	var model any
	if o.Model != "" {
		model = o.Model
	}
	return []Field{
		{Name: "model", Description: "Path to the ONNX model file.", Value: model},
		{Name: "inputs", Description: `Optional list of input names (e.g. ["input0"]).`, Value: seq(o.Inputs)},
		{Name: "input_size_list", Description: "Optional shape list matching each input (e.g. [[1, 3, 224, 224]]).", Value: seq(o.InputSizeList)},
		{Name: "input_initial_val_file", Description: "Path to a .npy or .npz file with initial values for the inputs.", Value: opt(o.InputInitialValFile), Kind: FieldArrayFile},
		{Name: "outputs", Description: "Optional list of output names.", Value: seq(o.Outputs)},
	}
}

// WithDefaults returns o unchanged: no ONNX field has a runtime default.
// The model path is required and is never filled in.
func (o OnnxLoad) WithDefaults() OnnxLoad { return o }

func (o OnnxLoad) Equal(other OnnxLoad) bool { return fieldsEqual(o.Fields(), other.Fields()) }

// loadDocument is the on-disk shape of [load]: the tag plus the union of all
// variant fields.
type loadDocument struct {
	ModelType string `toml:"model_type,omitempty" yaml:"model_type,omitempty" json:"model_type,omitempty"`
	OnnxLoad  `yaml:",inline"`
}

// resolve picks the variant named by the tag. An empty tag selects Onnx.
func (d *loadDocument) resolve() (Load, bool) {
	switch d.ModelType {
	case "", ModelTypeOnnx:
		return d.OnnxLoad, true
	default:
		return nil, false
	}
}

func newLoadDocument(l Load) *loadDocument {
	switch v := l.(type) {
	case OnnxLoad:
		return &loadDocument{ModelType: ModelTypeOnnx, OnnxLoad: v}
	default:
		panic(fmt.Sprintf("config: unhandled load variant %T", l))
	}
}

// loadWithDefaults applies the variant's defaults.
func loadWithDefaults(l Load) Load {
	switch v := l.(type) {
	case OnnxLoad:
		return v.WithDefaults()
	default:
		panic(fmt.Sprintf("config: unhandled load variant %T", l))
	}
}

// LoadEqual compares two load sections; different variants are never equal.
func LoadEqual(a, b Load) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ModelType() != b.ModelType() {
		return false
	}
	return fieldsEqual(a.Fields(), b.Fields())
}

// ModelPath returns the source model file of any load variant.
func ModelPath(l Load) string {
	switch v := l.(type) {
	case OnnxLoad:
		return v.Model
	case nil:
		return ""
	default:
		panic(fmt.Sprintf("config: unhandled load variant %T", l))
	}
}
