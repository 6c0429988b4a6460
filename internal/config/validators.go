package config

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Accepted literal sets. The richer quantization generation is the only one
// supported; the legacy "asymmetric_quantized-8" dtype is rejected.
var (
	QuantizedDtypes     = []string{"w8a8", "w8a16", "w16a16i", "w16a16i_dfp", "w4a16"}
	QuantizedAlgorithms = []string{"normal", "mmse", "kl_divergence", "gdq"}
	FloatDtypes         = []string{"float16"}
)

const (
	groupMethodPrefix = "group"
	minOptimization   = 0
	maxOptimization   = 3
)

// Validation rule names. They double as go-playground/validator tags.
const (
	RuleQuantizedDtype     = "quantized_dtype"
	RuleQuantizedAlgorithm = "quantized_algorithm"
	RuleQuantizedMethod    = "quantized_method"
	RuleFloatDtype         = "float_dtype"
	RuleOptimizationLevel  = "optimization_level"
	RuleNonEmpty           = "nonempty"
	RuleInputShapes        = "input_shapes"
	RuleModelType          = "model_type"
	RuleLoadAlias          = "load_alias"
)

// IsQuantizedDtype reports whether v is one of QuantizedDtypes.
func IsQuantizedDtype(v string) bool { return contains(QuantizedDtypes, v) }

// IsQuantizedAlgorithm reports whether v is one of QuantizedAlgorithms.
func IsQuantizedAlgorithm(v string) bool { return contains(QuantizedAlgorithms, v) }

// IsFloatDtype reports whether v is one of FloatDtypes.
func IsFloatDtype(v string) bool { return contains(FloatDtypes, v) }

// IsNonEmpty rejects the empty string. Absent fields never reach it.
func IsNonEmpty(v string) bool { return len(v) >= 1 }

// IsQuantizedMethod accepts "layer", "channel" and anything starting with "group".
func IsQuantizedMethod(v string) bool {
	return v == "layer" || v == "channel" || strings.HasPrefix(v, groupMethodPrefix)
}

// IsOptimizationLevel reports whether v lies in [0, 3].
func IsOptimizationLevel(v int64) bool {
	return v >= minOptimization && v <= maxOptimization
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// fieldValidator returns the shared validator with the custom rules installed.
// Field names in errors are the document keys, not Go field names.
func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		strRule := func(pred func(string) bool) validator.Func {
			return func(fl validator.FieldLevel) bool { return pred(fl.Field().String()) }
		}
		rules := map[string]validator.Func{
			RuleQuantizedDtype:     strRule(IsQuantizedDtype),
			RuleQuantizedAlgorithm: strRule(IsQuantizedAlgorithm),
			RuleQuantizedMethod:    strRule(IsQuantizedMethod),
			RuleFloatDtype:         strRule(IsFloatDtype),
			RuleNonEmpty:           strRule(IsNonEmpty),
			RuleOptimizationLevel: func(fl validator.FieldLevel) bool {
				return IsOptimizationLevel(fl.Field().Int())
			},
		}
		for tag, fn := range rules {
			// Registration only fails on an empty tag or nil func.
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
		v.RegisterStructValidation(validateOnnxShapes, OnnxLoad{})
		validate = v
	})
	return validate
}

// validateOnnxShapes enforces one shape per declared input when both lists are set.
func validateOnnxShapes(sl validator.StructLevel) {
	o := sl.Current().Interface().(OnnxLoad)
	if o.Inputs != nil && o.InputSizeList != nil && len(o.Inputs) != len(o.InputSizeList) {
		sl.ReportError(o.InputSizeList, "input_size_list", "InputSizeList", RuleInputShapes, "")
	}
}

// ruleMessages explains each tag in human terms.
var ruleMessages = map[string]string{
	RuleQuantizedDtype:     "must be one of " + strings.Join(QuantizedDtypes, ", "),
	RuleQuantizedAlgorithm: "must be one of " + strings.Join(QuantizedAlgorithms, ", "),
	RuleQuantizedMethod:    `must be "layer", "channel" or start with "group"`,
	RuleFloatDtype:         "must be one of " + strings.Join(FloatDtypes, ", "),
	RuleOptimizationLevel:  "must be between 0 and 3",
	RuleNonEmpty:           "must not be empty",
	RuleInputShapes:        "must contain one shape per entry of inputs",
	RuleModelType:          "must be " + ModelTypeOnnx,
	RuleLoadAlias:          "cannot be set together with load",
	"required":             "is required",
	"min":                  "must be at least %s",
	"gt":                   "must be greater than %s",
	"oneof":                "must be one of %s",
}
