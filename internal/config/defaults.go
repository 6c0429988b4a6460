package config

// DefaultModelPath is the comparison default of the required model path. It
// is shown by explain and never substituted into a real run.
const DefaultModelPath = "model.onnx"

func DefaultGeneralSettings() GeneralSettings { return GeneralSettings{}.WithDefaults() }

func DefaultLoad() Load { return OnnxLoad{Model: DefaultModelPath}.WithDefaults() }

func DefaultBuildSettings() BuildSettings { return BuildSettings{}.WithDefaults() }

func DefaultExportSettings() ExportSettings { return ExportSettings{}.WithDefaults() }

// Defaults returns the canonical, fully defaulted configuration.
func Defaults() Configuration {
	return Configuration{
		Config: DefaultGeneralSettings(),
		Load:   DefaultLoad(),
		Build:  DefaultBuildSettings(),
		Export: DefaultExportSettings(),
	}
}

// DefaultsFor returns the canonical instance of the same section type as s.
// For the load union it returns the default of s's variant.
func DefaultsFor(s Section) Section {
	switch v := s.(type) {
	case GeneralSettings:
		return DefaultGeneralSettings()
	case OnnxLoad:
		return OnnxLoad{Model: DefaultModelPath}.WithDefaults()
	case BuildSettings:
		return DefaultBuildSettings()
	case ExportSettings:
		return DefaultExportSettings()
	default:
		panic("config: no defaults for section " + v.SectionName())
	}
}
