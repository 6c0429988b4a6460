package config

// Configuration is the validated, defaulted model of one document. Build it
// with New, Parse or Load; it is not modified afterwards.
type Configuration struct {
	Config GeneralSettings
	Load   Load
	Build  BuildSettings
	Export ExportSettings
}

// New applies per-field defaults to every section and validates the result.
// A nil load section is reported as a missing model.
func New(general GeneralSettings, load Load, build BuildSettings, export ExportSettings) (Configuration, error) {
	if load == nil {
		load = OnnxLoad{}
	}
	c := Configuration{
		Config: general.WithDefaults(),
		Load:   loadWithDefaults(load),
		Build:  build.WithDefaults(),
		Export: export.WithDefaults(),
	}
	if err := c.validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// Sections returns the four sections in report order.
func (c Configuration) Sections() []Section {
	return []Section{c.Config, c.Load, c.Build, c.Export}
}

// Equal compares two configurations field by field.
func (c Configuration) Equal(o Configuration) bool {
	return c.Config.Equal(o.Config) && LoadEqual(c.Load, o.Load) &&
		c.Build.Equal(o.Build) && c.Export.Equal(o.Export)
}

// validate runs all field validators; every failure is collected.
func (c Configuration) validate() error {
	v := fieldValidator()
	verr := &ValidationError{}
	for _, s := range c.Sections() {
		verr.collect(s.SectionName(), v.Struct(s))
	}
	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}
