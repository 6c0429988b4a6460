// Package config holds the conversion document model: four sections, their
// defaults, field tables and validators, plus the loader that reads the
// document from TOML, YAML or JSON. It is structured into small files by
// concern:
//
//   - configuration.go: Configuration aggregate, New, cross-section validation.
//   - general.go, load.go, build.go, export.go: one file per section; each
//     section lists its fields (name, description, value) in declaration order
//     and knows how to fill its own defaults.
//   - defaults.go: canonical default instances used for comparison.
//   - validators.go: literal sets, predicates and the validator instance.
//   - loader.go: format detection, decoding with unknown keys rejected, encoding.
//   - errors.go: ParseError and the aggregated ValidationError.
//
// Defaults are applied per field before validation, so an absent field never
// reaches its validator. Validation collects every failure of every section.
package config
