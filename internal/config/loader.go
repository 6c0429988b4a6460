package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a document syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the document syntax from the file extension.
// Supports: .toml, .yaml/.yml, .json
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config extension: %q", ext)
	}
}

// ParseFormat accepts a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (toml, yaml, json)", s)
	}
}

// document mirrors the file layout. Unknown keys are rejected in all formats.
type document struct {
	Config GeneralSettings `toml:"config" yaml:"config" json:"config"`
	Load   *loadDocument   `toml:"load,omitempty" yaml:"load,omitempty" json:"load,omitempty"`
	// Model is the older name of the load table.
	Model  *loadDocument  `toml:"model,omitempty" yaml:"model,omitempty" json:"model,omitempty"`
	Build  BuildSettings  `toml:"build" yaml:"build" json:"build"`
	Export ExportSettings `toml:"export" yaml:"export" json:"export"`
}

// LoadFile reads a configuration document based on its extension.
func LoadFile(path string) (Configuration, error) {
	if path == "" {
		return Configuration{}, errors.New("empty config path")
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return Configuration{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, err
	}
	doc, err := decode(bytes.NewReader(b), f)
	if err != nil {
		return Configuration{}, &ParseError{Path: path, Format: f, Err: err}
	}
	return doc.configuration()
}

// Parse decodes, defaults and validates a document read from r.
func Parse(r io.Reader, f Format) (Configuration, error) {
	doc, err := decode(r, f)
	if err != nil {
		return Configuration{}, &ParseError{Format: f, Err: err}
	}
	return doc.configuration()
}

func decode(r io.Reader, f Format) (document, error) {
	var doc document
	var err error
	switch f {
	case FormatTOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc)
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			err = fmt.Errorf("%w\n%s", err, sme.String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		err = fmt.Errorf("unsupported format %q", f)
	}
	return doc, err
}

func (d document) configuration() (Configuration, error) {
	ld := d.Load
	if d.Model != nil {
		if ld != nil {
			return Configuration{}, &ValidationError{Problems: []FieldProblem{{Path: "model", Rule: RuleLoadAlias}}}
		}
		ld = d.Model
	}
	var load Load
	if ld != nil {
		l, ok := ld.resolve()
		if !ok {
			return Configuration{}, &ValidationError{Problems: []FieldProblem{{Path: "load.model_type", Rule: RuleModelType, Value: ld.ModelType}}}
		}
		load = l
	}
	return New(d.Config, load, d.Build, d.Export)
}

// Encode writes c as a document in the given format. Unset fields are left
// out, so decoding the output yields an equal Configuration.
func Encode(w io.Writer, c Configuration, f Format) error {
	doc := document{Config: c.Config, Build: c.Build, Export: c.Export}
	if c.Load != nil {
		doc.Load = newLoadDocument(c.Load)
	}
	switch f {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}
