package config

import "rknnc/internal/common/fsutil"

// ExportSettings is the [export] table.
type ExportSettings struct {
	ExportPath *string `toml:"export_path,omitempty" yaml:"export_path,omitempty" json:"export_path,omitempty" validate:"omitempty,nonempty"`
}

// ExportExt is the extension of converted models.
const ExportExt = ".rknn"

func (ExportSettings) SectionName() string { return "export" }

func (e ExportSettings) Fields() []Field {
	return []Field{
		{Name: "export_path", Description: "Destination of the converted model (default: model path with .rknn extension)", Value: opt(e.ExportPath)},
	}
}

func (e ExportSettings) WithDefaults() ExportSettings { return e }

func (e ExportSettings) Equal(o ExportSettings) bool { return fieldsEqual(e.Fields(), o.Fields()) }

// Destination returns the export path, deriving it from modelPath when unset.
func (e ExportSettings) Destination(modelPath string) string {
	if e.ExportPath != nil {
		return *e.ExportPath
	}
	return fsutil.ReplaceExt(modelPath, ExportExt)
}
