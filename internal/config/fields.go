package config

// FieldKind tells the marshaller how a field value reaches the toolkit.
type FieldKind int

const (
	// FieldValue is passed through as-is.
	FieldValue FieldKind = iota
	// FieldArrayFile holds a path that must be resolved to arrays first.
	FieldArrayFile
)

// Field is one row of a section's schema table: the document key, its
// documentation and the current value. Value is nil when the field is unset,
// otherwise a plain Go value (pointers already dereferenced).
type Field struct {
	Name        string
	Description string
	Value       any
	Kind        FieldKind
}

// Section is implemented by every configuration section.
type Section interface {
	// SectionName is the document table the section is read from.
	SectionName() string
	// Fields lists the section's keys in declaration order.
	Fields() []Field
}

func opt[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func seq[T any](s []T) any {
	if s == nil {
		return nil
	}
	return s
}

func dict[K comparable, V any](m map[K]V) any {
	if m == nil {
		return nil
	}
	return m
}

func ptr[T any](v T) *T { return &v }

// orDefault returns p when set, otherwise a fresh pointer to def.
func orDefault[T any](p *T, def T) *T {
	if p != nil {
		return p
	}
	return ptr(def)
}
