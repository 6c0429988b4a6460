// Package payload projects configuration sections into ordered, dynamically
// typed keyword payloads for the toolkit boundary.
//
// An unset field contributes no key. The toolkit distinguishes a parameter
// that was not passed (it applies its own default) from one passed as null,
// so null is never emitted for "unset".
package payload

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"rknnc/internal/arrays"
	"rknnc/internal/config"
)

// Payload is an insertion-ordered keyword mapping. Its JSON encoding keeps
// key order.
type Payload = *orderedmap.OrderedMap[string, any]

// ArrayLoader resolves an array file into its artifact.
type ArrayLoader interface {
	LoadArrays(path string) (arrays.Artifact, error)
}

// New returns an empty payload.
func New() Payload { return orderedmap.New[string, any]() }

// Marshal walks fields in declared order. Array-file fields are resolved
// through loader and stored under their derived key.
func Marshal(fields []config.Field, loader ArrayLoader) (Payload, error) {
	p := New()
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		switch f.Kind {
		case config.FieldValue:
			p.Set(f.Name, f.Value)
		case config.FieldArrayFile:
			path, ok := f.Value.(string)
			if !ok {
				return nil, fmt.Errorf("field %s: array file path must be a string, got %T", f.Name, f.Value)
			}
			list, err := resolve(loader, path)
			if err != nil {
				return nil, &ResolveError{Field: f.Name, Path: path, Err: err}
			}
			p.Set(DerivedKey(f.Name), list)
		default:
			return nil, fmt.Errorf("field %s: unknown kind %d", f.Name, f.Kind)
		}
	}
	return p, nil
}

// Section marshals one configuration section.
func Section(s config.Section, loader ArrayLoader) (Payload, error) {
	return Marshal(s.Fields(), loader)
}

// DerivedKey is the payload key of a resolved array-file field:
// input_initial_val_file becomes input_initial_val.
func DerivedKey(field string) string { return strings.TrimSuffix(field, "_file") }

// Without returns a copy of p lacking keys, used to pull positional
// arguments out of a keyword payload.
func Without(p Payload, keys ...string) Payload {
	out := New()
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	for _, k := range keys {
		out.Delete(k)
	}
	return out
}

// Keys lists the payload keys in order.
func Keys(p Payload) []string {
	keys := make([]string, 0, p.Len())
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// resolve normalizes both artifact shapes to an ordered sequence: an archive
// in the order it reports its members, a single array as one element.
func resolve(loader ArrayLoader, path string) ([]any, error) {
	if loader == nil {
		return nil, fmt.Errorf("no array loader configured")
	}
	art, err := loader.LoadArrays(path)
	if err != nil {
		return nil, err
	}
	switch a := art.(type) {
	case arrays.Single:
		return []any{a.Array}, nil
	case *arrays.Archive:
		names := a.Files()
		list := make([]any, 0, len(names))
		for _, name := range names {
			arr, ok := a.Get(name)
			if !ok {
				return nil, fmt.Errorf("archive lists %q but does not contain it", name)
			}
			list = append(list, arr)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported artifact %T", art)
	}
}
