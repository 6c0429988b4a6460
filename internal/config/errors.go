package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ParseError reports a document that could not be decoded. Err is the
// decoder's error, untouched.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse %s document: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldProblem is one violated rule.
type FieldProblem struct {
	// Path is the dotted document path, e.g. "config.quantized_dtype".
	Path  string
	Rule  string
	Param string
	Value any
}

func (p FieldProblem) String() string {
	msg, ok := ruleMessages[p.Rule]
	switch {
	case !ok:
		msg = "violates rule " + p.Rule
	case strings.Contains(msg, "%s"):
		msg = fmt.Sprintf(msg, p.Param)
	}
	if p.Value == nil {
		return fmt.Sprintf("%s %s", p.Path, msg)
	}
	return fmt.Sprintf("%s %s (got %s)", p.Path, msg, describeValue(p.Value))
}

// ValidationError aggregates every problem found across all sections.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.String())
	}
	return "invalid configuration: " + strings.Join(lines, "; ")
}

// IsValidation reports whether err carries field validation failures.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (e *ValidationError) add(p FieldProblem) { e.Problems = append(e.Problems, p) }

// collect turns the validator output for one section into problems.
func (e *ValidationError) collect(section string, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e.add(FieldProblem{Path: section, Rule: err.Error()})
		return
	}
	for _, fe := range verrs {
		e.add(FieldProblem{
			Path:  section + "." + fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: problemValue(fe),
		})
	}
}

func problemValue(fe validator.FieldError) any {
	if fe.Tag() == "required" || fe.Tag() == RuleInputShapes {
		return nil
	}
	return fe.Value()
}

func describeValue(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.IsValid() && rv.CanInterface() {
		v = rv.Interface()
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
