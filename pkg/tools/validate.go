package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ValidationCode identifies the single offending condition of a rejected
// call.
type ValidationCode string

const (
	MissingRequired  ValidationCode = "missing_required"
	UnknownParameter ValidationCode = "unknown_parameter"
	InvalidEnum      ValidationCode = "invalid_enum"
	InvalidType      ValidationCode = "invalid_type"
)

// ValidationError rejects a call before any remote operation is issued. It
// names exactly one offending parameter.
type ValidationError struct {
	Code      ValidationCode
	Parameter string
	Allowed   []string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case MissingRequired:
		return fmt.Sprintf("missing required parameter: %s", e.Parameter)
	case UnknownParameter:
		return fmt.Sprintf("unknown parameter: %s", e.Parameter)
	case InvalidEnum:
		return fmt.Sprintf("invalid value for parameter %s: must be one of [%s]", e.Parameter, strings.Join(e.Allowed, ", "))
	case InvalidType:
		return fmt.Sprintf("invalid type for parameter %s", e.Parameter)
	default:
		return fmt.Sprintf("invalid parameter: %s", e.Parameter)
	}
}

// ValidatedArgs holds arguments that passed validation, with defaults
// substituted. Accessors assume validation already established the kind.
type ValidatedArgs map[string]any

// String returns a string argument, or "" when absent (legal only for
// optional parameters without a default).
func (a ValidatedArgs) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns an integer argument, or 0 when absent.
func (a ValidatedArgs) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

// Validate checks args against the spec: required parameters must be present,
// optional ones get their defaults, enum values must be in the allowed set,
// and keys not declared by the spec are rejected outright so a typo'd
// parameter never passes silently. Kinds are never coerced across each other;
// a string is never parsed as an integer.
func Validate(spec ToolSpec, args map[string]any) (ValidatedArgs, error) {
	declared := make(map[string]ParameterSpec, len(spec.Parameters))
	for _, p := range spec.Parameters {
		declared[p.Name] = p
	}
	for key := range args {
		if _, ok := declared[key]; !ok {
			return nil, &ValidationError{Code: UnknownParameter, Parameter: key}
		}
	}

	out := make(ValidatedArgs, len(spec.Parameters))
	for _, param := range spec.Parameters {
		raw, present := args[param.Name]
		if !present {
			if param.Required {
				return nil, &ValidationError{Code: MissingRequired, Parameter: param.Name}
			}
			if param.Default != nil {
				out[param.Name] = param.Default
			}
			continue
		}

		switch param.Kind {
		case KindString:
			s, ok := raw.(string)
			if !ok {
				return nil, &ValidationError{Code: InvalidType, Parameter: param.Name}
			}
			out[param.Name] = s

		case KindEnum:
			s, ok := raw.(string)
			if !ok {
				return nil, &ValidationError{Code: InvalidType, Parameter: param.Name}
			}
			if !contains(param.AllowedValues, s) {
				return nil, &ValidationError{Code: InvalidEnum, Parameter: param.Name, Allowed: param.AllowedValues}
			}
			out[param.Name] = s

		case KindInteger:
			n, ok := asInt(raw)
			if !ok {
				return nil, &ValidationError{Code: InvalidType, Parameter: param.Name}
			}
			out[param.Name] = n

		default:
			return nil, &ValidationError{Code: InvalidType, Parameter: param.Name}
		}
	}
	return out, nil
}

// asInt accepts the integer encodings a JSON decoder can hand us. Strings
// are deliberately not accepted.
func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
