package core

import (
	"log/slog"
	"strconv"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
)

// Parameter describes a single value an algorithm was configured with.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the configuration exposed by an algorithm.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by algorithms that can describe their
// configuration for logs and the HUD.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// IntParam builds an integer parameter entry.
func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

// Int64Param builds an integer parameter entry from an int64.
func Int64Param(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// FloatParam builds a floating-point parameter entry.
func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

// LogValue flattens the snapshot into slog attributes keyed by parameter key.
func (s ParameterSnapshot) LogValue() slog.Value {
	var attrs []slog.Attr
	for _, g := range s.Groups {
		for _, p := range g.Params {
			attrs = append(attrs, slog.String(p.Key, p.Value))
		}
	}
	return slog.GroupValue(attrs...)
}

// Lines renders the snapshot as "Label: value" lines, one group header each.
func (s ParameterSnapshot) Lines() []string {
	var lines []string
	for _, g := range s.Groups {
		if g.Name != "" {
			lines = append(lines, g.Name)
		}
		for _, p := range g.Params {
			lines = append(lines, "  "+p.Label+": "+p.Value)
		}
	}
	return lines
}
