package logic

import (
	"math"
	"strconv"
	"strings"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/report"
)

// PlayerNameField is the one form input that is not part of the stats map
const PlayerNameField = "player_name"

// FallbackOptions are used for categorical fields the scoring service flags but
// does not describe. Service-declared options always win.
var FallbackOptions = map[string][]models.FieldOption{
	"result": {
		{Value: "victory", Label: "Victory"},
		{Value: "draw", Label: "Draw"},
		{Value: "defeat", Label: "Defeat"},
	},
	"pos": {
		{Value: "DF", Label: "Defender"},
		{Value: "MF", Label: "Midfielder"},
		{Value: "FW", Label: "Forward"},
	},
}

// FieldSpec describes one form input. Kind selects which of the remaining
// members apply: Min/Max for numeric fields, Options for enumerated ones.
type FieldSpec struct {
	Name    string               `json:"name"`
	Label   string               `json:"label"`
	Kind    models.FieldKind     `json:"kind"`
	Min     float64              `json:"min,omitempty"`
	Max     float64              `json:"max,omitempty"`
	Options []models.FieldOption `json:"options,omitempty"`
}

func (f FieldSpec) Numeric() bool {
	return f.Kind == models.FieldKindNumeric
}

func (f FieldSpec) HasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// clamp bounds v to [max(Min, 0), Max]; Max == 0 leaves the top open.
func (f FieldSpec) clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	lower := math.Max(f.Min, 0)
	if v < lower {
		v = lower
	}
	if f.Max > 0 && v > f.Max {
		v = f.Max
	}
	return v
}

// ResolveFields turns a model's field list into typed specs. The catalog's
// field_kinds declarations are authoritative; categorical fields without one
// fall back to FallbackOptions, and a categorical field with neither is an error.
func ResolveFields(fields []string, catalog *models.Catalog) ([]FieldSpec, error) {
	specs := make([]FieldSpec, 0, len(fields))
	for _, name := range fields {
		if name == PlayerNameField {
			continue
		}
		spec := FieldSpec{Name: name, Label: report.Label(name)}

		var declared models.FieldKindSpec
		var hasDecl bool
		var categorical bool
		if catalog != nil {
			declared, hasDecl = catalog.FieldKinds[name]
			categorical = catalog.CategoricalFields.Contains(name)
		}

		switch {
		case hasDecl && declared.Kind == models.FieldKindEnumerated:
			if len(declared.Options) == 0 {
				return nil, &FieldConfigError{Field: name, Reason: "enumerated field declares no options"}
			}
			spec.Kind = models.FieldKindEnumerated
			spec.Options = declared.Options
		case hasDecl && declared.Kind == models.FieldKindNumeric:
			if declared.Max > 0 && declared.Max < declared.Min {
				return nil, &FieldConfigError{Field: name, Reason: "max is below min"}
			}
			spec.Kind = models.FieldKindNumeric
			spec.Min = declared.Min
			spec.Max = declared.Max
		case hasDecl:
			return nil, &FieldConfigError{Field: name, Reason: "unknown kind " + strconv.Quote(string(declared.Kind))}
		case categorical:
			opts, ok := FallbackOptions[name]
			if !ok {
				return nil, &FieldConfigError{Field: name, Reason: "categorical field has no option list"}
			}
			spec.Kind = models.FieldKindEnumerated
			spec.Options = opts
		default:
			spec.Kind = models.FieldKindNumeric
		}

		specs = append(specs, spec)
	}
	return specs, nil
}

// Form is the editable state of the prediction form for one model
type Form struct {
	ModelKey   string         `json:"model_key"`
	Fields     []FieldSpec    `json:"fields"`
	PlayerName string         `json:"player_name"`
	Values     map[string]any `json:"values"`
}

// NewForm builds a form with every field at its default: numeric fields at
// their lower bound (0), enumerated fields unselected ("").
func NewForm(desc models.ModelDescriptor, catalog *models.Catalog) (*Form, error) {
	specs, err := ResolveFields(desc.Fields, catalog)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(specs))
	for _, f := range specs {
		if f.Numeric() {
			values[f.Name] = f.clamp(0)
		} else {
			values[f.Name] = ""
		}
	}

	return &Form{
		ModelKey: desc.Key,
		Fields:   specs,
		Values:   values,
	}, nil
}

// Field returns the spec for name
func (f *Form) Field(name string) (FieldSpec, bool) {
	for _, spec := range f.Fields {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Number returns the numeric value of a field, 0 for anything else
func (f *Form) Number(name string) float64 {
	switch v := f.Values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Text returns the value of a field formatted for an input element
func (f *Form) Text(name string) string {
	switch v := f.Values[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Set assigns a raw input value. Numeric input that does not parse becomes 0;
// negatives snap to 0. Enumerated input must be "" or a declared option.
func (f *Form) Set(name, raw string) error {
	if name == PlayerNameField {
		f.PlayerName = raw
		return nil
	}

	spec, ok := f.Field(name)
	if !ok {
		return ErrUnknownField
	}

	if spec.Numeric() {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			v = 0
		}
		f.Values[name] = spec.clamp(v)
		return nil
	}

	if raw != "" && !spec.HasOption(raw) {
		return &ValidationError{Field: name, Message: MsgInvalidOption}
	}
	f.Values[name] = raw
	return nil
}

// Increment adds one to a numeric field
func (f *Form) Increment(name string) error {
	return f.step(name, 1)
}

// Decrement subtracts one from a numeric field, never going below zero
func (f *Form) Decrement(name string) error {
	return f.step(name, -1)
}

func (f *Form) step(name string, delta float64) error {
	spec, ok := f.Field(name)
	if !ok || !spec.Numeric() {
		return ErrUnknownField
	}
	f.Values[name] = spec.clamp(f.Number(name) + delta)
	return nil
}

// Validate checks the synchronous submission rules
func (f *Form) Validate() error {
	if strings.TrimSpace(f.PlayerName) == "" {
		return &ValidationError{Field: PlayerNameField, Message: MsgPlayerNameRequired}
	}
	if f.ModelKey == "" {
		return &ValidationError{Field: "model_key", Message: MsgModelRequired}
	}
	return nil
}

// Payload validates the form and builds the request body. Stats holds every
// model field and never player_name.
func (f *Form) Payload() (models.PredictionPayload, error) {
	if err := f.Validate(); err != nil {
		return models.PredictionPayload{}, err
	}

	stats := make(map[string]any, len(f.Fields))
	for _, spec := range f.Fields {
		stats[spec.Name] = f.Values[spec.Name]
	}

	return models.PredictionPayload{
		PlayerName: f.PlayerName,
		ModelKey:   f.ModelKey,
		Stats:      stats,
	}, nil
}

// FormInput is one round of user edits coming from the browser
type FormInput struct {
	PlayerName *string
	Values     map[string]string
	// Op is "inc" or "dec" to step OpField instead of submitting
	Op      string
	OpField string
}

// Apply copies the input onto the form. The first invalid enumerated value is
// returned; the other fields are still applied.
func (in FormInput) Apply(f *Form) error {
	if in.PlayerName != nil {
		f.PlayerName = *in.PlayerName
	}

	var firstErr error
	for _, spec := range f.Fields {
		raw, ok := in.Values[spec.Name]
		if !ok {
			continue
		}
		if err := f.Set(spec.Name, raw); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	switch in.Op {
	case "inc":
		_ = f.Increment(in.OpField)
	case "dec":
		_ = f.Decrement(in.OpField)
	}
	return firstErr
}
