package wizard

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/pkg/validation"
)

// Field names shared by every listing type.
const (
	FieldLocation    = "location"
	FieldCity        = "city"
	FieldState       = "state"
	FieldPostalCode  = "pincode"
	FieldPrice       = "price"
	FieldContact     = "contactNumber"
	FieldEmail       = "email"
	FieldAmenities   = "amenities"
	FieldImages      = "images"
	FieldCoordinates = "coordinates"
)

// Errors maps field name to a human-readable message. A missing key means valid.
type Errors map[string]string

// Fields returns the invalid field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RuleKind selects the check a Rule performs.
type RuleKind int

const (
	Required RuleKind = iota
	MinNumber
	Email
	NonEmptyList
	HasImages
)

// Rule is one declarative check on one field.
type Rule struct {
	Field          string
	Kind           RuleKind
	Min            float64
	Message        string
	InvalidMessage string // Email: message for a present but malformed value
}

// Step is one page of the wizard.
type Step struct {
	Label  string
	Fields []string
	Rules  []Rule
}

// Validate runs every rule of the step against d. All rules run; there is no short-circuit.
func (s Step) Validate(d *Draft) Errors {
	errs := Errors{}
	for _, r := range s.Rules {
		if msg, ok := r.check(d); !ok {
			if _, exists := errs[r.Field]; !exists {
				errs[r.Field] = msg
			}
		}
	}
	return errs
}

func (r Rule) check(d *Draft) (string, bool) {
	v := d.Fields[r.Field]
	switch r.Kind {
	case Required:
		return r.Message, !isBlank(v)
	case MinNumber:
		f, ok := toFloat(v)
		return r.Message, ok && f >= r.Min
	case Email:
		s := strings.TrimSpace(asString(v))
		if s == "" {
			return r.Message, false
		}
		msg := r.InvalidMessage
		if msg == "" {
			msg = r.Message
		}
		return msg, validation.IsValidEmail(s)
	case NonEmptyList:
		return r.Message, len(toList(v)) > 0
	case HasImages:
		return r.Message, d.Images.Len() > 0
	}
	return "", true
}

// Schema configures the engine for one listing type.
type Schema struct {
	Type               string
	Endpoint           string
	TitleField         string
	CategoryField      string
	Steps              []Step
	ArrayFields        []string
	ImageLimit         int
	RequireCoordinates bool
	MergePolicy        geo.MergePolicy
}

// TotalSteps returns the number of steps.
func (s *Schema) TotalSteps() int {
	return len(s.Steps)
}

// IsArrayField reports whether name holds a multi-select value.
func (s *Schema) IsArrayField(name string) bool {
	for _, f := range s.ArrayFields {
		if f == name {
			return true
		}
	}
	return false
}

// step returns the 1-based step n, or false when out of range.
func (s *Schema) step(n int) (Step, bool) {
	if n < 1 || n > len(s.Steps) {
		return Step{}, false
	}
	return s.Steps[n-1], true
}

func isBlank(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	case []interface{}:
		return len(x) == 0
	}
	return false
}

func asString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	}
	return ""
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func toList(v interface{}) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// AsString renders a field value as text.
func AsString(v interface{}) string { return asString(v) }

// AsFloat parses a numeric field value.
func AsFloat(v interface{}) (float64, bool) { return toFloat(v) }

// AsList returns a multi-select field value as strings.
func AsList(v interface{}) []string { return toList(v) }
