// Package payload describes which fields of an upstream JSON document are
// required and which are optional, and extracts them in one pass.
package payload

import (
	"strings"

	"github.com/kih-api/automation/internal/model"
	"github.com/kih-api/automation/internal/tools"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

type Field struct {
	Name     string
	Path     string
	Required bool
}

func Required(name, path string) Field {
	return Field{Name: name, Path: path, Required: true}
}

func Optional(name, path string) Field {
	return Field{Name: name, Path: path}
}

type Values struct {
	values map[string]gjson.Result
}

// Extract reads every field of schema from doc. All missing required fields are
// reported together in a single *model.DataUnavailableError.
func Extract(source string, doc gjson.Result, schema ...Field) (Values, error) {
	v := Values{values: make(map[string]gjson.Result, len(schema))}

	var missing []string
	for _, f := range schema {
		r := doc.Get(f.Path)
		if !present(r) {
			if f.Required {
				missing = append(missing, f.Name)
			}
			continue
		}
		v.values[f.Name] = r
	}

	if len(missing) > 0 {
		return Values{}, &model.DataUnavailableError{Source: source, Missing: missing}
	}
	return v, nil
}

func present(r gjson.Result) bool {
	if !r.Exists() || r.Type == gjson.Null {
		return false
	}
	return r.Type != gjson.String || strings.TrimSpace(r.Str) != ""
}

func (v Values) Has(name string) bool {
	_, ok := v.values[name]
	return ok
}

func (v Values) String(name string) string {
	return v.values[name].String()
}

func (v Values) Int(name string) int64 {
	return v.values[name].Int()
}

// Strings splits a delimited string field, or returns the elements of an array field.
func (v Values) Strings(name, sep string) []string {
	r, ok := v.values[name]
	if !ok {
		return nil
	}
	if r.IsArray() {
		var out []string
		for _, e := range r.Array() {
			out = append(out, e.String())
		}
		return out
	}

	var out []string
	for _, s := range strings.Split(r.String(), sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Decimal parses an optional numeric field after applying cleaners to its raw
// text. Absent or unparseable values yield an invalid NullDecimal.
func (v Values) Decimal(name string, cleaners ...func(string) string) decimal.NullDecimal {
	r, ok := v.values[name]
	if !ok {
		return decimal.NullDecimal{}
	}

	raw := r.String()
	for _, clean := range cleaners {
		raw = clean(raw)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// SuffixedDecimal parses values such as "2.87T" or "350M".
func (v Values) SuffixedDecimal(name string) decimal.NullDecimal {
	r, ok := v.values[name]
	if !ok {
		return decimal.NullDecimal{}
	}
	d, err := tools.ParseSuffixedNumber(r.String())
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func TrimPrefixes(prefixes ...string) func(string) string {
	return func(s string) string {
		for _, p := range prefixes {
			s = strings.TrimPrefix(s, p)
		}
		return s
	}
}

func TrimSuffix(suffix string) func(string) string {
	return func(s string) string {
		return strings.TrimSuffix(strings.TrimSpace(s), suffix)
	}
}
