package gen

import "text/template"

var typeTemplate = template.Must(template.New("type").Parse(`// Code generated by display-generator. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})

// {{.Var}} is the display definition of {{.Name}}.
//
// Bounds: {{.Bounds}}
var {{.Var}} = schema.MustParseType({{.Schema}})

func {{.Var}}Options() []display.Option {
	return []display.Option{
{{- range .Variants}}
		display.WithVariant({{printf "%q" .Name}}, {{.Proto}}),
{{- end}}
{{- range .Capabilities}}
		display.WithCapability({{printf "%q" .Name}}, {{.Expr}}),
{{- end}}
{{- range .Types}}
		display.WithTypes({{.}}),
{{- end}}
	}
}
{{if .Register}}
func init() {
	display.Register[{{.GoType}}]({{.Var}}, {{.Var}}Options()...)
}
{{end}}
{{- if .Methods}}
// String returns the display text of v.
func (v {{.GoType}}{{.TypeArgs}}) String() string {
	return display.Format({{.Var}}, v, {{.Var}}Options()...)
}

// MarshalText implements encoding.TextMarshaler.
func (v {{.GoType}}{{.TypeArgs}}) MarshalText() ([]byte, error) {
	c, err := display.Cached[{{.GoType}}{{.TypeArgs}}]({{.Var}}, {{.Var}}Options()...)
	if err != nil {
		return nil, err
	}

	s, err := c.Render(v)
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *{{.GoType}}{{.TypeArgs}}) UnmarshalText(text []byte) error {
	parsed, err := Parse{{.Name}}{{.TypeArgs}}(string(text))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}
{{else}}
// Format{{.Name}} returns the display text of v.
func Format{{.Name}}{{.TypeParams}}(v {{.GoType}}{{.TypeArgs}}) string {
	return display.Format[{{.GoType}}{{.TypeArgs}}]({{.Var}}, v, {{.Var}}Options()...)
}
{{range .Stringers}}
// String returns the display text of v as a {{$.Name}}.
func (v {{.}}) String() string {
	return Format{{$.Name}}(v)
}
{{end}}
{{- end}}
// Parse{{.Name}} parses the display text of a {{.Name}}.
func Parse{{.Name}}{{.TypeParams}}(s string) ({{.GoType}}{{.TypeArgs}}, error) {
	return display.ParseText[{{.GoType}}{{.TypeArgs}}]({{.Var}}, s, {{.Var}}Options()...)
}
`))
