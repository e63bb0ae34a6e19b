package render

import (
	"fmt"
	"strings"
	"text/template"
)

// pageData binds one plugin to either template.
type pageData struct {
	Name      string
	ShortName string
	Kind      string
	Doc       map[string]any
	Examples  string
	Return    any
	Errors    []string
}

const fullTemplate = `{{template "header" .}}
{{with index .Doc "short_description"}}{{.}}{{end}}

{{range stringList (index .Doc "description")}}{{.}}
{{end}}
{{- if .Errors}}
.. note:: Errors were encountered while processing this plugin's documentation:
{{range .Errors}}
   - {{.}}
{{- end}}
{{end}}
{{- with index .Doc "deprecated"}}
DEPRECATED
----------
{{end}}
{{- with index .Doc "option_keys"}}{{if stringList .}}
Parameters
----------
{{range stringList .}}- {{.}}
{{end}}{{end}}{{end}}
{{- if .Examples}}
Examples
--------

::

{{indent .Examples}}
{{end}}
{{- if .Return}}
Return Values
-------------
{{template "returnvalues" .Return}}
{{- end}}
Authors
~~~~~~~
{{range stringList (index .Doc "author")}}- {{.}}
{{end}}`

const returnValuesTemplate = `{{define "returnvalues"}}
{{- range .}}
{{joinKey .FullKey}}{{with .Type}} ({{.}}){{end}}
{{- range .Description}}
   {{.}}
{{- end}}
{{- with .Returned}}
   returned: {{.}}
{{- end}}
{{- with .Contains}}{{template "returnvalues" .}}{{end}}
{{- end}}
{{end}}`

const insufficientTemplate = `{{template "header" .}}
Insufficient documentation
--------------------------

The documentation for this plugin could not be parsed.
{{if .Errors}}
Errors were encountered during processing:
{{range .Errors}}
- {{.}}
{{- end}}
{{else}}
No further detail was recorded.
{{end}}`

const headerTemplate = `{{define "header"}}.. _{{.Name}}_{{.Kind}}:

{{.Name}} -- {{.Kind}}
{{underline (printf "%s -- %s" .Name .Kind)}}{{end}}`

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"underline": func(s string) string {
			return strings.Repeat("=", len(s))
		},
		"indent": func(s string) string {
			lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = "   " + line
				}
			}
			return strings.Join(lines, "\n")
		},
		"joinKey": func(key []string) string {
			return strings.Join(key, "/")
		},
		// stringList tolerates both []string and decoded []any values
		// coming out of the doc map.
		"stringList": func(raw any) []string {
			switch v := raw.(type) {
			case []string:
				return v
			case []any:
				out := make([]string, 0, len(v))
				for _, item := range v {
					out = append(out, fmt.Sprint(item))
				}
				return out
			case string:
				return []string{v}
			case nil:
				return nil
			default:
				return []string{fmt.Sprint(v)}
			}
		},
	}
}

func parseTemplates() (full, insufficient *template.Template, err error) {
	full, err = template.New("plugin").Funcs(templateFuncs()).Parse(fullTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("render: parse plugin template: %w", err)
	}
	if _, err = full.Parse(headerTemplate); err != nil {
		return nil, nil, fmt.Errorf("render: parse header template: %w", err)
	}
	if _, err = full.Parse(returnValuesTemplate); err != nil {
		return nil, nil, fmt.Errorf("render: parse return values template: %w", err)
	}
	insufficient, err = template.New("plugin-error").Funcs(templateFuncs()).Parse(insufficientTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("render: parse error template: %w", err)
	}
	if _, err = insufficient.Parse(headerTemplate); err != nil {
		return nil, nil, fmt.Errorf("render: parse header template: %w", err)
	}
	return full, insufficient, nil
}
