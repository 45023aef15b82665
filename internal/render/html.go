package render

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("render").Parse(`{{define "row"}}
{{- if eq .State "ready" -}}
<div class="graph-row">
{{- range $i, $box := .Row.Boxes}}
{{- if $i}}<div class="graph-arrow">{{$.Row.Separator}}</div>{{end -}}
<div class="graph-node"><div class="graph-node-name">{{$box.Name}}</div><div class="graph-node-type">{{$box.Type}}</div></div>
{{- end -}}
</div>
{{- else -}}
<p><em>{{.Message}}</em></p>
{{- end -}}
{{end}}
{{- define "page" -}}
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.graph-row{display:flex;align-items:center;gap:.5rem;flex-wrap:wrap}
.graph-node{border:1px solid #999;border-radius:6px;padding:.5rem .75rem;text-align:center}
.graph-node-name{font-weight:600}
.graph-node-type{color:#666;font-size:.85em}
.graph-arrow{font-size:1.25em}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="graph-container">{{template "row" .View}}</div>
</body>
</html>
{{end}}`))

// HTML writes the view as an HTML fragment.
func HTML(w io.Writer, view View) error {
	return pageTemplate.ExecuteTemplate(w, "row", view)
}

// Page writes a standalone HTML document containing the view.
func Page(w io.Writer, title string, view View) error {
	return pageTemplate.ExecuteTemplate(w, "page", struct {
		Title string
		View  View
	}{Title: title, View: view})
}
