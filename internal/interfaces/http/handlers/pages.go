package handlers

import (
	"html/template"
	"io"
	"net/http"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/view"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>thumblens</title></head>
<body>
<h1>thumblens</h1>
<ul>
{{- range . }}
<li><a href="/views/{{ .Name }}">{{ .Title }}</a> (<a href="/api/views/{{ .Name }}">json</a>)</li>
{{- end }}
</ul>
</body></html>
`))

var galleryTmpl = template.Must(template.New("gallery").Funcs(template.FuncMap{
	"cell":  func(c normalize.Cell) string { return binding.FormatCell(binding.KindCount, c) },
	"ratio": func(c normalize.Cell) string { return binding.FormatCell(binding.KindRatio, c) },
	"prev":  func(p int) int { return p - 1 },
	"next":  func(p int) int { return p + 1 },
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{ .Title }}</title></head>
<body>
<h1>{{ .Title }}</h1>
<p>{{ .Data.Total }} thumbnails, page {{ .Data.Page }} of {{ .Data.Pages }}</p>
<table>
<tr><th></th><th>Title</th><th>Channel</th><th>Category</th><th>Year</th><th>Views</th><th>CTR</th></tr>
{{- range .Data.Rows }}
<tr>
<td><a href="/api/thumbnails/{{ .ID }}"><img src="{{ .ImageURL }}" width="160" alt=""></a></td>
<td>{{ .Title }}</td><td>{{ .Channel }}</td><td>{{ .Category }}</td>
<td>{{ .Year.String 0 }}</td><td>{{ cell .Views }}</td><td>{{ ratio .CTR }}</td>
</tr>
{{- end }}
</table>
{{- if gt .Data.Page 1 }}<a href="?page={{ prev .Data.Page }}">previous</a>{{ end }}
{{- if lt .Data.Page .Data.Pages }} <a href="?page={{ next .Data.Page }}">next</a>{{ end }}
</body></html>
`))

// Index handles GET /: links to every view.
func Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTmpl.Execute(w, Views)
}

func renderGallery(w io.Writer, title string, m view.ThumbnailsModel) error {
	return galleryTmpl.Execute(w, struct {
		Title string
		Data  view.ThumbnailsModel
	}{title, m})
}
