// Package layout renders the page shell shared by every dashboard view.
package layout

import (
	"html/template"
	"io"
)

// ContainerClass styles the full-viewport wrapper.
const ContainerClass = "min-h-screen"

const (
	containerOpen  = `<div class="` + ContainerClass + `">`
	containerClose = `</div>`
)

// Wrap places content inside exactly one full-viewport container. The content
// is trusted markup and is passed through byte for byte.
func Wrap(content template.HTML) template.HTML {
	return template.HTML(containerOpen) + content + template.HTML(containerClose)
}

// Page is a complete document: a title and the body content to wrap.
type Page struct {
	Title   string
	Content template.HTML
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Render writes p as an HTML document whose body is Wrap(p.Content).
func Render(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, struct {
		Title string
		Body  template.HTML
	}{Title: p.Title, Body: Wrap(p.Content)})
}
