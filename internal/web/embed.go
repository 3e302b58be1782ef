package web

import (
	"embed"
	"html/template"
	"io/fs"

	"smtm/internal/shared/money"
)

//go:embed *.html
var files embed.FS

// FS provides access to embedded web files
var FS fs.FS = files

var funcs = template.FuncMap{
	"money": money.Format,
}

// Templates holds the server-rendered pages, addressed by file name.
var Templates = template.Must(template.New("").Funcs(funcs).ParseFS(files, "*.html"))
