package storefrontserver

import (
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed views
var viewsFS embed.FS

var viewFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
}

// loadViews parses every view. Templates are named by their define blocks,
// e.g. "shop/index" or "errors/404".
func loadViews() (*template.Template, error) {
	return template.New("views").Funcs(viewFuncs).ParseFS(viewsFS, "views/*/*.tmpl")
}
