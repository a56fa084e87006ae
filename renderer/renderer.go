package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// funcs are available to every template.
var funcs = template.FuncMap{
	"code": code,
}

// RenderFilter renders the outcome of a formula to a markdown string.
func RenderFilter(f *Filter) string {
	partials := map[string]string{
		"filter_formula": "filter_formula.md",
		"filter_summary": "filter_summary.md",
		"filter_funds":   "filter_funds.md",
	}
	return renderTemplate("filter", "filter.md", partials, f)
}

// RenderPortfolio renders the recommended portfolio to a markdown string.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_entries":   "portfolio_entries.md",
		"portfolio_metrics":   "portfolio_metrics.md",
		"portfolio_breakdown": "portfolio_breakdown.md",
	}
	// An empty file name results in an empty template.
	if p.Profile == "" {
		partials["portfolio_breakdown"] = ""
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// code formats s as inline code, with a delimiter long enough for the
// backticks of quoted columns.
func code(s string) string {
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}
