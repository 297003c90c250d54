package web

import (
	"html/template"
	"strings"
	"time"

	"github.com/mytheresa/content-portal/app/forms"
)

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"date":       formatDate,
	"linebreaks": linebreaks,
	"fieldError": fieldError,
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan. 2, 2006, 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	default:
		return ""
	}
}

// linebreaks escapes text and turns blank-line separated blocks into paragraphs and
// single newlines into <br>.
func linebreaks(text string) template.HTML {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, l := range lines {
			lines[i] = template.HTMLEscapeString(l)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}

func fieldError(errs forms.Errors, field string) string {
	if errs == nil {
		return ""
	}
	return errs.First(field)
}
