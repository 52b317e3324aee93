// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yigit/studentrecords/internal/app/models/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap holds the helpers available to every template
var FuncMap = template.FuncMap{
	"pct": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"add": func(a, b int) int {
		return a + b
	},
	"share":      Share,
	"logPageURL": LogPageURL,
	"exportURL":  ExportURL,
}

// Share is part as a percentage of total, formatted for a CSS width
func Share(part, total int64) string {
	if total <= 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(part)*100/float64(total), 'f', 1, 64)
}

// Templates parses every embedded template; names are the file names
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Static serves the embedded assets under /static
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func logValues(q dto.StudentLogQuery) url.Values {
	v := url.Values{}
	if q.Course != "" {
		v.Set("course", q.Course)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// LogPageURL links to another page of the student log keeping the filters
func LogPageURL(q dto.StudentLogQuery, page int) string {
	v := logValues(q)
	v.Set("page", strconv.Itoa(page))
	return "/student-log/?" + v.Encode()
}

// ExportURL links to the spreadsheet of the filtered student log
func ExportURL(q dto.StudentLogQuery) string {
	v := logValues(q)
	if len(v) == 0 {
		return "/student-log/export/"
	}
	return "/student-log/export/?" + v.Encode()
}
