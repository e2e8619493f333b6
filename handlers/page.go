package handlers

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/giygas/disease-dashboard/dashboard"
	"github.com/giygas/disease-dashboard/logging"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// pageData feeds the dashboard template. At most one of Message, Fault
// and View is set; none of them means idle.
type pageData struct {
	Disease    string
	Message    string // the designated malformed-reply message
	Fault      string // generic text for every other failure
	View       *dashboard.View
	BarChart   template.URL
	PieChart   template.URL
	ReportJSON string
}

// pngDataURI inlines a PNG so the page needs no second request
func pngDataURI(png []byte) template.URL {
	if png == nil {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// renderPage executes the template into a buffer first so a template
// failure never leaves a half-written page
func renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.Error("Failed to render dashboard page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
