package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed ui/index.html
var indexPageRaw string

var indexPage = template.Must(template.New("index").Parse(indexPageRaw))

// uiHandler serves the single-page UI. It talks to the JSON API, so the
// page itself needs no authentication.
func (s *Server) uiHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexPage.Execute(&buf, struct {
		Version   string
		Container string
	}{Version: s.Version, Container: s.Container})
	if err != nil {
		s.Logger.LogError(err, "Failed to render UI")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
