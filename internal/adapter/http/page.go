package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Title          string
	Options        pipeline.OptionSet
	RefreshSeconds int
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := pageData{
		Title:          "Datos en Tiempo Real de los Terremotos en Puerto Rico y en el Mundo",
		Options:        pipeline.Options(),
		RefreshSeconds: int(s.refreshInterval.Seconds()),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render index page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
