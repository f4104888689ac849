package web

import (
	"net/http"
	"os"
)

// handleGuide renders the heat acclimation guide from its markdown source
// (GET /guide).
func handleGuide(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	md, err := os.ReadFile(guidePath)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "guide.html", map[string]any{"Markdown": string(md)})
}
