package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Tapin42/heat-training/internal/application/projections"
	"github.com/Tapin42/heat-training/internal/domain/day"
)

// Validation messages shown on the race date form.
const (
	msgMissingDate = "Please enter a race date."
	msgBadDate     = "Invalid date format. Use YYYY-MM-DD."
)

// handleIndex renders the race date form (GET /).
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "index.html", map[string]any{"Error": "", "Value": ""})
}

// handlePlan accepts the race date form (POST /plan) and shows the computed
// plan (GET /plan?race=YYYY-MM-DD). Successful submissions redirect to the
// GET URL so plans are bookmarkable and refresh-safe.
// PRE: race date, when present, is YYYY-MM-DD
// POST: Renders both protocols' calendars, or the form with a validation message
func handlePlan(w http.ResponseWriter, r *http.Request) {
	isHTML := isHTMLRequest(r)

	switch r.Method {
	case "POST":
		raw := strings.TrimSpace(r.FormValue("race_date"))
		if raw == "" {
			renderTemplate(w, r, "index.html", map[string]any{"Error": msgMissingDate, "Value": ""})
			return
		}
		race, err := day.Parse(raw)
		if err != nil {
			renderTemplate(w, r, "index.html", map[string]any{"Error": msgBadDate, "Value": raw})
			return
		}
		http.Redirect(w, r, "/plan?race="+race.Format(day.Format), http.StatusSeeOther)

	case "GET":
		raw := r.URL.Query().Get("race")
		if raw == "" {
			if isHTML {
				renderTemplate(w, r, "index.html", map[string]any{"Error": msgMissingDate, "Value": ""})
			} else {
				http.Error(w, msgMissingDate, http.StatusBadRequest)
			}
			return
		}
		race, err := day.Parse(raw)
		if err != nil {
			if isHTML {
				renderTemplate(w, r, "index.html", map[string]any{"Error": msgBadDate, "Value": raw})
			} else {
				http.Error(w, msgBadDate, http.StatusBadRequest)
			}
			return
		}

		result := projections.QueryGetRacePlan(projections.GetRacePlanQuery{Race: race})

		if !isHTML {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(result)
			return
		}
		renderTemplate(w, r, "plan.html", map[string]any{
			"Plan":       result,
			"RaceParam":  race.Format(day.Format),
			"EmailState": r.URL.Query().Get("email"),
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
