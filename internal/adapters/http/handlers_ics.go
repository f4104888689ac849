package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Tapin42/heat-training/internal/adapters/ics"
	"github.com/Tapin42/heat-training/internal/domain/day"
)

// handlePlanICS serves one protocol's plan as an iCalendar download
// (GET /plan.ics?race=YYYY-MM-DD&protocol=1|2).
// PRE: race parses as YYYY-MM-DD; protocol is 1 or 2
// POST: Responds with a text/calendar attachment holding every session plus race day
func handlePlanICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	race, err := day.Parse(r.URL.Query().Get("race"))
	if err != nil {
		http.Error(w, msgBadDate, http.StatusBadRequest)
		return
	}
	number, err := strconv.Atoi(r.URL.Query().Get("protocol"))
	if err != nil || (number != 1 && number != 2) {
		http.Error(w, "protocol must be 1 or 2", http.StatusBadRequest)
		return
	}

	feed, err := ics.Calendar(race, number, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	raceParam := race.Format(day.Format)
	filename := fmt.Sprintf("heat-plan-protocol%d-%s.ics", number, raceParam)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(feed))

	slog.Info("plan_ics_exported", "race", raceParam, "protocol", number)
}
