package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Tapin42/heat-training/internal/application/orchestrators"
	"github.com/Tapin42/heat-training/internal/domain/day"
)

// handlePlanEmail emails the plan for a race date to one recipient
// (POST /plan/email). Accepts a form body (race, address) or a JSON body
// {"race": ..., "address": ...}.
// PRE: race parses as YYYY-MM-DD; an email sender is configured
// POST: One email sent; form posts redirect back to the plan with a flash state
func handlePlanEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	var raceRaw, address string
	isJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if isJSON {
		var body struct {
			Race    string `json:"race"`
			Address string `json:"address"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		raceRaw, address = body.Race, body.Address
	} else {
		raceRaw = strings.TrimSpace(r.FormValue("race"))
		address = strings.TrimSpace(r.FormValue("address"))
	}

	race, err := day.Parse(raceRaw)
	if err != nil {
		http.Error(w, msgBadDate, http.StatusBadRequest)
		return
	}
	raceParam := race.Format(day.Format)

	input := orchestrators.SendPlanEmailInput{Race: race, Address: address}
	deps := orchestrators.SendPlanEmailDeps{
		Sender:      emailSender,
		FromAddress: emailFromAddress,
		ReplyTo:     emailReplyTo,
		BaseURL:     baseURL,
	}

	result, err := orchestrators.ExecuteSendPlanEmail(ctx, input, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidAddress) {
			if isJSON {
				http.Error(w, "invalid email address", http.StatusBadRequest)
			} else {
				http.Redirect(w, r, "/plan?race="+raceParam+"&email=invalid", http.StatusSeeOther)
			}
			return
		}
		internalError(w, err)
		return
	}

	if isJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"message_id": result.MessageID})
		return
	}
	http.Redirect(w, r, "/plan?race="+raceParam+"&email=sent", http.StatusSeeOther)
}
