package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/mail"

	"github.com/Tapin42/heat-training/internal/adapters/email"
	"github.com/Tapin42/heat-training/internal/application/projections"
	"github.com/Tapin42/heat-training/internal/domain/day"
)

// ErrInvalidAddress reports a recipient that does not parse as an email address.
var ErrInvalidAddress = errors.New("invalid email address")

// SendPlanEmailInput carries input for emailing a race plan.
type SendPlanEmailInput struct {
	Race    day.Date
	Address string
}

// SendPlanEmailDeps holds dependencies for SendPlanEmail.
type SendPlanEmailDeps struct {
	Sender      email.Sender
	FromAddress string // Default from address
	ReplyTo     string // Reply-to address
	BaseURL     string // Absolute site root for links in the email body
}

var planEmailTmpl = template.Must(template.New("plan_email").Parse(`<h1>Heat acclimation plan</h1>
<p>Race day: <strong>{{.RaceLabel}}</strong></p>
{{range .Protocols}}<h2>{{.Name}}</h2>
<p>{{.Description}}</p>
{{range .Groups}}<h3>{{.Label}}</h3>
<ul>
{{range .Dates}}<li>{{.Label}}</li>
{{end}}</ul>
{{end}}{{end}}<p><a href="{{.BaseURL}}/plan?race={{.Race}}">View the full calendar</a></p>
<p>Session details: <a href="https://trainright.com/ultrarunners-heat-acclimation-cheat-sheet/">heat acclimation cheat sheet</a></p>
`))

type planEmailData struct {
	RaceLabel string
	Race      string
	BaseURL   string
	Protocols []projections.ProtocolView
}

// ExecuteSendPlanEmail renders the session dates for both protocols and
// emails them to a single recipient.
// PRE: Race is non-zero; Address parses as an email address; Sender is configured
// POST: Exactly one email is delivered to Address
func ExecuteSendPlanEmail(ctx context.Context, input SendPlanEmailInput, deps SendPlanEmailDeps) (email.SendResult, error) {
	if input.Race.IsZero() {
		return email.SendResult{}, errors.New("race date is required")
	}
	addr, err := mail.ParseAddress(input.Address)
	if err != nil {
		return email.SendResult{}, ErrInvalidAddress
	}

	plan := projections.QueryGetRacePlan(projections.GetRacePlanQuery{Race: input.Race})

	var body bytes.Buffer
	data := planEmailData{
		RaceLabel: plan.RaceLabel,
		Race:      input.Race.Format(day.Format),
		BaseURL:   deps.BaseURL,
		Protocols: plan.Protocols,
	}
	if err := planEmailTmpl.Execute(&body, data); err != nil {
		return email.SendResult{}, fmt.Errorf("render plan email: %w", err)
	}

	req := email.SendRequest{
		To:      []string{addr.Address},
		From:    deps.FromAddress,
		Subject: "Heat training plan for " + plan.RaceLabel,
		HTML:    body.String(),
		ReplyTo: deps.ReplyTo,
	}
	res, err := deps.Sender.Send(ctx, req)
	if err != nil {
		return email.SendResult{}, err
	}

	slog.Info("email_event", "event", "plan_email_sent", "race", data.Race, "to", addr.Address, "message_id", res.MessageID)
	return res, nil
}
