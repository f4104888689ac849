// Package ics renders a protocol's session plan as an iCalendar feed so
// athletes can subscribe from their calendar app.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/Tapin42/heat-training/internal/domain/day"
	"github.com/Tapin42/heat-training/internal/domain/protocol"
)

const prodID = "-//heat-training//heatcal//EN"

const sessionDetails = "Session details: https://trainright.com/ultrarunners-heat-acclimation-cheat-sheet/"

// Calendar renders one protocol's plan for a race date as iCalendar text.
// Event UIDs are derived from the race date, protocol and session, so
// re-exporting the same plan updates events instead of duplicating them.
// PRE: race is non-zero; number is 1 or 2; now supplies DTSTAMP
// POST: Returns RFC 5545 text with one all-day VEVENT per session plus race day
func Calendar(race day.Date, number int, now time.Time) (string, error) {
	var sessions []protocol.Session
	var name string
	switch number {
	case 1:
		sessions = protocol.ScheduleSingle(race).Sessions()
		name = protocol.SingleExposureName
	case 2:
		sessions = protocol.ScheduleRepeated(race).Sessions()
		name = protocol.RepeatedExposureName
	default:
		return "", fmt.Errorf("unknown protocol %d", number)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	calName := fmt.Sprintf("%s (race %s)", name, race.Format(day.Format))
	cal.SetName(calName)
	cal.SetXWRCalName(calName)

	addAllDay(cal, now, eventUID(race, number, protocol.CategoryRace, race), race, protocol.CategoryRace.Label(), "")

	// Summaries carry the position within the category, e.g. "Heat bout (3/10)".
	totals := make(map[protocol.Category]int)
	for _, s := range sessions {
		totals[s.Category]++
	}
	seen := make(map[protocol.Category]int)
	for _, s := range sessions {
		seen[s.Category]++
		summary := fmt.Sprintf("%s (%d/%d)", s.Category.Label(), seen[s.Category], totals[s.Category])
		addAllDay(cal, now, eventUID(race, number, s.Category, s.Date), s.Date, summary, sessionDetails)
	}

	return cal.Serialize(), nil
}

func addAllDay(cal *ical.Calendar, now time.Time, uid string, d day.Date, summary, description string) {
	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(now.UTC())
	ev.SetAllDayStartAt(d.Time())
	// iCalendar all-day ends are exclusive.
	ev.SetAllDayEndAt(d.AddDays(1).Time())
	ev.SetSummary(summary)
	if description != "" {
		ev.SetDescription(description)
	}
}

func eventUID(race day.Date, number int, c protocol.Category, d day.Date) string {
	key := fmt.Sprintf("heat-training/protocol%d/%s/%s/%s", number, race.Format(day.Format), c, d.Format(day.Format))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
