package ics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Tapin42/heat-training/internal/adapters/ics"
	"github.com/Tapin42/heat-training/internal/domain/day"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func race(t *testing.T, s string) day.Date {
	t.Helper()
	d, err := day.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

// TestCalendar_SingleExposure checks the overall shape of a protocol 1 feed.
func TestCalendar_SingleExposure(t *testing.T) {
	out, err := ics.Calendar(race(t, "2024-08-10"), 1, fixedNow)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 13 {
		t.Errorf("event count = %d, want 13 (12 sessions + race day)", got)
	}
	for _, fragment := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"METHOD:PUBLISH",
		"SUMMARY:Race day",
		"SUMMARY:Heat bout (1/10)",
		"SUMMARY:Heat bout (10/10)",
		"SUMMARY:Maintenance (2/2)",
		"DTSTART;VALUE=DATE:20240722",
		"DTEND;VALUE=DATE:20240723",
		"DTSTART;VALUE=DATE:20240810",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("feed missing %q", fragment)
		}
	}
}

// TestCalendar_RepeatedExposure checks event counts for protocol 2.
func TestCalendar_RepeatedExposure(t *testing.T) {
	out, err := ics.Calendar(race(t, "2024-08-10"), 2, fixedNow)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 27 {
		t.Errorf("event count = %d, want 27 (26 sessions + race day)", got)
	}
	for _, fragment := range []string{
		"SUMMARY:Heat bout 1 (1/11)",
		"SUMMARY:Heat bout 2 (9/9)",
		"SUMMARY:Maintenance (6/6)",
		"DTSTART;VALUE=DATE:20240624",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("feed missing %q", fragment)
		}
	}
}

// TestCalendar_Deterministic verifies re-export yields the identical feed,
// UIDs included, so subscribed calendars update in place.
func TestCalendar_Deterministic(t *testing.T) {
	a, err := ics.Calendar(race(t, "2024-08-10"), 2, fixedNow)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	b, err := ics.Calendar(race(t, "2024-08-10"), 2, fixedNow)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if a != b {
		t.Error("feeds differ between exports of the same plan")
	}
}

// TestCalendar_DistinctUIDs verifies every event carries its own UID.
func TestCalendar_DistinctUIDs(t *testing.T) {
	out, err := ics.Calendar(race(t, "2024-08-10"), 2, fixedNow)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}

	seen := map[string]bool{}
	for _, line := range strings.Split(out, "\r\n") {
		if !strings.HasPrefix(line, "UID:") {
			continue
		}
		if seen[line] {
			t.Errorf("duplicate %s", line)
		}
		seen[line] = true
	}
	if len(seen) != 27 {
		t.Errorf("distinct UIDs = %d, want 27", len(seen))
	}
}

// TestCalendar_UnknownProtocol verifies protocol numbers outside 1..2 error.
func TestCalendar_UnknownProtocol(t *testing.T) {
	if _, err := ics.Calendar(race(t, "2024-08-10"), 3, fixedNow); err == nil {
		t.Error("expected error for protocol 3")
	}
}
