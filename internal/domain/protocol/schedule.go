package protocol

import (
	"time"

	"github.com/Tapin42/heat-training/internal/domain/day"
)

// The offset tables below are domain constants from the cheat sheet, not
// configuration. Day counts are calendar days before race day unless a
// comment says otherwise.

// Protocol 1 (single exposure): one consecutive bout, then two top-up sessions.
const (
	// BoutStartDaysOut is the first bout session, days before race day.
	BoutStartDaysOut = 19
	// BoutLength is the number of consecutive daily bout sessions.
	BoutLength = 10
)

// MaintenanceDaysOut lists the protocol 1 maintenance sessions.
var MaintenanceDaysOut = []int{7, 5}

// Protocol 2 (repeated exposure). The cheat sheet draws its pattern for a
// Saturday race; WeekdayOffset shifts bout 1 and the maintenance weeks so
// the pattern tracks the actual race weekday. Bout 2 hangs directly off the
// race date and never shifts.
const (
	// ReferenceWeekday is the race weekday the cheat sheet pattern assumes.
	ReferenceWeekday = time.Saturday
	// BoutOneWeeksOut is how many weeks before the race bout 1's week sits.
	BoutOneWeeksOut = 6
)

// BoutOneOffsets are day offsets from the bout 1 block start: 11 sessions
// across a 14-day span with 3 rest days worked in.
var BoutOneOffsets = []int{0, 1, 3, 4, 5, 7, 8, 10, 11, 12, 13}

// MaintenanceWeeksOut lists which weeks before the race carry maintenance sessions.
var MaintenanceWeeksOut = []int{4, 3, 2}

// MaintenanceWeekOffsets are the session days within each maintenance week,
// counted from that week's (shifted) Monday.
var MaintenanceWeekOffsets = []int{2, 5}

// BoutTwoLeadDaysOut mirrors the bout 1 week 2 on/off pattern.
var BoutTwoLeadDaysOut = []int{12, 11, 9, 8, 7, 6}

// BoutTwoTaperDaysOut are the tapered final sessions before the race.
var BoutTwoTaperDaysOut = []int{5, 4, 2}

// WeekdayOffset returns the day shift that aligns the cheat sheet pattern
// with the race weekday, counting weekdays from Monday=0. A Saturday race
// gives 0; a Thursday race gives -2 (the whole block starts 2 days earlier).
func WeekdayOffset(race day.Date) int {
	raceIdx := (int(race.Weekday()) + 6) % 7
	refIdx := (int(ReferenceWeekday) + 6) % 7
	return raceIdx - refIdx
}

// ScheduleSingle computes the protocol 1 sessions for a race date.
// PRE: race is a valid date
// POST: Bout holds BoutLength consecutive dates ending 10 days before race;
// Maintenance holds one date per MaintenanceDaysOut entry
func ScheduleSingle(race day.Date) SingleExposure {
	first := race.AddDays(-BoutStartDaysOut)
	bout := make([]day.Date, 0, BoutLength)
	for i := 0; i < BoutLength; i++ {
		bout = append(bout, first.AddDays(i))
	}

	maintenance := make([]day.Date, 0, len(MaintenanceDaysOut))
	for _, d := range MaintenanceDaysOut {
		maintenance = append(maintenance, race.AddDays(-d))
	}

	return SingleExposure{Race: race, Bout: bout, Maintenance: maintenance}
}

// ScheduleRepeated computes the protocol 2 sessions for a race date.
// PRE: race is a valid date
// POST: BoutOne holds 11 dates, Maintenance 6, BoutTwo 9, each ascending
func ScheduleRepeated(race day.Date) RepeatedExposure {
	offset := WeekdayOffset(race)

	blockStart := race.AddDays(-BoutOneWeeksOut * 7).WeekMonday().AddDays(offset)
	boutOne := make([]day.Date, 0, len(BoutOneOffsets))
	for _, i := range BoutOneOffsets {
		boutOne = append(boutOne, blockStart.AddDays(i))
	}

	maintenance := make([]day.Date, 0, len(MaintenanceWeeksOut)*len(MaintenanceWeekOffsets))
	for _, weeksOut := range MaintenanceWeeksOut {
		weekStart := race.AddDays(-weeksOut * 7).WeekMonday().AddDays(offset)
		for _, i := range MaintenanceWeekOffsets {
			maintenance = append(maintenance, weekStart.AddDays(i))
		}
	}

	boutTwo := make([]day.Date, 0, len(BoutTwoLeadDaysOut)+len(BoutTwoTaperDaysOut))
	for _, d := range BoutTwoLeadDaysOut {
		boutTwo = append(boutTwo, race.AddDays(-d))
	}
	for _, d := range BoutTwoTaperDaysOut {
		boutTwo = append(boutTwo, race.AddDays(-d))
	}

	return RepeatedExposure{Race: race, BoutOne: boutOne, Maintenance: maintenance, BoutTwo: boutTwo}
}
