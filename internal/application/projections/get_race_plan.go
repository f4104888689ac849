package projections

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tapin42/heat-training/internal/domain/day"
	"github.com/Tapin42/heat-training/internal/domain/protocol"
)

// GetRacePlanQuery carries input for the race plan projection.
type GetRacePlanQuery struct {
	Race day.Date
}

// CalendarCell is one cell of a rendered month. Day 0 marks padding outside
// the month; Category is empty for untagged days.
type CalendarCell struct {
	Day      int
	Category string
}

// CalendarMonth is one month grid, weeks running Monday through Sunday.
type CalendarMonth struct {
	Year  int
	Month time.Month
	Title string // e.g. "August 2024"
	Weeks [][]CalendarCell
}

// SessionGroup is one category of sessions with its display label.
type SessionGroup struct {
	Category string
	Label    string
	Dates    []day.Date
}

// ProtocolView is everything a renderer needs to present one protocol.
type ProtocolView struct {
	Key         string // "protocol1" or "protocol2"
	Number      int
	Name        string
	Description string
	Groups      []SessionGroup
	Months      []CalendarMonth
}

// GetRacePlanResult carries the assembled plan for one race date.
type GetRacePlanResult struct {
	Race      day.Date
	RaceLabel string // e.g. "Saturday, 10 August 2024"
	Protocols []ProtocolView
}

// QueryGetRacePlan assembles the full view model for a race date: both
// protocols' session groups plus one calendar grid per month the plan
// touches. Pure computation, deterministic for a given race date; the
// caller validates the race date before calling.
func QueryGetRacePlan(query GetRacePlanQuery) GetRacePlanResult {
	race := query.Race
	single := protocol.ScheduleSingle(race)
	repeated := protocol.ScheduleRepeated(race)

	p1 := ProtocolView{
		Key:         "protocol1",
		Number:      1,
		Name:        protocol.SingleExposureName,
		Description: "One ten-day bout of daily heat exposure ending ten days before the race, followed by maintenance sessions seven and five days out.",
		Groups: []SessionGroup{
			group(protocol.CategoryBout, single.Bout),
			group(protocol.CategoryMaintenance, single.Maintenance),
		},
	}
	p1.Months = monthGrids(race, sessionDates(single.Sessions()), []CategorySet{
		{Category: string(protocol.CategoryBout), Dates: day.NewSet(single.Bout...)},
		{Category: string(protocol.CategoryMaintenance), Dates: day.NewSet(single.Maintenance...)},
	})

	p2 := ProtocolView{
		Key:         "protocol2",
		Number:      2,
		Name:        protocol.RepeatedExposureName,
		Description: "Two heat bouts about five weeks apart, bridged by two maintenance sessions per week and tapering off just before the race.",
		Groups: []SessionGroup{
			group(protocol.CategoryBoutOne, repeated.BoutOne),
			group(protocol.CategoryMaintenance, repeated.Maintenance),
			group(protocol.CategoryBoutTwo, repeated.BoutTwo),
		},
	}
	p2.Months = monthGrids(race, sessionDates(repeated.Sessions()), []CategorySet{
		{Category: string(protocol.CategoryBoutOne), Dates: day.NewSet(repeated.BoutOne...)},
		{Category: string(protocol.CategoryMaintenance), Dates: day.NewSet(repeated.Maintenance...)},
		{Category: string(protocol.CategoryBoutTwo), Dates: day.NewSet(repeated.BoutTwo...)},
	})

	return GetRacePlanResult{
		Race:      race,
		RaceLabel: race.Format("Monday, 2 January 2006"),
		Protocols: []ProtocolView{p1, p2},
	}
}

// CategorySet pairs a category with its dates. Where BuildMonth takes
// several, slice order is the display precedence after the race-day check.
type CategorySet struct {
	Category string
	Dates    day.Set
}

// BuildMonth renders one month grid. Each in-month day gets the first
// category that claims it: the race date always wins, then the sets in
// order; days claimed by nothing stay untagged.
// PRE: month is a valid time.Month
// POST: Weeks mirror day.MonthWeeks; padding cells have Day 0 and no category
func BuildMonth(year int, month time.Month, race day.Date, sets []CategorySet) CalendarMonth {
	weeks := day.MonthWeeks(year, month)
	out := make([][]CalendarCell, 0, len(weeks))
	for _, week := range weeks {
		row := make([]CalendarCell, 0, 7)
		for _, num := range week {
			if num == 0 {
				row = append(row, CalendarCell{})
				continue
			}
			cell := CalendarCell{Day: num}
			date := day.New(year, month, num)
			if date == race {
				cell.Category = string(protocol.CategoryRace)
			} else {
				for _, cs := range sets {
					if cs.Dates.Contains(date) {
						cell.Category = cs.Category
						break
					}
				}
			}
			row = append(row, cell)
		}
		out = append(out, row)
	}
	return CalendarMonth{
		Year:  year,
		Month: month,
		Title: fmt.Sprintf("%s %d", month, year),
		Weeks: out,
	}
}

// monthKey identifies one (year, month) grid to render.
type monthKey struct {
	year  int
	month time.Month
}

// monthsToShow returns the distinct months touched by the sessions plus the
// race month, ascending. Never more, never fewer.
func monthsToShow(sessions []day.Date, race day.Date) []monthKey {
	seen := map[monthKey]struct{}{
		{race.Year, race.Month}: {},
	}
	for _, d := range sessions {
		seen[monthKey{d.Year, d.Month}] = struct{}{}
	}

	keys := make([]monthKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	return keys
}

func monthGrids(race day.Date, sessions []day.Date, sets []CategorySet) []CalendarMonth {
	months := monthsToShow(sessions, race)
	grids := make([]CalendarMonth, 0, len(months))
	for _, mk := range months {
		grids = append(grids, BuildMonth(mk.year, mk.month, race, sets))
	}
	return grids
}

func sessionDates(sessions []protocol.Session) []day.Date {
	out := make([]day.Date, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Date)
	}
	return out
}

func group(c protocol.Category, dates []day.Date) SessionGroup {
	return SessionGroup{Category: string(c), Label: c.Label(), Dates: dates}
}
