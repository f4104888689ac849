// Package protocol computes heat-acclimation session dates from a race
// date, following the two fixed patterns in TrainRight's ultrarunners'
// heat-acclimation cheat sheet
// (https://trainright.com/ultrarunners-heat-acclimation-cheat-sheet/).
package protocol

import (
	"sort"

	"github.com/Tapin42/heat-training/internal/domain/day"
)

// Category tags a scheduled calendar day.
type Category string

const (
	CategoryRace        Category = "race"
	CategoryBout        Category = "bout"
	CategoryMaintenance Category = "maintenance"
	CategoryBoutOne     Category = "bout1"
	CategoryBoutTwo     Category = "bout2"
)

// Label returns the display name for a category.
func (c Category) Label() string {
	switch c {
	case CategoryRace:
		return "Race day"
	case CategoryBout:
		return "Heat bout"
	case CategoryMaintenance:
		return "Maintenance"
	case CategoryBoutOne:
		return "Heat bout 1"
	case CategoryBoutTwo:
		return "Heat bout 2"
	}
	return string(c)
}

// Display names for the two protocols.
const (
	SingleExposureName   = "Protocol 1: Single Exposure"
	RepeatedExposureName = "Protocol 2: Repeated Exposure"
)

// Session is one scheduled heat-exposure day.
type Session struct {
	Date     day.Date
	Category Category
}

// SingleExposure holds protocol 1's computed session dates.
// Each slice is in ascending date order.
type SingleExposure struct {
	Race        day.Date
	Bout        []day.Date
	Maintenance []day.Date
}

// Sessions returns the plan's dated sessions in ascending date order.
func (p SingleExposure) Sessions() []Session {
	s := make([]Session, 0, len(p.Bout)+len(p.Maintenance))
	for _, d := range p.Bout {
		s = append(s, Session{Date: d, Category: CategoryBout})
	}
	for _, d := range p.Maintenance {
		s = append(s, Session{Date: d, Category: CategoryMaintenance})
	}
	sortSessions(s)
	return s
}

// RepeatedExposure holds protocol 2's computed session dates.
// Each slice is in ascending date order.
type RepeatedExposure struct {
	Race        day.Date
	BoutOne     []day.Date
	Maintenance []day.Date
	BoutTwo     []day.Date
}

// Sessions returns the plan's dated sessions in ascending date order.
func (p RepeatedExposure) Sessions() []Session {
	s := make([]Session, 0, len(p.BoutOne)+len(p.Maintenance)+len(p.BoutTwo))
	for _, d := range p.BoutOne {
		s = append(s, Session{Date: d, Category: CategoryBoutOne})
	}
	for _, d := range p.Maintenance {
		s = append(s, Session{Date: d, Category: CategoryMaintenance})
	}
	for _, d := range p.BoutTwo {
		s = append(s, Session{Date: d, Category: CategoryBoutTwo})
	}
	sortSessions(s)
	return s
}

func sortSessions(s []Session) {
	sort.Slice(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
}
