package parser

import (
	"strings"

	"spellbook/internal/spell"
)

const (
	linearUnitPattern = `(yards?|yds?\.?|feet|foot|ft\.?|miles?|mi\.?|inch(?:es)?|in\.?|'|")`
	timeUnitPattern   = `(segments?|rounds?|rds?\.?|turns?|minutes?|mins?\.?|hours?|hrs?\.?|days?|weeks?|months?|years?|actions?|bonus actions?|reactions?)`
)

type linearUnit int

const (
	unitNone linearUnit = iota
	unitFeet
	unitYards
	unitMiles
	unitInches
)

func parseLinearUnit(token string) linearUnit {
	switch strings.TrimSuffix(strings.TrimSpace(token), ".") {
	case "ft", "foot", "feet", "'":
		return unitFeet
	case "yd", "yds", "yard", "yards":
		return unitYards
	case "mi", "mile", "miles":
		return unitMiles
	case "in", "inch", "inches", "\"":
		return unitInches
	}
	return unitNone
}

func (u linearUnit) rangeUnit() spell.RangeUnit {
	switch u {
	case unitFeet:
		return spell.RangeFeet
	case unitYards:
		return spell.RangeYards
	case unitMiles:
		return spell.RangeMiles
	case unitInches:
		return spell.RangeInches
	}
	return ""
}

func (u linearUnit) areaUnit() spell.AreaUnit {
	switch u {
	case unitFeet:
		return spell.AreaFeet
	case unitYards:
		return spell.AreaYards
	case unitMiles:
		return spell.AreaMiles
	case unitInches:
		return spell.AreaInches
	}
	return ""
}

func parseTimeUnit(token string) spell.TimeUnit {
	t := strings.TrimSuffix(strings.TrimSpace(token), ".")
	t = strings.TrimSuffix(t, "s")
	switch t {
	case "segment":
		return spell.UnitSegment
	case "round", "rd":
		return spell.UnitRound
	case "turn":
		return spell.UnitTurn
	case "minute", "min":
		return spell.UnitMinute
	case "hour", "hr":
		return spell.UnitHour
	case "day":
		return spell.UnitDay
	case "week":
		return spell.UnitWeek
	case "month":
		return spell.UnitMonth
	case "year":
		return spell.UnitYear
	case "action":
		return spell.UnitAction
	case "bonus action":
		return spell.UnitBonusAction
	case "reaction":
		return spell.UnitReaction
	}
	return ""
}
