package report

import "github.com/grocerly/reports-manager/internal/entity"

// UnitForSpan picks a bucket granularity from the inclusive day count of a
// range, so short windows chart per day and long ones roll up.
func UnitForSpan(days int) entity.BucketUnit {
	switch {
	case days < 14:
		return entity.UnitDay
	case days < 30:
		return entity.UnitWeek
	case days < 365:
		return entity.UnitMonth
	}
	return entity.UnitYear
}

// UnitForTimeframe applies the to-date preset overrides on top of a computed
// or explicitly requested unit. The overrides win even over an explicit unit,
// matching how the dashboard has always charted wtd/mtd per day and ytd per
// week.
func UnitForTimeframe(tf entity.Timeframe, unit entity.BucketUnit) entity.BucketUnit {
	switch tf {
	case entity.TimeframeWTD, entity.TimeframeMTD:
		return entity.UnitDay
	case entity.TimeframeYTD:
		return entity.UnitWeek
	}
	return unit
}
