package report

import (
	"fmt"

	"github.com/grocerly/reports-manager/internal/entity"
)

// MySQL label expressions per bucket unit, applied to orders.created_at in
// the session timezone. Date buckets label with epoch seconds of the bucket
// start; week-weekend and am-pm label with categorical tags.
const (
	labelHour  = `FLOOR(UNIX_TIMESTAMP(DATE_FORMAT(orders.created_at, '%Y-%m-%d %H:00:00')))`
	labelDay   = `UNIX_TIMESTAMP(DATE(created_at))`
	labelWeek  = `UNIX_TIMESTAMP(SUBDATE(DATE(created_at), DAYOFWEEK(created_at) - 1))`
	labelMonth = `UNIX_TIMESTAMP(SUBDATE(DATE(created_at), DAYOFMONTH(created_at) - 1))`
	labelYear  = `UNIX_TIMESTAMP(MAKEDATE(YEAR(created_at), 1))`

	labelWeekWeekend = `IF (DAYOFWEEK(created_at) = 1 OR DAYOFWEEK(created_at) = 7, 'weekend', 'weekday')`
	labelAmPm        = `TIME_FORMAT(orders.created_at, '%p')`
)

// LabelExpr returns the SQL expression labelling each bucket for the given
// unit. The year unit historically reused the week expression; the corrected
// calendar-year grouping is gated behind Config.FixYearBucket so existing
// dashboards keep their known output.
func LabelExpr(unit entity.BucketUnit, cfg Config) string {
	switch unit {
	case entity.UnitHour:
		return labelHour
	case entity.UnitDay:
		return labelDay
	case entity.UnitWeek:
		return labelWeek
	case entity.UnitMonth:
		return labelMonth
	case entity.UnitYear:
		if cfg.FixYearBucket {
			return labelYear
		}
		return labelWeek
	case entity.UnitWeekWeekend:
		return labelWeekWeekend
	case entity.UnitAmPm:
		return labelAmPm
	}
	return labelDay
}

// ValueExpr returns the SQL aggregate computed per bucket. The cumulative
// metrics window over the bucket label so running totals follow the chart's
// x axis.
func ValueExpr(metric entity.Metric, labelExpr string) string {
	switch metric {
	case entity.MetricOrderCount:
		return `IFNULL(COUNT(orders.id), 0)`
	case entity.MetricRevenueSum:
		return `IFNULL(SUM(orders.value), 0.0)`
	case entity.MetricOrderCountCumulative:
		return fmt.Sprintf(`SUM(IFNULL(COUNT(orders.id), 0)) OVER(ORDER BY %s)`, labelExpr)
	case entity.MetricRevenueSumCumulative:
		return fmt.Sprintf(`SUM(IFNULL(SUM(orders.value), 0.0)) OVER(ORDER BY %s)`, labelExpr)
	}
	return `IFNULL(COUNT(orders.id), 0)`
}
