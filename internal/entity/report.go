package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Timeframe is a named shorthand for a reporting date range. Unknown tokens
// are rejected, unlike BucketUnit and Metric which fall back to a default.
type Timeframe string

const (
	TimeframeDay       Timeframe = "day"
	TimeframeYesterday Timeframe = "yesterday"
	TimeframeWeek      Timeframe = "week"
	TimeframeMonth     Timeframe = "month"
	TimeframeWTD       Timeframe = "wtd"
	TimeframeMTD       Timeframe = "mtd"
	TimeframeYTD       Timeframe = "ytd"
)

// ParseTimeframe validates a timeframe token from a query parameter.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case TimeframeDay, TimeframeYesterday, TimeframeWeek, TimeframeMonth,
		TimeframeWTD, TimeframeMTD, TimeframeYTD:
		return tf, nil
	}
	return "", fmt.Errorf("invalid timeframe %q", s)
}

// BucketUnit is the granularity used to group orders into buckets. It shares
// some token names with Timeframe but selects bucket labels, not date ranges.
type BucketUnit string

const (
	UnitHour        BucketUnit = "hour"
	UnitDay         BucketUnit = "day"
	UnitWeek        BucketUnit = "week"
	UnitMonth       BucketUnit = "month"
	UnitYear        BucketUnit = "year"
	UnitWeekWeekend BucketUnit = "week-weekend"
	UnitAmPm        BucketUnit = "am-pm"
)

// ParseBucketUnit never fails: unrecognized units group by day.
func ParseBucketUnit(s string) BucketUnit {
	switch u := BucketUnit(s); u {
	case UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear, UnitWeekWeekend, UnitAmPm:
		return u
	}
	return UnitDay
}

// Metric selects the aggregate computed per bucket.
type Metric string

const (
	MetricOrderCount           Metric = "n-orders"
	MetricRevenueSum           Metric = "rs-orders"
	MetricOrderCountCumulative Metric = "n-orders-cumulative"
	MetricRevenueSumCumulative Metric = "rs-orders-cumulative"
)

// ParseMetric never fails: unrecognized metrics count orders.
func ParseMetric(s string) Metric {
	switch m := Metric(s); m {
	case MetricOrderCount, MetricRevenueSum, MetricOrderCountCumulative, MetricRevenueSumCumulative:
		return m
	}
	return MetricOrderCount
}

// DateRange is an inclusive reporting window. Start is never after End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the range: full days between the
// endpoints plus one, so a same-day range counts as a single day.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

// Shift moves both endpoints by the given calendar amounts.
func (r DateRange) Shift(years, months, days int) DateRange {
	return DateRange{
		Start: r.Start.AddDate(years, months, days),
		End:   r.End.AddDate(years, months, days),
	}
}

// Bucket is one aggregated row of a report query. Label is an epoch-seconds
// string for date buckets or a categorical tag ("weekend", "AM") for the
// week-weekend and am-pm units.
type Bucket struct {
	Label string          `db:"label" json:"label"`
	Value decimal.Decimal `db:"value" json:"value"`
}

// DaySummary is the single-day report row with both revenue and order count.
type DaySummary struct {
	Value decimal.Decimal `db:"value" json:"value"`
	Count int             `db:"count" json:"count"`
	Label string          `db:"label" json:"label"`
}

// NewCustomer is a first-order cohort row.
type NewCustomer struct {
	UserID     string    `db:"user_id" json:"user_id"`
	FirstOrder time.Time `db:"first_order" json:"firstOrder"`
}
