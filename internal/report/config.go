// Package report carries the reporting core: timeframe and prior-period
// resolution, bucket granularity selection, the SQL expression catalog and the
// post-processing of period pairs for charting.
package report

// Config gates behaviors that deviate from the historical report output.
// Everything defaults to off so responses stay byte-compatible with the
// dashboards already consuming them.
type Config struct {
	// FixYearBucket groups year buckets by calendar year instead of the
	// historical week expression.
	FixYearBucket bool `mapstructure:"fix_year_bucket"`
	// FillGaps inserts zero-valued buckets for days without orders.
	FillGaps bool `mapstructure:"fill_gaps"`
	// AlignByLabel aligns prior-period buckets by calendar position instead
	// of by index.
	AlignByLabel bool `mapstructure:"align_by_label"`
}
