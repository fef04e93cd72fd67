package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/grocerly/reports-manager/internal/entity"
)

// ErrInvalidTimeframe is returned for timeframe tokens outside the preset
// menu. Timeframes fail fast; bucket units and metrics fall back silently.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resolve maps a timeframe preset to a concrete date range anchored at now.
func Resolve(tf entity.Timeframe, now time.Time) (entity.DateRange, error) {
	switch tf {
	case entity.TimeframeDay:
		return entity.DateRange{Start: Midnight(now), End: now}, nil
	case entity.TimeframeYesterday:
		// 00:00:00 yesterday through 23:59:59 yesterday.
		return entity.DateRange{
			Start: Midnight(now).AddDate(0, 0, -1),
			End:   Midnight(now).Add(-time.Second),
		}, nil
	case entity.TimeframeWeek:
		return entity.DateRange{Start: now.AddDate(0, 0, -7), End: now}, nil
	case entity.TimeframeMonth:
		return entity.DateRange{Start: now.AddDate(0, -1, 0), End: now}, nil
	case entity.TimeframeWTD:
		// Reporting weeks start on Sunday.
		sunday := Midnight(now).AddDate(0, 0, -int(now.Weekday()))
		return entity.DateRange{Start: sunday, End: now}, nil
	case entity.TimeframeMTD:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return entity.DateRange{Start: first, End: now}, nil
	case entity.TimeframeYTD:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return entity.DateRange{Start: first, End: now}, nil
	}
	return entity.DateRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeframe, tf)
}

// PriorPeriod derives the comparison range for a resolved range. The
// to-date presets shift by one whole calendar cycle so partial weeks, months
// and years stay aligned to the same calendar position; every other timeframe
// compares against the block of equal day-length ending the day before the
// current range starts. The two rules intentionally produce different day
// counts.
func PriorPeriod(r entity.DateRange, tf entity.Timeframe) entity.DateRange {
	switch tf {
	case entity.TimeframeWTD:
		return r.Shift(0, 0, -7)
	case entity.TimeframeMTD:
		return r.Shift(0, -1, 0)
	case entity.TimeframeYTD:
		return r.Shift(-1, 0, 0)
	}
	days := r.Days()
	return entity.DateRange{
		Start: r.Start.AddDate(0, 0, -days),
		End:   r.Start.AddDate(0, 0, -1),
	}
}
