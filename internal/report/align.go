package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/grocerly/reports-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// AlignPeriods relabels prior-period buckets with the label at the same index
// of the current period, so the two series overlay in one chart. Positional
// alignment assumes both periods produced the same bucket count; when the
// prior period is longer, trailing buckets keep their own labels.
func AlignPeriods(current, prior []entity.Bucket) []entity.Bucket {
	aligned := make([]entity.Bucket, len(prior))
	copy(aligned, prior)
	for i := range aligned {
		if i < len(current) {
			aligned[i].Label = current[i].Label
		}
	}
	return aligned
}

// AlignByLabel shifts each prior bucket's epoch label forward by the calendar
// distance between the two periods, aligning buckets by calendar slot rather
// than by index. Categorical labels (weekend/AM tags) pass through unchanged.
func AlignByLabel(prior []entity.Bucket, offset time.Duration) []entity.Bucket {
	aligned := make([]entity.Bucket, len(prior))
	copy(aligned, prior)
	for i, b := range aligned {
		epoch, err := strconv.ParseInt(b.Label, 10, 64)
		if err != nil {
			continue
		}
		aligned[i].Label = strconv.FormatInt(epoch+int64(offset/time.Second), 10)
	}
	return aligned
}

// FillGaps inserts a zero-valued bucket for every day of the range that the
// query returned no row for. Only meaningful for day-unit reports with epoch
// labels; the result is re-sorted by label.
func FillGaps(r entity.DateRange, buckets []entity.Bucket) []entity.Bucket {
	seen := make(map[string]struct{}, len(buckets))
	for _, b := range buckets {
		seen[b.Label] = struct{}{}
	}

	filled := make([]entity.Bucket, len(buckets))
	copy(filled, buckets)
	for day := Midnight(r.Start); !day.After(r.End); day = day.AddDate(0, 0, 1) {
		label := strconv.FormatInt(day.Unix(), 10)
		if _, ok := seen[label]; ok {
			continue
		}
		filled = append(filled, entity.Bucket{Label: label, Value: decimal.Zero})
	}

	sort.Slice(filled, func(i, j int) bool {
		li, errI := strconv.ParseInt(filled[i].Label, 10, 64)
		lj, errJ := strconv.ParseInt(filled[j].Label, 10, 64)
		if errI == nil && errJ == nil {
			return li < lj
		}
		return filled[i].Label < filled[j].Label
	})
	return filled
}
