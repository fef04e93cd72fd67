package report

import (
	"testing"

	"github.com/grocerly/reports-manager/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestUnitForSpan(t *testing.T) {
	tests := []struct {
		days int
		want entity.BucketUnit
	}{
		{1, entity.UnitDay},
		{13, entity.UnitDay},
		{14, entity.UnitWeek},
		{29, entity.UnitWeek},
		{30, entity.UnitMonth},
		{364, entity.UnitMonth},
		{365, entity.UnitYear},
		{1000, entity.UnitYear},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UnitForSpan(tt.days), "span of %d days", tt.days)
	}
}

func TestUnitForTimeframe(t *testing.T) {
	// To-date presets override even an explicitly requested unit.
	assert.Equal(t, entity.UnitDay, UnitForTimeframe(entity.TimeframeWTD, entity.UnitMonth))
	assert.Equal(t, entity.UnitDay, UnitForTimeframe(entity.TimeframeMTD, entity.UnitYear))
	assert.Equal(t, entity.UnitWeek, UnitForTimeframe(entity.TimeframeYTD, entity.UnitDay))

	// Everything else passes through.
	assert.Equal(t, entity.UnitMonth, UnitForTimeframe(entity.TimeframeWeek, entity.UnitMonth))
	assert.Equal(t, entity.UnitHour, UnitForTimeframe("", entity.UnitHour))
}
