package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himashiprops/estate-backend/search"
)

func TestClampDays(t *testing.T) {
	assert.Equal(t, 30, clampDays(""))
	assert.Equal(t, 30, clampDays("abc"))
	assert.Equal(t, 7, clampDays("1"))
	assert.Equal(t, 7, clampDays("-10"))
	assert.Equal(t, 45, clampDays("45"))
	assert.Equal(t, 90, clampDays("365"))
}

func TestBuildTimelineDense(t *testing.T) {
	now := time.Now()
	days := 7
	from := search.StartOfDay(now.AddDate(0, 0, -(days - 1)))

	timeline := buildTimeline(from, days, map[string]int64{
		from.Format("2006-01-02"): 3,
		now.Format("2006-01-02"):  1,
	})

	require.Len(t, timeline, days)
	assert.Equal(t, now.AddDate(0, 0, -6).Format("2006-01-02"), timeline[0].Date)
	assert.Equal(t, now.Format("2006-01-02"), timeline[6].Date)
	assert.Equal(t, int64(3), timeline[0].Count)
	assert.Equal(t, int64(1), timeline[6].Count)

	// Every gap day is present with a zero, in strict chronological order.
	for i := 1; i < days; i++ {
		prev, _ := time.ParseInLocation("2006-01-02", timeline[i-1].Date, time.Local)
		cur, _ := time.ParseInLocation("2006-01-02", timeline[i].Date, time.Local)
		assert.True(t, cur.Equal(prev.AddDate(0, 0, 1)), "timeline gap between %s and %s", timeline[i-1].Date, timeline[i].Date)
	}
	for i := 1; i < days-1; i++ {
		assert.Equal(t, int64(0), timeline[i].Count)
	}
}
