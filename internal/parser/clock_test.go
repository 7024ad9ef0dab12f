package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorldClockUpdateFromText(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("一些叙事。<WorldState>天气: 晴, 时间: 2024年5月1日 09:30</WorldState> 后续叙事。")
	require.Equal(t, "09:30", c.TimeOfDay)
	require.Equal(t, 2024, c.Date.Year())
	require.Equal(t, time.May, c.Date.Month())
	require.Equal(t, 1, c.Date.Day())
}

func TestWorldClockUpdateFromTextSlashDate(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("<WorldState>时间：2024/5/2 18:05</WorldState>")
	require.Equal(t, "18:05", c.TimeOfDay)
	require.Equal(t, 2, c.Date.Day())
}

func TestWorldClockIgnoresTextWithoutMarker(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("<WorldState>时间: 2024年5月1日 09:30</WorldState>")
	c.UpdateFromText("没有任何标记的普通文本")
	require.Equal(t, "09:30", c.TimeOfDay)
	require.Equal(t, 1, c.Date.Day())
}

func TestWorldClockSynthesizeSameDay(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("<WorldState>时间: 2024年5月1日 12:00</WorldState>")
	last := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)

	got := c.Synthesize("23:45", last)
	require.Equal(t, time.Date(2024, 5, 1, 23, 45, 0, 0, time.Local), got)
}

func TestWorldClockSynthesizeRollsOverMidnight(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("<WorldState>时间: 2024年5月1日 12:00</WorldState>")
	last := time.Date(2024, 5, 1, 23, 30, 0, 0, time.Local)

	// 时刻回拨视为跨天
	got := c.Synthesize("09:00", last)
	require.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local), got)
}

func TestWorldClockSynthesizeWithoutAnchor(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("<WorldState>时间: 2024年5月1日 12:00</WorldState>")

	got := c.Synthesize("08:15", time.Time{})
	require.Equal(t, time.Date(2024, 5, 1, 8, 15, 0, 0, time.Local), got)
}

func TestWorldClockSynthesizeFallsBackToClockTime(t *testing.T) {
	c := NewWorldClock()
	c.UpdateFromText("<WorldState>时间: 2024年5月1日 12:00</WorldState>")

	got := c.Synthesize("", time.Time{})
	require.Equal(t, 12, got.Hour())
	require.Equal(t, 0, got.Minute())
}
