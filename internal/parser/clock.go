// 本文件为世界时钟：从叙事文本提取日期标记，并把 "HH:MM" 合成完整时间戳
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// <WorldState> 标记里的 "时间: 2024年5月1日 09:30" 片段，支持中英文冒号与三种日期分隔符
	worldStateRe = regexp.MustCompile(`(?s)<WorldState>.*?时间[:：]\s*(\d{4}[年/\-]\d{1,2}[月/\-]\d{1,2}日?\s*(\d{1,2}:\d{2}))`)
	datePartRe   = regexp.MustCompile(`(\d{4})[年/\-](\d{1,2})[月/\-](\d{1,2})`)
)

// WorldClock 叙事世界时钟
// 指令只携带 "HH:MM"，日期由最近一次世界状态标记提供
type WorldClock struct {
	Date      time.Time // 当前叙事日期，时刻部分无意义
	TimeOfDay string    // "HH:MM"
}

// NewWorldClock 以真实当前时间起步，未见过任何世界状态标记时作兜底
func NewWorldClock() *WorldClock {
	return &WorldClock{Date: time.Now(), TimeOfDay: "12:00"}
}

// UpdateFromText 从整段叙事文本提取世界状态标记，没有标记时保持不变
func (c *WorldClock) UpdateFromText(text string) {
	m := worldStateRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	c.TimeOfDay = strings.TrimSpace(m[2])
	if d := datePartRe.FindStringSubmatch(m[1]); d != nil {
		year, _ := strconv.Atoi(d[1])
		month, _ := strconv.Atoi(d[2])
		day, _ := strconv.Atoi(d[3])
		c.Date = time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.Local)
	}
}

// Synthesize 把 "HH:MM" 合成完整时间戳
// 有前序时间戳时锚定其日期；时刻早于前序时刻则视为跨天，日期加一
// tod 为空或非法时退回时钟当前时刻
func (c *WorldClock) Synthesize(tod string, last time.Time) time.Time {
	h, m, ok := parseClock(tod)
	if !ok {
		h, m, ok = parseClock(c.TimeOfDay)
		if !ok {
			h, m = 12, 0
		}
	}

	base := c.Date
	if !last.IsZero() {
		base = last
		if h*60+m < last.Hour()*60+last.Minute() {
			base = base.AddDate(0, 0, 1)
		}
	}
	return time.Date(base.Year(), base.Month(), base.Day(), h, m, 0, 0, base.Location())
}

// Now 时钟当前时刻的完整时间戳
func (c *WorldClock) Now() time.Time {
	return c.Synthesize(c.TimeOfDay, time.Time{})
}

func parseClock(tod string) (h, m int, ok bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(tod), ":")
	if !found {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
