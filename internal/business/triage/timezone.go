package triage

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"o2a/inctriage/pkg/errorutil"
)

// AcceptedLayouts 上报时间可接受的格式，按顺序尝试
// 日、月、12 小时制的小时不要求补零（"1-Jan-2024 9:05:00 AM"）
var AcceptedLayouts = []string{
	"2-Jan-2006 15:04:05",
	"2-Jan-2006 3:04:05 PM",
	"2006-1-2 15:04:05",
}

// Normalizer 源站点 → 目标站点时间换算
type Normalizer struct {
	source *time.Location
	dest   *time.Location
}

// NewNormalizer 按 IANA 名称加载两个时区
func NewNormalizer(sourceTZ, destTZ string) (*Normalizer, error) {
	src, err := time.LoadLocation(sourceTZ)
	if err != nil {
		return nil, fmt.Errorf("load source timezone %q: %w", sourceTZ, err)
	}
	dst, err := time.LoadLocation(destTZ)
	if err != nil {
		return nil, fmt.Errorf("load destination timezone %q: %w", destTZ, err)
	}
	return &Normalizer{source: src, dest: dst}, nil
}

// Parse 按 AcceptedLayouts 解析为墙上时间（UTC 承载，不带时区语义）
func Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range AcceptedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errorutil.ParseFailure(fmt.Sprintf("could not parse datetime string %q", text))
}

// Normalize 将源时区的墙上时间换算为目标时区的墙上时间
func (n *Normalizer) Normalize(text string) (time.Time, error) {
	wall, err := Parse(text)
	if err != nil {
		return time.Time{}, err
	}
	return n.Convert(wall), nil
}

// Convert 换算已解析的墙上时间
func (n *Normalizer) Convert(wall time.Time) time.Time {
	local := time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), 0, n.source)
	return wallClock(local.In(n.dest))
}

// FormatTimestamp 统一输出格式
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// wallClock 丢弃时区，只保留读数
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
