package triage

import "time"

// DefaultSLAWindow 8 小时规则
const DefaultSLAWindow = 8 * time.Hour

// Breached 站点时间严格晚于 maxAction + window 才算超时
// 没有 maxAction 时不算超时
func Breached(site, maxAction time.Time, hasMaxAction bool, window time.Duration) bool {
	if !hasMaxAction {
		return false
	}
	return site.After(maxAction.Add(window))
}
