package triage

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout 统一的日期输出格式（DD-Mon-YYYY HH24:MI:SS）
const TimestampLayout = "02-Jan-2006 15:04:05"

// LocationMode 批次处理站点（决定时区换算）
type LocationMode int

const (
	Offshore LocationMode = iota // 印度离岸，需要 IST → PET 换算
	Onshore                      // 巴西在岸，与秘鲁站点同钟
)

// 导出 TRACKING 列使用的标签
const (
	OffshoreLabel = "OFF-SHORE (INDIA)"
	OnshoreLabel  = "ON-SHORE (BRAZIL)"
)

// Label TRACKING 列的值
func (m LocationMode) Label() string {
	if m == Onshore {
		return OnshoreLabel
	}
	return OffshoreLabel
}

// String 实现 fmt.Stringer
func (m LocationMode) String() string {
	if m == Onshore {
		return "ONSHORE"
	}
	return "OFFSHORE"
}

// ParseLocationMode 支持 offshore/onshore 以及 TRACKING 标签
func ParseLocationMode(s string) (LocationMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OFFSHORE", "OFF-SHORE", strings.ToUpper(OffshoreLabel):
		return Offshore, nil
	case "ONSHORE", "ON-SHORE", strings.ToUpper(OnshoreLabel):
		return Onshore, nil
	}
	return Offshore, fmt.Errorf("unknown location mode %q (want OFFSHORE or ONSHORE)", s)
}

// IncidentRow 上传表格中的一行
type IncidentRow struct {
	IncidentID    string
	Summary       interface{} // 表格单元格可能不是文本
	AssignedGroup string
	ReportedDate  string // 源站点本地时间文本
}

// OrderID 订单号：非空数字串，或者不存在
type OrderID struct {
	value string
}

// NewOrderID 空串视为不存在
func NewOrderID(v string) OrderID {
	return OrderID{value: v}
}

// NoOrderID 不存在的订单号
var NoOrderID = OrderID{}

// Get 返回订单号和是否存在
func (o OrderID) Get() (string, bool) {
	return o.value, o.value != ""
}

// Present 是否存在
func (o OrderID) Present() bool {
	return o.value != ""
}

// String 不存在时为空串
func (o OrderID) String() string {
	return o.value
}

// StuckCase 最近一次 stuck 记录（case + owner）
type StuckCase struct {
	Case    string
	Owner   string
	Present bool
}

// NoStuckCase 没有 stuck 记录
var NoStuckCase = StuckCase{}

// String 渲染为 ('CASE1', 'TELEFONICA IT')，不存在时为 (None, None)
func (s StuckCase) String() string {
	if !s.Present {
		return "(None, None)"
	}
	return fmt.Sprintf("('%s', '%s')", s.Case, s.Owner)
}

// SLAOutcome 8 小时规则结果
type SLAOutcome int

const (
	SLANotBreached SLAOutcome = iota
	SLABreached
	SLAUnknown // 上报时间无法解析
)

// Flag LIMIT_8HR 列：Y / N，未知为空
func (o SLAOutcome) Flag() string {
	switch o {
	case SLABreached:
		return "Y"
	case SLANotBreached:
		return "N"
	}
	return ""
}

// EnrichedRecord 一行经过补全后的结果
// 每个阶段接收上一阶段的值并返回新的值，不修改入参
type EnrichedRecord struct {
	IncidentID    string
	Summary       string
	AssignedGroup string
	ReportedDate  string

	OrderID       OrderID
	Status        Status
	StuckCase     StuckCase
	MaxActionDate time.Time
	HasMaxAction  bool
	SiteTime      time.Time
	HasSiteTime   bool
	SLA           SLAOutcome
	Comment       string
	Tracking      string
	RowError      string
}

// MaxActionDateText MAX_ORDER_DATE 列
func (r EnrichedRecord) MaxActionDateText() string {
	if !r.HasMaxAction {
		return ""
	}
	return r.MaxActionDate.Format(TimestampLayout)
}

// SiteTimeText PERU_SITE_TIME 列
func (r EnrichedRecord) SiteTimeText() string {
	if !r.HasSiteTime {
		return ""
	}
	return r.SiteTime.Format(TimestampLayout)
}

// BatchResult 一批处理结果
type BatchResult struct {
	Mode      LocationMode
	RowsIn    int
	Records   []EnrichedRecord
	Duration  time.Duration
	RowErrors int
}

// Tally 按 COMMENTS 统计
func (b *BatchResult) Tally() map[string]int {
	tally := make(map[string]int)
	for _, r := range b.Records {
		tally[dispositionKey(r.Comment)]++
	}
	return tally
}

// IncidentIDs 输出记录的 incident id（保持顺序）
func (b *BatchResult) IncidentIDs() []string {
	ids := make([]string, 0, len(b.Records))
	for _, r := range b.Records {
		ids = append(ids, r.IncidentID)
	}
	return ids
}

func summaryText(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
