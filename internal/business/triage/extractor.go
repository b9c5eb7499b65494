package triage

import "regexp"

// extractRule 一条订单号抽取规则
type extractRule struct {
	name    string
	pattern *regexp.Regexp
}

// extractRules 按优先级排列，命中即返回
// 顺序对应现网几种工单摘要格式的优先关系，不要调整
var extractRules = []extractRule{
	{"order_id_colon_a", regexp.MustCompile(`OrderID:([0-9]+)A`)},
	{"order_id_colon", regexp.MustCompile(`OrderID:([0-9]+)`)},
	{"order_id_bare", regexp.MustCompile(`OrderID([0-9]+)`)},
	{"orden", regexp.MustCompile(`Orden([0-9]+)`)},
	{"order_id_colon_space_a", regexp.MustCompile(`OrderID: ([0-9]+)A`)},
	{"order_id_mixed_case_a", regexp.MustCompile(`OrderId:([0-9]+)A`)},
	{"order_id_service_id_a", regexp.MustCompile(`OrderID:ServiceId:([0-9]+)A`)},
}

// ExtractOrderID 从 Summary 中抽取订单号
// 非文本输入或没有规则命中时返回 NoOrderID
func ExtractOrderID(summary interface{}) OrderID {
	text, ok := summary.(string)
	if !ok {
		return NoOrderID
	}

	for _, rule := range extractRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil && m[1] != "" {
			return NewOrderID(m[1])
		}
	}
	return NoOrderID
}
