package errorutil

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind string

const (
	KindUnknown        Kind = ""
	KindParseFailure   Kind = "PARSE_FAILURE"   // 日期文本无法解析（单行）
	KindLookupFailure  Kind = "LOOKUP_FAILURE"  // OMS 查询失败（降级为哨兵值，不外抛）
	KindConfigFailure  Kind = "CONFIG_FAILURE"  // 配置/连接失败（整批无法开始）
	KindMalformedBatch Kind = "MALFORMED_BATCH" // 缺少必需列（整个文件失败）
	KindExportFailure  Kind = "EXPORT_FAILURE"  // 导出失败
)

// Error 错误结构（包含可重试标记）
type Error struct {
	Code       int    `json:"code"`
	Kind       Kind   `json:"kind,omitempty"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
	cause      error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.cause
}

// Retriable 创建可重试错误（网络错误、临时故障等）
func Retriable(message string) *Error {
	return &Error{
		Code:      500,
		Message:   message,
		Retryable: true,
	}
}

// NonRetriable 创建不可重试错误（参数错误、业务规则错误等）
func NonRetriable(message string) *Error {
	return &Error{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// ParseFailure 日期解析失败
func ParseFailure(message string) *Error {
	return &Error{Code: 400, Kind: KindParseFailure, Message: message}
}

// LookupFailure OMS 查询失败
func LookupFailure(cause error, message string) *Error {
	return &Error{Code: 503, Kind: KindLookupFailure, Message: message, Retryable: true, cause: cause, DevDetails: details(cause)}
}

// ConfigFailure 配置或连接失败
func ConfigFailure(cause error, message string) *Error {
	return &Error{Code: 500, Kind: KindConfigFailure, Message: message, Retryable: true, cause: cause, DevDetails: details(cause)}
}

// MalformedBatch 输入文件结构错误
func MalformedBatch(message string) *Error {
	return &Error{Code: 400, Kind: KindMalformedBatch, Message: message}
}

// ExportFailure 导出失败
func ExportFailure(cause error, message string, retryable bool) *Error {
	return &Error{Code: 500, Kind: KindExportFailure, Message: message, Retryable: retryable, cause: cause, DevDetails: details(cause)}
}

func details(cause error) string {
	if cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", cause)
}

// Wrap 包装错误（自动判断是否可重试）
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	// 如果链路中已经有 Error，直接返回
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	// 默认为不可重试错误
	return &Error{
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
		cause:      err,
	}
}

// KindOf 返回错误分类，非 *Error 返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable 是否可重试
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// UnWrapResponse 解包错误（用于 Response）
func UnWrapResponse(err error) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err)
}
