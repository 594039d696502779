// Package errs 定义服务的错误分类。
//
// 校验错误在任何外部调用之前返回；外部调用错误和一致性错误不会清除本地
// 待注册数据，以便后续重试。
package errs

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown       Kind = iota
	KindValidation         // 用户输入不满足前置条件
	KindConfiguration      // 未识别的枚举值或缺失的配置
	KindExternalCall       // 链上交易失败或回滚
	KindConsistency        // 链上成功但链下登记失败
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindExternalCall:
		return "external_call"
	case KindConsistency:
		return "consistency"
	default:
		return "unknown"
	}
}

// ValidationError 输入校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigurationError 配置错误，不应出现，出现时必须中止流程
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// ExternalCallError 链上调用错误
type ExternalCallError struct {
	Op  string
	Err error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// ConsistencyError 链下登记失败，数据保留待重试
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s failed, pending retry: %v", e.Op, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// Validation 创建校验错误
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Validationf 创建带格式的校验错误
func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Configurationf 创建配置错误
func Configurationf(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ExternalCall 包装链上调用错误
func ExternalCall(op string, err error) error {
	return &ExternalCallError{Op: op, Err: err}
}

// Consistency 包装链下登记错误
func Consistency(op string, err error) error {
	return &ConsistencyError{Op: op, Err: err}
}

// KindOf 返回错误链中第一个已分类错误的类别
func KindOf(err error) Kind {
	var (
		ve *ValidationError
		ce *ConfigurationError
		ee *ExternalCallError
		se *ConsistencyError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ce):
		return KindConfiguration
	case errors.As(err, &se):
		return KindConsistency
	case errors.As(err, &ee):
		return KindExternalCall
	default:
		return KindUnknown
	}
}

// IsValidation 是否为校验错误
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
