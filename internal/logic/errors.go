package logic

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类，HTTP 层据此映射状态码
type ErrorKind int

const (
	KindUnknown       ErrorKind = iota
	KindValidation              // 参数或活动状态不合法，可由用户修正
	KindAuthorization           // 角色或归属不匹配
	KindNotFound                // 引用的记录不存在
	KindPersistence             // 存储层失败
	KindSideEffect              // 提交后的徽章评估失败，不影响捐赠结果
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	case KindSideEffect:
		return "side_effect"
	default:
		return "unknown"
	}
}

// Error 带分类的业务错误
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

var (
	ErrInvalidAmount    = newError(KindValidation, "捐赠金额无效")
	ErrCampaignClosed   = newError(KindValidation, "该活动已停止接受捐赠")
	ErrMissingCampaign  = newError(KindValidation, "活动ID不能为空")
	ErrForbidden        = newError(KindAuthorization, "当前角色无权执行该操作")
	ErrNotOwner         = newError(KindAuthorization, "只有创建者可以修改该记录")
	ErrCampaignNotFound = newError(KindNotFound, "活动不存在")
	ErrPledgeNotFound   = newError(KindNotFound, "捐赠记录不存在")
	ErrInvalidCampaign  = newError(KindValidation, "活动数据无效")
	ErrAmountImmutable  = newError(KindValidation, "捐赠金额创建后不可修改")
)

// persistenceError 包装存储层错误
func persistenceError(op string, err error) error {
	return &Error{Kind: KindPersistence, Err: fmt.Errorf("%s: %w", op, err)}
}

// validationError 带具体原因的校验错误
func validationError(base *Error, detail string) error {
	return &Error{Kind: base.Kind, Err: fmt.Errorf("%w: %s", base, detail)}
}

// KindOf 返回错误分类，未分类的错误视为存储层错误
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}
