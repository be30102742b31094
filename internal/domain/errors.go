package domain

import "errors"

var (
	ErrInvalidTimeFormat  = errors.New("时间格式错误，应为 HH:MM")
	ErrInvalidRange       = errors.New("结束时间必须晚于开始时间")
	ErrInvalidSubstitute  = errors.New("代课教师不合法")
	ErrIllegalTransition  = errors.New("代课申请当前状态不允许此操作")
	ErrSlotNotFound       = errors.New("课表时段不存在")
	ErrInvalidCompositeID = errors.New("时段标识格式错误")
)
