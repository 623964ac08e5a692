package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserExist          = errors.New("用户已存在")
	ErrPasswordIncorrect  = errors.New("密码错误")
	ErrTargetUserInvalid  = errors.New("目标用户无效")
	ErrChatNotFound       = errors.New("会话不存在")
	ErrNotParticipant     = errors.New("不是该会话的成员")
	ErrMessageNotFound    = errors.New("消息不存在")
	ErrNotMessageSender   = errors.New("仅消息发送者可执行该操作")
	ErrEmptyMessage       = errors.New("消息内容与附件不能同时为空")
	ErrCustomerChatTarget = errors.New("客户仅能与管理员或项目经理发起私聊")
	ErrProjectNotFound    = errors.New("项目不存在")
	ErrNotProjectMember   = errors.New("不是该项目的成员")
	ErrTaskNotFound       = errors.New("任务不存在")
	ErrTicketNotFound     = errors.New("工单不存在")
	ErrMeetingNotFound    = errors.New("会议不存在")
	ErrTimeLogNotFound    = errors.New("工时记录不存在")
	ErrFileNotSupported   = errors.New("不支持的文件类型")
	UnauthorizedError     = errors.New("权限不足")
	ForbiddenError        = errors.New("无权执行该操作")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrUserNotFound:       NotFound,
	ErrUserExist:          BadRequest,
	ErrPasswordIncorrect:  Unauthorized,
	ErrTargetUserInvalid:  BadRequest,
	ErrChatNotFound:       NotFound,
	ErrNotParticipant:     Forbidden,
	ErrMessageNotFound:    NotFound,
	ErrNotMessageSender:   Forbidden,
	ErrEmptyMessage:       BadRequest,
	ErrCustomerChatTarget: Forbidden,
	ErrProjectNotFound:    NotFound,
	ErrNotProjectMember:   Forbidden,
	ErrTaskNotFound:       NotFound,
	ErrTicketNotFound:     NotFound,
	ErrMeetingNotFound:    NotFound,
	ErrTimeLogNotFound:    NotFound,
	ErrFileNotSupported:   BadRequest,
	UnauthorizedError:     Unauthorized,
	ForbiddenError:        Forbidden,
	UnExpectedError:       InternalServerError,
}
