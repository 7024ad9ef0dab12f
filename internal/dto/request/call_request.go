// 本文件定义通话相关请求体
package request

import "time"

// LogCallRequest 追加一条通话记录
type LogCallRequest struct {
	ContactID string `json:"contact_id" binding:"required"`
	Name      string `json:"name"`
	CallType  string `json:"call_type" binding:"required,oneof=voice phone"`
	Duration  string `json:"duration"`
}

// DeleteCallLogRequest 按时间戳删除通话记录
type DeleteCallLogRequest struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

// CallEndRequest 通话结束后补一条时长消息
type CallEndRequest struct {
	ContactID string `json:"contact_id" binding:"required"`
	Duration  string `json:"duration" binding:"required"`
}
