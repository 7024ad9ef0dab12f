// 本文件定义通话记录文档（数组型）
package model

import "time"

// CallLogDB 通话记录，按时间倒序保存，超过上限丢弃最旧的
type CallLogDB []CallRecord

// CallRecord 一次通话
type CallRecord struct {
	ContactID string    `json:"id"`
	Name      string    `json:"name"`
	CallType  string    `json:"callType"` // "voice"（微信语音）或 "phone"（电话）
	Duration  string    `json:"duration,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
