// 本文件定义消息级操作请求体
package request

import "phone_sim_server/internal/model"

// MessageUIDRequest 按 uid 定位消息（删除/撤回）
type MessageUIDRequest struct {
	UID string `json:"uid" binding:"required"`
}

// EditMessageRequest 修改消息正文
type EditMessageRequest struct {
	UID     string        `json:"uid" binding:"required"`
	Content model.Content `json:"content" binding:"required"`
}
