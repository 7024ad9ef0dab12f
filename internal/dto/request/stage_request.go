// 本文件定义暂存流水线相关请求体
package request

import "phone_sim_server/internal/model"

// StageMessageRequest 暂存一条玩家消息
// content 支持线上三种形态：纯字符串、单个富内容对象、混排数组
type StageMessageRequest struct {
	ContactID        string        `json:"contact_id" binding:"required"`
	Content          model.Content `json:"content" binding:"required"`
	ReplyingTo       string        `json:"replying_to"`
	DescriptionForAI string        `json:"description_for_ai"`
}

// StageActionRequest 暂存一条结构化操作，字段按 type 取子集
type StageActionRequest struct {
	model.StagedAction
}

// FriendRequestRespondRequest 处理一条好友请求
type FriendRequestRespondRequest struct {
	UID      string `json:"uid" binding:"required"`
	Action   string `json:"action" binding:"required,oneof=accept ignore"`
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
}
