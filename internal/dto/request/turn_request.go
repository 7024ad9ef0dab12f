// Package request 定义 HTTP 请求体
package request

// TurnRequest 处理一个回合的原始文本
// 宿主在新回合生成或旧回合被编辑后推送，source_id 为回合的稳定标识
type TurnRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}
