// 本文件定义论坛维护操作请求体
package request

// ForumBoardRequest 按板块 ID 定位论坛板块
type ForumBoardRequest struct {
	BoardID string `json:"board_id" binding:"required"`
}
