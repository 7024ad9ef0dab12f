// 本文件定义浏览器书签/历史操作请求体
package request

// BookmarkRequest 书签开关
type BookmarkRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

// HistoryItemRequest 删除一条历史记录
type HistoryItemRequest struct {
	URL string `json:"url" binding:"required"`
}
