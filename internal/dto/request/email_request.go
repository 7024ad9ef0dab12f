// 本文件定义邮件操作请求体
package request

// EmailIDRequest 按 ID 定位邮件（已读、删除）
type EmailIDRequest struct {
	ID string `json:"id" binding:"required"`
}
