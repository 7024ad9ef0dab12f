// 本文件定义联系人与会话相关请求体
package request

// AddContactRequest 手动添加联系人
type AddContactRequest struct {
	ID       string `json:"id" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

// ContactIDRequest 按 ID 定位联系人（删除、未读清零、清空记录）
type ContactIDRequest struct {
	ContactID string `json:"contact_id" binding:"required"`
}

// ActiveContactRequest 记录当前打开的会话，contact_id 为空表示离开会话
type ActiveContactRequest struct {
	ContactID string `json:"contact_id"`
}

// PlayerNicknameRequest 修改玩家昵称
type PlayerNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

// PendingSearchRequest 记录玩家发起的浏览器搜索词
type PendingSearchRequest struct {
	Term string `json:"term" binding:"required"`
}
