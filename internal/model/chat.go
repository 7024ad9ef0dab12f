// 本文件定义聊天记录文档（联系人/群聊 + 消息 + 动态）
package model

import "time"

// ChatDB 聊天记录文档
// 键为联系人 ID（私聊为裸 ID，群聊为 "group_" 前缀 ID）
type ChatDB map[string]*Contact

// Contact 联系人/群聊记录
// 首次被任何指令引用时创建，只有显式删除才会销毁
type Contact struct {
	Profile Profile  `json:"profile"`
	Unread  int      `json:"unread,omitempty"`
	AppData AppData  `json:"app_data"`
	Moments []Moment `json:"moments,omitempty"`
}

// Profile 联系人资料
// 私聊使用 Nickname/Note，群聊使用 GroupName/Members
type Profile struct {
	Nickname        string   `json:"nickname,omitempty"`
	Note            string   `json:"note,omitempty"`
	GroupName       string   `json:"groupName,omitempty"`
	Members         []string `json:"members,omitempty"`
	HasCustomAvatar bool     `json:"has_custom_avatar,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	CoverImage      string   `json:"cover_image,omitempty"`
}

// AppData 联系人下各应用的数据
type AppData struct {
	WeChat *ChatThread `json:"WeChat,omitempty"`
}

// ChatThread 一个会话的消息列表
// 不变量：消息按 Timestamp 升序排列
type ChatThread struct {
	Messages []Message `json:"messages"`
}

// Message 单条消息
type Message struct {
	UID                  string    `json:"uid"`
	Timestamp            time.Time `json:"timestamp"`
	SenderID             string    `json:"sender_id"`
	Content              Content   `json:"content"`
	SourceMsgID          string    `json:"sourceMsgId,omitempty"`
	IsSystemNotification bool      `json:"isSystemNotification,omitempty"`
	Recalled             bool      `json:"recalled,omitempty"`
	ReplyingTo           string    `json:"replyingTo,omitempty"` // 被回复消息的 uid
}

// Thread 返回会话消息列表，必要时初始化空结构
func (c *Contact) Thread() *ChatThread {
	if c.AppData.WeChat == nil {
		c.AppData.WeChat = &ChatThread{}
	}
	return c.AppData.WeChat
}

// DisplayName 返回联系人显示名：群名 > 备注 > 昵称 > 自身 ID
func (c *Contact) DisplayName(id string) string {
	switch {
	case c == nil:
		return id
	case c.Profile.GroupName != "":
		return c.Profile.GroupName
	case c.Profile.Note != "":
		return c.Profile.Note
	case c.Profile.Nickname != "":
		return c.Profile.Nickname
	default:
		return id
	}
}
