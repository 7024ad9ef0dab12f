// 本文件定义邮件文档（数组型）
package model

import "time"

// EmailDB 邮件文档，新邮件追加在尾部
type EmailDB []Email

// Email 一封邮件
type Email struct {
	ID          string      `json:"id"`
	FromID      string      `json:"from_id"`
	FromName    string      `json:"from_name"`
	Subject     string      `json:"subject"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	Read        bool        `json:"read"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	SourceMsgID string      `json:"sourceMsgId,omitempty"`
}

// Attachment 邮件附件，只有名称与描述（内容由剧情生成）
type Attachment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
