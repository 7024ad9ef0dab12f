// 本文件定义联系人目录文档
package model

import "time"

// 好友请求状态
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

// DirectoryDB 联系人目录文档
// 维护人名到联系人 ID 的映射、群名到群信息的映射和待处理好友请求
type DirectoryDB struct {
	Contacts       map[string]string      `json:"contacts,omitempty"`
	Groups         map[string]*GroupEntry `json:"groups,omitempty"`
	FriendRequests []FriendRequest        `json:"friend_requests,omitempty"`
}

// GroupEntry 群目录项
type GroupEntry struct {
	ID      string   `json:"id"`
	Members []string `json:"members"` // 成员显示名列表
}

// FriendRequest 一条好友请求
type FriendRequest struct {
	UID       string    `json:"uid"`
	FromID    string    `json:"from_id"`
	FromName  string    `json:"from_name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"` // pending / accepted / declined
}

// SetContact 记录人名到 ID 的映射
func (d *DirectoryDB) SetContact(name, id string) {
	if name == "" {
		return
	}
	if d.Contacts == nil {
		d.Contacts = map[string]string{}
	}
	d.Contacts[name] = id
}

// SetGroup 记录群名到群信息的映射
func (d *DirectoryDB) SetGroup(name string, entry *GroupEntry) {
	if name == "" {
		return
	}
	if d.Groups == nil {
		d.Groups = map[string]*GroupEntry{}
	}
	d.Groups[name] = entry
}

// GroupByID 按群 ID 查找群目录项
func (d *DirectoryDB) GroupByID(groupID string) *GroupEntry {
	for _, g := range d.Groups {
		if g != nil && g.ID == groupID {
			return g
		}
	}
	return nil
}
