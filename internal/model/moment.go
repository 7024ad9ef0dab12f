// 本文件定义朋友圈动态
package model

import "time"

// Moment 一条动态
// 不变量：momentId 在全部联系人的动态列表并集中唯一
type Moment struct {
	MomentID    string          `json:"momentId"`
	PosterID    string          `json:"posterId"`
	PosterName  string          `json:"posterName,omitempty"`
	Content     Content         `json:"content"`
	Images      []string        `json:"images,omitempty"`
	Location    string          `json:"location,omitempty"`
	Likes       []string        `json:"likes,omitempty"` // 点赞者 ID 集合，无重复
	Comments    []MomentComment `json:"comments,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	SourceMsgID string          `json:"sourceMsgId,omitempty"`
}

// MomentComment 动态下的一条评论
type MomentComment struct {
	UID         string `json:"uid"`
	CommenterID string `json:"commenterId"`
	Text        string `json:"text"`
	Recalled    bool   `json:"recalled,omitempty"`
}

// AddLike 去重追加点赞
func (m *Moment) AddLike(actorID string) {
	for _, id := range m.Likes {
		if id == actorID {
			return
		}
	}
	m.Likes = append(m.Likes, actorID)
}
