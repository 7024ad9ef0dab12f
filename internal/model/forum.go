// 本文件定义论坛文档：板块 -> 帖子 -> 回复
package model

import "time"

// ForumDB 论坛文档，键为板块 ID
type ForumDB map[string]*ForumBoard

// ForumBoard 一个板块
type ForumBoard struct {
	BoardName string       `json:"boardName,omitempty"`
	Posts     []*ForumPost `json:"posts"`
}

// ForumPost 一个帖子
type ForumPost struct {
	PostID      string       `json:"postId"`
	BoardID     string       `json:"boardId"`
	AuthorID    string       `json:"authorId"`
	AuthorName  string       `json:"authorName,omitempty"`
	Title       string       `json:"title"`
	Content     Content      `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Tags        []string     `json:"tags,omitempty"`
	Replies     []ForumReply `json:"replies"`
	Likes       []string     `json:"likes"` // 点赞者 ID 集合，无重复
	SourceMsgID string       `json:"sourceMsgId,omitempty"`
}

// ForumReply 一条回复
type ForumReply struct {
	ReplyID     string    `json:"replyId"`
	PostID      string    `json:"postId"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	Content     Content   `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	SourceMsgID string    `json:"sourceMsgId,omitempty"`
}

// FindPost 跨板块按帖子 ID 查找
func (db ForumDB) FindPost(postID string) *ForumPost {
	for _, board := range db {
		if board == nil {
			continue
		}
		for _, post := range board.Posts {
			if post != nil && post.PostID == postID {
				return post
			}
		}
	}
	return nil
}

// AddLike 去重追加点赞
func (p *ForumPost) AddLike(actorID string) {
	for _, id := range p.Likes {
		if id == actorID {
			return
		}
	}
	p.Likes = append(p.Likes, actorID)
}
