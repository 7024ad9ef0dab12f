// 本文件处理论坛指令：新帖、新回复、帖子点赞
// 同一文档事务内按 帖子 -> 回复 -> 点赞 顺序执行，回复可命中同回合新帖
package reconcile

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
)

func (s *Service) applyForum(ctx context.Context, sourceID string, posts []command.ForumPost, replies []command.ForumReply, updates []command.ForumUpdate) bool {
	changed := len(posts) > 0 || len(replies) > 0 || len(updates) > 0
	err := s.docs.UpdateForum(ctx, func(db *model.ForumDB) error {
		if cleanForumBySource(db, sourceID) {
			changed = true
		}

		for _, cmd := range posts {
			postID := cmd.PostID
			if postID == "" {
				postID = "post_" + newUID()
			}
			boardID := cmd.BoardID
			if boardID == "" {
				boardID = strings.ReplaceAll(strings.ToLower(cmd.BoardName), " ", "_")
			}
			board := (*db)[boardID]
			if board == nil {
				board = &model.ForumBoard{BoardName: cmd.BoardName}
				(*db)[boardID] = board
			}
			board.Posts = append(board.Posts, &model.ForumPost{
				PostID:      postID,
				BoardID:     boardID,
				AuthorID:    cmd.AuthorID,
				AuthorName:  cmd.AuthorName,
				Title:       cmd.Title,
				Content:     cmd.Content,
				Timestamp:   s.state.Synthesize(cmd.Time, time.Time{}),
				Tags:        cmd.Tags,
				Replies:     []model.ForumReply{},
				Likes:       cmd.Likes,
				SourceMsgID: sourceID,
			})
		}

		for _, cmd := range replies {
			post := db.FindPost(cmd.PostID)
			if post == nil {
				zap.L().Warn("帖子不存在，回复跳过", zap.String("postId", cmd.PostID))
				continue
			}
			post.Replies = append(post.Replies, model.ForumReply{
				ReplyID:     "reply_" + newUID(),
				PostID:      cmd.PostID,
				AuthorID:    cmd.AuthorID,
				AuthorName:  cmd.AuthorName,
				Content:     cmd.Content,
				Timestamp:   s.state.Synthesize(cmd.Time, time.Time{}),
				SourceMsgID: sourceID,
			})
		}

		for _, cmd := range updates {
			post := db.FindPost(cmd.PostID)
			if post == nil {
				zap.L().Warn("帖子不存在，更新跳过", zap.String("postId", cmd.PostID))
				continue
			}
			if cmd.Action == "like" {
				post.AddLike(cmd.ActorID)
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("论坛写入失败", zap.Error(err))
		return false
	}
	return changed
}

func (s *Service) deleteForumBySource(ctx context.Context, sourceID string) {
	err := s.docs.UpdateForum(ctx, func(db *model.ForumDB) error {
		cleanForumBySource(db, sourceID)
		return nil
	})
	if err != nil {
		zap.L().Error("论坛清理失败", zap.Error(err))
	}
}

// cleanForumBySource 移除该来源的帖子，以及存留帖子下该来源的回复
// 返回是否删除了任何内容
func cleanForumBySource(db *model.ForumDB, sourceID string) bool {
	removed := false
	for _, board := range *db {
		if board == nil {
			continue
		}
		keptPosts := board.Posts[:0]
		for _, post := range board.Posts {
			if post == nil || post.SourceMsgID == sourceID {
				removed = true
				continue
			}
			keptReplies := post.Replies[:0]
			for _, r := range post.Replies {
				if r.SourceMsgID != sourceID {
					keptReplies = append(keptReplies, r)
				} else {
					removed = true
				}
			}
			post.Replies = keptReplies
			keptPosts = append(keptPosts, post)
		}
		board.Posts = keptPosts
	}
	return removed
}
