// 本文件实现提交流程：原子取走暂存区，鉴权过滤，拼装中文摘要，
// 落库后把摘要作为系统提示回推生成宿主
package staging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phone_sim_server/internal/model"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/pkg/constants"
)

const (
	promptHeader = "(系统提示：{{user}}刚刚在手机上进行了如下操作：\n"
	promptFooter = "请根据以上操作，继续推演角色的反应和接下来的剧情。)"
)

// Commit 提交全部暂存项
// 暂存区为空时是空操作；删除/修改类操作的目标不属于玩家时被静默丢弃，
// 既不落库也不进入摘要
func (s *Service) Commit(ctx context.Context) error {
	msgs, acts := s.state.SnapshotAndClear()
	if len(msgs) == 0 && len(acts) == 0 {
		return nil
	}

	// 目标联系人不存在的暂存消息整体丢弃
	contacts := s.state.Contacts()
	kept := msgs[:0]
	for _, m := range msgs {
		if contacts[m.ContactID] == nil {
			zap.L().Warn("暂存消息的联系人不存在，丢弃", zap.String("contactId", m.ContactID))
			continue
		}
		kept = append(kept, m)
	}
	msgs = kept

	authorized := make([]model.StagedAction, 0, len(acts))
	for _, a := range acts {
		if !s.isAuthorized(a, acts) {
			zap.L().Warn("操作目标不属于玩家，丢弃", zap.String("type", a.Type))
			continue
		}
		authorized = append(authorized, a)
	}
	acts = authorized

	lines := s.summaryLines(msgs, acts)

	if err := s.persistChat(ctx, msgs, acts); err != nil {
		zap.L().Error("提交聊天文档失败", zap.Error(err))
	}
	if err := s.persistForum(ctx, acts); err != nil {
		zap.L().Error("提交论坛文档失败", zap.Error(err))
	}

	if len(lines) > 0 {
		prompt := promptHeader + strings.Join(lines, "") + promptFooter
		if err := s.trigger.Generate(ctx, prompt); err != nil {
			zap.L().Error("提交摘要触发生成失败", zap.Error(err))
		}
	}

	s.refresh(ctx, reconcile.Refresh{
		Chat: true, Email: true, Moments: true, Profile: true,
		Browser: true, Forum: true, LiveCenter: true,
	})
	return nil
}

// isAuthorized 删除/修改类操作只允许作用于玩家自己发布的内容
// 同一批次内刚暂存的新内容视为玩家所有
func (s *Service) isAuthorized(a model.StagedAction, batch []model.StagedAction) bool {
	gated := strings.HasPrefix(a.Type, "delete_") || strings.HasPrefix(a.Type, "edit_")
	if !gated {
		return true
	}
	switch a.Type {
	case model.ActionDeleteMoment, model.ActionEditMoment:
		if _, m := s.state.FindMomentByID(a.MomentID); m != nil {
			return m.PosterID == constants.PlayerID
		}
	case model.ActionDeleteComment, model.ActionEditComment:
		if _, c := s.state.FindMomentCommentByUID(a.CommentID); c != nil {
			return c.CommenterID == constants.PlayerID
		}
		// 同批次暂存的评论
		for _, b := range batch {
			if b.Type == model.ActionComment && b.CommentID != "" && b.CommentID == a.CommentID {
				return true
			}
		}
	case model.ActionDeleteForumPost, model.ActionEditForumPost:
		if p := s.findPost(a.PostID, batch); p != nil {
			return p.AuthorID == constants.PlayerID
		}
	case model.ActionDeleteForumReply, model.ActionEditForumReply:
		if _, r := s.state.FindForumReplyByID(a.ReplyID); r != nil {
			return r.AuthorID == constants.PlayerID
		}
		for _, b := range batch {
			if b.Type == model.ActionNewForumReply && b.ReplyID != "" && b.ReplyID == a.ReplyID {
				return true
			}
		}
	}
	return false
}

// findPost 先查镜像，再查同批次暂存的新帖
func (s *Service) findPost(postID string, batch []model.StagedAction) *model.ForumPost {
	if p := s.state.FindForumPostByID(postID); p != nil {
		return p
	}
	for _, b := range batch {
		if b.Type == model.ActionNewForumPost && b.PostID == postID {
			return &model.ForumPost{
				PostID:   b.PostID,
				AuthorID: constants.PlayerID,
				Title:    b.Title,
			}
		}
	}
	return nil
}

// summaryLines 逐项生成摘要行，查不到上下文的操作不产出行
func (s *Service) summaryLines(msgs []model.StagedMessage, acts []model.StagedAction) []string {
	var lines []string

	contacts := s.state.Contacts()
	for _, m := range msgs {
		c := contacts[m.ContactID]
		name := c.DisplayName(m.ContactID)
		scope := "私聊"
		if c.Profile.GroupName != "" {
			scope = "群聊"
		}
		content := m.DescriptionForAI
		if content == "" {
			content = m.Message.Content.Preview()
		}
		if m.Message.ReplyingTo != "" {
			sender := "某人"
			if _, orig := s.state.FindMessageByUID(m.Message.ReplyingTo); orig != nil {
				sender = s.contactName(orig.SenderID)
			}
			lines = append(lines, fmt.Sprintf("- 在[%s:%s]中回复了%s的消息，并发送：“%s”\n", scope, name, sender, content))
		} else {
			lines = append(lines, fmt.Sprintf("- 在[%s:%s]中发送消息：“%s”\n", scope, name, content))
		}
	}

	for _, a := range acts {
		if line := s.actionLine(a, acts); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (s *Service) actionLine(a model.StagedAction, batch []model.StagedAction) string {
	switch a.Type {
	case model.ActionManualAddFriend:
		return fmt.Sprintf("- 通过手机号“%s”添加了新联系人“%s”。\n", a.ID, a.Nickname)

	case model.ActionAcceptTransaction:
		_, msg := s.state.FindMessageByUID(a.UID)
		if msg == nil {
			return ""
		}
		kind := "转账"
		if p := msg.Content.Single(); p != nil && p.Type == model.PartRedPacket {
			kind = "红包"
		}
		return fmt.Sprintf("- 接收了%s的%s。\n", s.contactName(msg.SenderID), kind)

	case model.ActionCreateGroup:
		return fmt.Sprintf("- 创建了群聊“%s”，并邀请了%s加入。\n", a.GroupName, s.quotedNames(a.MemberIDs))

	case model.ActionKickMember:
		return fmt.Sprintf("- 在群聊“%s”中将“%s”移出群聊。\n", s.groupName(a.GroupID), s.contactName(a.MemberID))

	case model.ActionInviteMembers:
		return fmt.Sprintf("- 在群聊“%s”中邀请了%s加入群聊。\n", s.groupName(a.GroupID), s.quotedNames(a.MemberIDs))

	case model.ActionNewMoment:
		suffix := ""
		if len(a.Images) > 0 {
			suffix = " [附图片]"
		}
		return fmt.Sprintf("- 发表了新动态：“%s”%s\n", a.Content, suffix)

	case model.ActionLike:
		_, m := s.state.FindMomentByID(a.MomentID)
		if m == nil {
			return ""
		}
		return fmt.Sprintf("- 点赞了%s的动态\n", s.contactName(m.PosterID))

	case model.ActionComment:
		_, m := s.state.FindMomentByID(a.MomentID)
		if m == nil {
			return ""
		}
		return fmt.Sprintf("- 评论了%s的动态：“%s”\n", s.contactName(m.PosterID), a.Content)

	case model.ActionEditComment:
		_, m := s.state.FindMomentByID(a.MomentID)
		if m == nil {
			return ""
		}
		return fmt.Sprintf("- 修改了对%s动态的评论为：“%s”\n", s.contactName(m.PosterID), a.Content)

	case model.ActionRecallComment:
		_, m := s.state.FindMomentByID(a.MomentID)
		if m == nil {
			return ""
		}
		return fmt.Sprintf("- 撤回了对%s动态的一条评论\n", s.contactName(m.PosterID))

	case model.ActionDeleteComment:
		return "- 删除了自己在一条动态下的评论\n"

	case model.ActionEditMoment:
		return fmt.Sprintf("- 修改了自己的动态：“%s”\n", a.Content)

	case model.ActionDeleteMoment:
		return "- 删除了自己发布的一条动态\n"

	case model.ActionFriendRequestResponse:
		verb := "忽略了"
		if a.Action == "accept" {
			verb = "接受了"
		}
		return fmt.Sprintf("- %s%s的好友请求\n", verb, a.FromName)

	case model.ActionNewForumPost:
		return fmt.Sprintf("- 在论坛“%s”板块发表了新帖子（帖子ID: %s），标题为“%s”，内容为“%s”\n", a.BoardName, a.PostID, a.Title, a.Content)

	case model.ActionNewLiveStream:
		return fmt.Sprintf("- 在直播中心“%s”板块创建了新的直播间，标题为“%s”，直播简介为“%s”\n", a.BoardName, a.Title, a.Content)

	case model.ActionNewForumReply:
		post := s.findPost(a.PostID, batch)
		if post == nil {
			return ""
		}
		return fmt.Sprintf("- 回复了%s的论坛帖子“%s”：“%s”\n", s.contactName(post.AuthorID), post.Title, a.Content)

	case model.ActionLikeForumPost:
		post := s.findPost(a.PostID, batch)
		if post == nil {
			return ""
		}
		return fmt.Sprintf("- 点赞了%s的论坛帖子“%s”\n", s.contactName(post.AuthorID), post.Title)

	case model.ActionEditForumPost:
		post := s.findPost(a.PostID, batch)
		if post == nil {
			return ""
		}
		return fmt.Sprintf("- 修改了论坛帖子“%s”的内容为：“%s”\n", post.Title, a.Content)

	case model.ActionDeleteForumPost:
		return "- 删除了自己在论坛发表的帖子\n"

	case model.ActionEditForumReply:
		return fmt.Sprintf("- 修改了在论坛中的一条回复为：“%s”\n", a.Content)

	case model.ActionDeleteForumReply:
		return "- 删除了自己在论坛发表的一条回复\n"

	case model.ActionNewDanmaku:
		stream, _ := s.state.FindLiveStream(a.StreamerID)
		if stream == nil {
			return ""
		}
		name := stream.StreamerName
		if name == "" {
			name = stream.StreamerID
		}
		return fmt.Sprintf("- 在%s的直播间发送了弹幕：“%s”\n", name, a.Content)
	}
	return ""
}

// quotedNames 成员 ID 列表转为 “甲”、“乙” 形式
func (s *Service) quotedNames(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, "“"+s.contactName(id)+"”")
	}
	return strings.Join(names, "、")
}

func (s *Service) groupName(groupID string) string {
	if c := s.state.Contacts()[groupID]; c != nil && c.Profile.GroupName != "" {
		return c.Profile.GroupName
	}
	return groupID
}

// persistChat 把暂存消息和聊天域操作写入聊天文档
func (s *Service) persistChat(ctx context.Context, msgs []model.StagedMessage, acts []model.StagedAction) error {
	var chatActs []model.StagedAction
	for _, a := range acts {
		switch a.Type {
		case model.ActionAcceptTransaction, model.ActionDeleteMoment, model.ActionDeleteComment,
			model.ActionEditMoment, model.ActionEditComment, model.ActionRecallComment:
			chatActs = append(chatActs, a)
		}
	}
	if len(msgs) == 0 && len(chatActs) == 0 {
		return nil
	}

	return s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for _, m := range msgs {
			c := (*db)[m.ContactID]
			if c == nil {
				continue
			}
			c.Thread().Messages = append(c.Thread().Messages, m.Message)
		}

		for _, a := range chatActs {
			switch a.Type {
			case model.ActionAcceptTransaction:
				claimTransaction(*db, a.UID)
			case model.ActionDeleteMoment:
				for _, c := range *db {
					if c == nil {
						continue
					}
					kept := c.Moments[:0]
					for _, m := range c.Moments {
						if m.MomentID != a.MomentID {
							kept = append(kept, m)
						}
					}
					c.Moments = kept
				}
			case model.ActionEditMoment:
				if m := findMoment(*db, a.MomentID); m != nil {
					m.Content = model.Text(a.Content)
				}
			case model.ActionDeleteComment:
				if m := findMoment(*db, a.MomentID); m != nil {
					kept := m.Comments[:0]
					for _, c := range m.Comments {
						if c.UID != a.CommentID {
							kept = append(kept, c)
						}
					}
					m.Comments = kept
				}
			case model.ActionEditComment:
				if c := findComment(*db, a.MomentID, a.CommentID); c != nil {
					c.Text = a.Content
				}
			case model.ActionRecallComment:
				if c := findComment(*db, a.MomentID, a.CommentID); c != nil {
					c.Recalled = true
				}
			}
		}
		return nil
	})
}

// persistForum 把论坛域操作写入论坛文档
// 同批次内先建帖后回复也能命中：操作按暂存顺序执行
func (s *Service) persistForum(ctx context.Context, acts []model.StagedAction) error {
	var forumActs []model.StagedAction
	for _, a := range acts {
		if strings.Contains(a.Type, "forum") {
			forumActs = append(forumActs, a)
		}
	}
	if len(forumActs) == 0 {
		return nil
	}

	nickname := s.state.PlayerNickname()
	return s.docs.UpdateForum(ctx, func(db *model.ForumDB) error {
		for _, a := range forumActs {
			switch a.Type {
			case model.ActionNewForumPost:
				boardID := a.BoardID
				if boardID == "" {
					boardID = strings.ReplaceAll(strings.ToLower(a.BoardName), " ", "_")
				}
				board := (*db)[boardID]
				if board == nil {
					board = &model.ForumBoard{BoardName: a.BoardName}
					(*db)[boardID] = board
				}
				board.Posts = append(board.Posts, &model.ForumPost{
					PostID:     a.PostID,
					BoardID:    boardID,
					AuthorID:   constants.PlayerID,
					AuthorName: nickname,
					Title:      a.Title,
					Content:    model.Text(a.Content),
					Timestamp:  time.Now(),
					Replies:    []model.ForumReply{},
					Likes:      []string{},
				})
			case model.ActionNewForumReply:
				post := db.FindPost(a.PostID)
				if post == nil {
					continue
				}
				replyID := a.ReplyID
				if replyID == "" {
					replyID = "reply_" + uuid.NewString()
				}
				post.Replies = append(post.Replies, model.ForumReply{
					ReplyID:    replyID,
					PostID:     a.PostID,
					AuthorID:   constants.PlayerID,
					AuthorName: nickname,
					Content:    model.Text(a.Content),
					Timestamp:  time.Now(),
				})
			case model.ActionLikeForumPost:
				if post := db.FindPost(a.PostID); post != nil {
					post.AddLike(constants.PlayerID)
				}
			case model.ActionEditForumPost:
				if post := db.FindPost(a.PostID); post != nil {
					post.Content = model.Text(a.Content)
				}
			case model.ActionDeleteForumPost:
				for _, board := range *db {
					if board == nil {
						continue
					}
					keptPosts := board.Posts[:0]
					for _, p := range board.Posts {
						if p != nil && p.PostID != a.PostID {
							keptPosts = append(keptPosts, p)
						}
					}
					board.Posts = keptPosts
				}
			case model.ActionEditForumReply:
				if r := findReply(*db, a.ReplyID); r != nil {
					r.Content = model.Text(a.Content)
				}
			case model.ActionDeleteForumReply:
				for _, board := range *db {
					if board == nil {
						continue
					}
					for _, p := range board.Posts {
						if p == nil {
							continue
						}
						keptReplies := p.Replies[:0]
						for _, r := range p.Replies {
							if r.ReplyID != a.ReplyID {
								keptReplies = append(keptReplies, r)
							}
						}
						p.Replies = keptReplies
					}
				}
			}
		}
		return nil
	})
}

func claimTransaction(db model.ChatDB, uid string) {
	for _, c := range db {
		if c == nil || c.AppData.WeChat == nil {
			continue
		}
		for i := range c.AppData.WeChat.Messages {
			if c.AppData.WeChat.Messages[i].UID == uid {
				c.AppData.WeChat.Messages[i].Content.Claim()
				return
			}
		}
	}
}

func findMoment(db model.ChatDB, momentID string) *model.Moment {
	for _, c := range db {
		if c == nil {
			continue
		}
		for i := range c.Moments {
			if c.Moments[i].MomentID == momentID {
				return &c.Moments[i]
			}
		}
	}
	return nil
}

func findComment(db model.ChatDB, momentID, commentUID string) *model.MomentComment {
	m := findMoment(db, momentID)
	if m == nil {
		return nil
	}
	for i := range m.Comments {
		if m.Comments[i].UID == commentUID {
			return &m.Comments[i]
		}
	}
	return nil
}

func findReply(db model.ForumDB, replyID string) *model.ForumReply {
	for _, board := range db {
		if board == nil {
			continue
		}
		for _, p := range board.Posts {
			if p == nil {
				continue
			}
			for i := range p.Replies {
				if p.Replies[i].ReplyID == replyID {
					return &p.Replies[i]
				}
			}
		}
	}
	return nil
}
