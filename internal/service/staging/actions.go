// 本文件实现即时生效的本地操作：消息删除/编辑/撤回、邮件已读/删除、
// 通话记录、未读清零、联系人增删、各类清空和浏览器书签/历史维护
// 这些操作不进暂存区，直接写文档并刷新镜像
package staging

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"phone_sim_server/internal/model"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/pkg/constants"
	"phone_sim_server/pkg/errorx"
)

// DeleteMessage 按 uid 删除消息，先查暂存区再查聊天文档
func (s *Service) DeleteMessage(ctx context.Context, uid string) error {
	if s.state.RemoveStagedMessage(uid) {
		s.notifier.SignalRefresh(reconcile.Refresh{Chat: true})
		return nil
	}
	found := false
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for _, c := range *db {
			if c == nil || c.AppData.WeChat == nil {
				continue
			}
			for i := range c.AppData.WeChat.Messages {
				if c.AppData.WeChat.Messages[i].UID == uid {
					c.AppData.WeChat.Messages = append(c.AppData.WeChat.Messages[:i], c.AppData.WeChat.Messages[i+1:]...)
					found = true
					return nil
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return errorx.ErrNotFound
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// EditMessage 按 uid 修改消息正文，撤回标记被清除
func (s *Service) EditMessage(ctx context.Context, uid string, content model.Content) error {
	return s.modifyMessage(ctx, uid, func(msg *model.Message) {
		msg.Content = content
		msg.Recalled = false
	})
}

// RecallMessage 按 uid 撤回消息：正文替换为撤回提示并打上标记
func (s *Service) RecallMessage(ctx context.Context, uid string) error {
	return s.modifyMessage(ctx, uid, func(msg *model.Message) {
		name := "你"
		if msg.SenderID != constants.PlayerID {
			name = s.contactName(msg.SenderID)
		}
		msg.Content = model.Text(name + "撤回了一条消息")
		msg.Recalled = true
	})
}

// modifyMessage 先改暂存区，未命中再改聊天文档
func (s *Service) modifyMessage(ctx context.Context, uid string, fn func(*model.Message)) error {
	if s.state.MutateStagedMessage(uid, func(sm *model.StagedMessage) {
		fn(&sm.Message)
	}) {
		s.notifier.SignalRefresh(reconcile.Refresh{Chat: true})
		return nil
	}
	found := false
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for _, c := range *db {
			if c == nil || c.AppData.WeChat == nil {
				continue
			}
			for i := range c.AppData.WeChat.Messages {
				if c.AppData.WeChat.Messages[i].UID == uid {
					fn(&c.AppData.WeChat.Messages[i])
					found = true
					return nil
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return errorx.ErrNotFound
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// MarkEmailRead 邮件置为已读
func (s *Service) MarkEmailRead(ctx context.Context, emailID string) error {
	err := s.docs.UpdateEmails(ctx, func(db *model.EmailDB) error {
		for i := range *db {
			if (*db)[i].ID == emailID {
				(*db)[i].Read = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Email: true})
	return nil
}

// DeleteEmail 按 ID 删除邮件
func (s *Service) DeleteEmail(ctx context.Context, emailID string) error {
	err := s.docs.UpdateEmails(ctx, func(db *model.EmailDB) error {
		kept := (*db)[:0]
		for _, e := range *db {
			if e.ID != emailID {
				kept = append(kept, e)
			}
		}
		*db = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Email: true})
	return nil
}

// LogCall 追加一条通话记录，按时间倒序保存并裁剪到上限
func (s *Service) LogCall(ctx context.Context, record model.CallRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	err := s.docs.UpdateCallLogs(ctx, func(db *model.CallLogDB) error {
		*db = append(*db, record)
		sort.SliceStable(*db, func(i, j int) bool {
			return (*db)[i].Timestamp.After((*db)[j].Timestamp)
		})
		if len(*db) > constants.CallLogLimit {
			*db = (*db)[:constants.CallLogLimit]
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// DeleteCallLog 按时间戳删除通话记录
func (s *Service) DeleteCallLog(ctx context.Context, timestamp time.Time) error {
	err := s.docs.UpdateCallLogs(ctx, func(db *model.CallLogDB) error {
		kept := (*db)[:0]
		for _, r := range *db {
			if !r.Timestamp.Equal(timestamp) {
				kept = append(kept, r)
			}
		}
		*db = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// AddCallEndMessage 通话结束后在会话里补一条通话时长消息
func (s *Service) AddCallEndMessage(ctx context.Context, contactID, duration string) error {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		c := (*db)[contactID]
		if c == nil {
			return nil
		}
		c.Thread().Messages = append(c.Thread().Messages, model.Message{
			UID:       "call_end_" + uuid.NewString(),
			Timestamp: time.Now(),
			SenderID:  constants.PlayerID,
			Content:   model.Rich(model.Part{Type: model.PartCallEnd, Duration: duration}),
		})
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// ResetUnread 打开会话时未读清零
func (s *Service) ResetUnread(ctx context.Context, contactID string) error {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		if c := (*db)[contactID]; c != nil {
			c.Unread = 0
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// AddContact 手动添加联系人：建档、写目录、暂存一条操作告知生成端
func (s *Service) AddContact(ctx context.Context, id, nickname string) error {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		if (*db)[id] == nil {
			(*db)[id] = &model.Contact{
				Profile: model.Profile{Nickname: nickname, Note: nickname},
				AppData: model.AppData{WeChat: &model.ChatThread{Messages: []model.Message{}}},
				Moments: []model.Moment{},
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
		db.SetContact(nickname, id)
		return nil
	}); err != nil {
		return err
	}

	s.state.AppendStagedAction(model.StagedAction{
		Type:     model.ActionManualAddFriend,
		ID:       id,
		Nickname: nickname,
	})
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// DeleteContact 删除联系人：聊天档案、头像和目录映射一并清除
func (s *Service) DeleteContact(ctx context.Context, contactID string) error {
	if err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		delete(*db, contactID)
		return nil
	}); err != nil {
		return err
	}
	if err := s.docs.UpdateAvatars(ctx, func(db *map[string]string) error {
		delete(*db, contactID)
		return nil
	}); err != nil {
		return err
	}
	if err := s.docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
		for name, id := range db.Contacts {
			if id == contactID {
				delete(db.Contacts, name)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true, Moments: true})
	return nil
}

// ClearChatHistory 清空单个会话的消息并把未读清零
// contactID 为空时清空全部会话
func (s *Service) ClearChatHistory(ctx context.Context, contactID string) error {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for id, c := range *db {
			if c == nil || (contactID != "" && id != contactID) {
				continue
			}
			if c.AppData.WeChat != nil {
				c.AppData.WeChat.Messages = []model.Message{}
			}
			c.Unread = 0
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// ClearMoments 清空全部联系人的动态
func (s *Service) ClearMoments(ctx context.Context) error {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for _, c := range *db {
			if c != nil {
				c.Moments = []model.Moment{}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Moments: true})
	return nil
}

// ClearForum 清空论坛文档
func (s *Service) ClearForum(ctx context.Context) error {
	err := s.docs.UpdateForum(ctx, func(db *model.ForumDB) error {
		*db = model.ForumDB{}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Forum: true})
	return nil
}

// ClearLive 清空直播中心文档
func (s *Service) ClearLive(ctx context.Context) error {
	err := s.docs.UpdateLive(ctx, func(db *model.LiveCenterDB) error {
		*db = model.LiveCenterDB{Boards: map[string]*model.LiveBoard{}}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{LiveCenter: true})
	return nil
}

// DeleteForumBoard 删除整个论坛板块
func (s *Service) DeleteForumBoard(ctx context.Context, boardID string) error {
	err := s.docs.UpdateForum(ctx, func(db *model.ForumDB) error {
		delete(*db, boardID)
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Forum: true})
	return nil
}

// ToggleBookmark 书签开关：已存在则移除，否则追加
// 返回操作后该 URL 是否在书签中
func (s *Service) ToggleBookmark(ctx context.Context, url, title string) (bool, error) {
	bookmarked := false
	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		for i := range db.Bookmarks {
			if db.Bookmarks[i].URL == url {
				db.Bookmarks = append(db.Bookmarks[:i], db.Bookmarks[i+1:]...)
				return nil
			}
		}
		db.Bookmarks = append(db.Bookmarks, model.Bookmark{URL: url, Title: title, Timestamp: time.Now()})
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	s.refresh(ctx, reconcile.Refresh{Browser: true})
	return bookmarked, nil
}

// DeleteHistoryItem 删除历史中该 URL 的全部记录
func (s *Service) DeleteHistoryItem(ctx context.Context, url string) error {
	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		kept := db.History[:0]
		for _, h := range db.History {
			if h != url {
				kept = append(kept, h)
			}
		}
		db.History = kept
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Browser: true})
	return nil
}

// ClearHistory 清空浏览历史
func (s *Service) ClearHistory(ctx context.Context) error {
	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		db.History = []string{}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Browser: true})
	return nil
}

// ClearBookmarks 清空书签
func (s *Service) ClearBookmarks(ctx context.Context) error {
	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		db.Bookmarks = []model.Bookmark{}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, reconcile.Refresh{Browser: true})
	return nil
}
