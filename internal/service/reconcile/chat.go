// 本文件处理聊天类指令：私聊/群聊/系统提示落库、联系人与群的创建、
// 目录维护、未读计数和横幅通知
package reconcile

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
	"phone_sim_server/pkg/constants"
)

// countsUnread 未读/清理共用的判定：非玩家发出且不是系统提示
func countsUnread(msg *model.Message) bool {
	return msg.SenderID != constants.PlayerID && !msg.IsSystemNotification
}

// directoryDelta 聊天落库期间累计的目录改动
// 聊天回调内只记录增量，之后在目录文档自己的锁内重放到最新内容上，
// 中途落地的其他目录写入（好友请求处理、手动加人）不会被覆盖
type directoryDelta struct {
	contacts     map[string]string            // 备注 -> 联系人 ID
	groups       map[string]*model.GroupEntry // 群名 -> 新建群目录项
	groupMembers map[string][]string          // 群 ID -> 最新成员显示名
}

func newDirectoryDelta() *directoryDelta {
	return &directoryDelta{
		contacts:     map[string]string{},
		groups:       map[string]*model.GroupEntry{},
		groupMembers: map[string][]string{},
	}
}

func (d *directoryDelta) setContact(name, id string) {
	if name != "" {
		d.contacts[name] = id
	}
}

func (d *directoryDelta) createGroup(name string, entry *model.GroupEntry) {
	if name != "" {
		d.groups[name] = entry
	}
}

func (d *directoryDelta) syncMembers(groupID string, names []string) {
	d.groupMembers[groupID] = names
}

func (d *directoryDelta) empty() bool {
	return len(d.contacts) == 0 && len(d.groups) == 0 && len(d.groupMembers) == 0
}

// apply 把增量重放到目录文档当前内容上
func (d *directoryDelta) apply(db *model.DirectoryDB) {
	for name, id := range d.contacts {
		db.SetContact(name, id)
	}
	for name, entry := range d.groups {
		db.SetGroup(name, entry)
	}
	for groupID, names := range d.groupMembers {
		if entry := db.GroupByID(groupID); entry != nil {
			entry.Members = names
		}
	}
}

// applyChats 聊天指令落库
// 即使本回合没有聊天指令也要执行：同源旧消息的清理必须发生
func (s *Service) applyChats(ctx context.Context, sourceID string, cmds []command.Chat) bool {
	activeID := s.state.ActiveContactID()
	delta := newDirectoryDelta()

	type banner struct {
		contactID, name, preview string
	}
	var banners []banner
	changed := len(cmds) > 0

	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		// 1. 幂等清理：移除同源旧消息并对称回退未读
		for _, c := range *db {
			if c == nil || c.AppData.WeChat == nil {
				continue
			}
			kept := c.AppData.WeChat.Messages[:0]
			removedUnread := 0
			for _, msg := range c.AppData.WeChat.Messages {
				if msg.SourceMsgID == sourceID {
					if countsUnread(&msg) {
						removedUnread++
					}
					continue
				}
				kept = append(kept, msg)
			}
			if len(kept) != len(c.AppData.WeChat.Messages) {
				changed = true
			}
			c.AppData.WeChat.Messages = kept
			if removedUnread > 0 {
				c.Unread = max(0, c.Unread-removedUnread)
			}
		}

		// 2. 清理后的每会话末尾时间，跨天判断的锚点
		lastByContact := map[string]time.Time{}
		for id, c := range *db {
			if c != nil && c.AppData.WeChat != nil {
				if n := len(c.AppData.WeChat.Messages); n > 0 {
					lastByContact[id] = c.AppData.WeChat.Messages[n-1].Timestamp
				}
			}
		}

		for _, cmd := range cmds {
			contactID := cmd.ContactID
			if cmd.IsGroup {
				contactID = "group_" + cmd.GroupID
			}
			if contactID == "" {
				continue
			}

			// 3. 先于引用创建联系人/群
			contact, isNew := (*db)[contactID], false
			if contact == nil {
				isNew = true
				switch {
				case cmd.IsGroup:
					contact = &model.Contact{Profile: model.Profile{GroupName: cmd.GroupName, Members: []string{}}}
					delta.createGroup(cmd.GroupName, &model.GroupEntry{ID: cmd.GroupID, Members: []string{}})
				case cmd.IsSystem:
					// 占位联系人，资料等后续消息补齐
					contact = &model.Contact{Profile: model.Profile{Nickname: contactID}}
				default:
					p := model.Profile{}
					if cmd.Profile != nil {
						p = *cmd.Profile
					}
					contact = &model.Contact{Profile: p}
					delta.setContact(p.Note, contactID)
				}
				(*db)[contactID] = contact
			}
			if !isNew && !cmd.IsGroup && !cmd.IsSystem && cmd.Profile != nil && contact.Profile.Note == "" {
				contact.Profile.Note = cmd.Profile.Note
				contact.Profile.Nickname = cmd.Profile.Nickname
			}
			if !isNew && cmd.IsGroup {
				contact.Profile.GroupName = cmd.GroupName
			}

			// 4. 时间戳合成并入账
			ts := s.state.Synthesize(cmd.Time, lastByContact[contactID])
			lastByContact[contactID] = ts

			senderID := cmd.SenderID
			if senderID == "" {
				senderID = cmd.ContactID
			}
			msg := model.Message{
				UID:                  uuid.NewString(),
				Timestamp:            ts,
				SenderID:             senderID,
				Content:              cmd.Content,
				SourceMsgID:          sourceID,
				IsSystemNotification: cmd.IsSystem,
			}
			msg.Content.MarkUnclaimed()
			contact.Thread().Messages = append(contact.Thread().Messages, msg)

			if contactID != activeID && countsUnread(&msg) {
				contact.Unread++
				banners = append(banners, banner{
					contactID: contactID,
					name:      contact.DisplayName(contactID),
					preview:   msg.Content.Preview(),
				})
			}

			// 5. 群成员累积与目录成员名同步
			if cmd.IsGroup && cmd.SenderID != "" {
				if !contains(contact.Profile.Members, cmd.SenderID) {
					contact.Profile.Members = append(contact.Profile.Members, cmd.SenderID)
				}
				if (*db)[cmd.SenderID] == nil {
					p := model.Profile{Nickname: cmd.SenderID, Note: cmd.SenderID}
					if cmd.SenderProfile != nil {
						p = *cmd.SenderProfile
					}
					(*db)[cmd.SenderID] = &model.Contact{Profile: p}
					delta.setContact(p.Note, cmd.SenderID)
				}
				delta.syncMembers(cmd.GroupID, memberNames(*db, contact.Profile.Members))
			}
		}

		// 6. 每会话消息按时间升序
		for _, c := range *db {
			if c != nil && c.AppData.WeChat != nil {
				msgs := c.AppData.WeChat.Messages
				sort.SliceStable(msgs, func(i, j int) bool {
					return msgs[i].Timestamp.Before(msgs[j].Timestamp)
				})
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("聊天文档写入失败", zap.Error(err))
		return false
	}

	if !delta.empty() {
		if err := s.docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
			delta.apply(db)
			return nil
		}); err != nil {
			zap.L().Error("联系人目录写入失败", zap.Error(err))
		}
	}

	for _, b := range banners {
		s.notifier.ShowNotification(b.contactID, b.name, b.preview, constants.AppWeChat)
	}
	return changed
}

// applyFriendRequests 好友请求追加进目录，状态 pending
func (s *Service) applyFriendRequests(ctx context.Context, cmds []command.FriendRequest) bool {
	err := s.docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
		for _, cmd := range cmds {
			db.FriendRequests = append(db.FriendRequests, model.FriendRequest{
				UID:       "req_" + uuid.NewString(),
				FromID:    cmd.FromID,
				FromName:  cmd.FromName,
				Content:   cmd.Content,
				Timestamp: s.state.Synthesize(cmd.Time, time.Time{}),
				Status:    model.RequestPending,
			})
		}
		return nil
	})
	if err != nil {
		zap.L().Error("好友请求写入失败", zap.Error(err))
		return false
	}
	return true
}

// deleteChatBySource 整回合删除时清理消息与动态，未读对称回退
func (s *Service) deleteChatBySource(ctx context.Context, sourceID string) {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for _, c := range *db {
			if c == nil {
				continue
			}
			if c.AppData.WeChat != nil {
				kept := c.AppData.WeChat.Messages[:0]
				removedUnread := 0
				for _, msg := range c.AppData.WeChat.Messages {
					if msg.SourceMsgID == sourceID {
						if countsUnread(&msg) {
							removedUnread++
						}
						continue
					}
					kept = append(kept, msg)
				}
				c.AppData.WeChat.Messages = kept
				if removedUnread > 0 {
					c.Unread = max(0, c.Unread-removedUnread)
				}
			}
			keptMoments := c.Moments[:0]
			for _, m := range c.Moments {
				if m.SourceMsgID != sourceID {
					keptMoments = append(keptMoments, m)
				}
			}
			c.Moments = keptMoments
		}
		return nil
	})
	if err != nil {
		zap.L().Error("聊天文档清理失败", zap.Error(err))
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// memberNames 群成员 ID 转显示名（备注优先），去重且跳过无名成员
func memberNames(db model.ChatDB, memberIDs []string) []string {
	seen := map[string]bool{}
	var names []string
	for _, id := range memberIDs {
		c := db[id]
		if c == nil {
			continue
		}
		name := c.Profile.Note
		if name == "" {
			name = c.Profile.Nickname
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
