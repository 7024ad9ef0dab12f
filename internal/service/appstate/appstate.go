// Package appstate 持有运行期易失状态：文档内存镜像、暂存列表、世界时钟、当前会话
// 显式结构体 + 依赖注入，所有跨协程访问走内部读写锁
package appstate

import (
	"context"
	"sort"
	"sync"
	"time"

	"phone_sim_server/internal/dao/store"
	"phone_sim_server/internal/model"
	"phone_sim_server/internal/parser"
	"phone_sim_server/pkg/constants"
)

// State 运行期状态
type State struct {
	mu   sync.RWMutex
	docs *store.Documents

	clock *parser.WorldClock

	playerNickname  string
	activeContactID string

	// 各文档的内存镜像，每次落库后由 RefreshAll 重建
	contacts  model.ChatDB
	directory model.DirectoryDB
	emails    model.EmailDB
	callLogs  model.CallLogDB
	browser   model.BrowserDB
	forum     model.ForumDB
	live      model.LiveCenterDB
	moments   []model.Moment // 全联系人动态平铺，按时间倒序

	stagedMessages []model.StagedMessage
	stagedActions  []model.StagedAction

	// 玩家发起的浏览器搜索词，下一批搜索结果指令落库时取走
	pendingSearchTerm string
}

// New 构造空状态，镜像在首次 RefreshAll 前为空
func New(docs *store.Documents) *State {
	return &State{
		docs:           docs,
		clock:          parser.NewWorldClock(),
		playerNickname: constants.DefaultPlayerNickname,
	}
}

// RefreshAll 从存储重建全部镜像
// 任一文档读取失败立即返回，镜像保持旧值
func (s *State) RefreshAll(ctx context.Context) error {
	contacts, err := s.docs.Chat(ctx)
	if err != nil {
		return err
	}
	directory, err := s.docs.Directory(ctx)
	if err != nil {
		return err
	}
	emails, err := s.docs.Emails(ctx)
	if err != nil {
		return err
	}
	callLogs, err := s.docs.CallLogs(ctx)
	if err != nil {
		return err
	}
	browser, err := s.docs.Browser(ctx)
	if err != nil {
		return err
	}
	forum, err := s.docs.Forum(ctx)
	if err != nil {
		return err
	}
	live, err := s.docs.Live(ctx)
	if err != nil {
		return err
	}

	var moments []model.Moment
	for _, c := range contacts {
		if c != nil {
			moments = append(moments, c.Moments...)
		}
	}
	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].Timestamp.After(moments[j].Timestamp)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = contacts
	s.directory = directory
	s.emails = emails
	s.callLogs = callLogs
	s.browser = browser
	s.forum = forum
	s.live = live
	s.moments = moments
	return nil
}

// Docs 文档漏斗入口
func (s *State) Docs() *store.Documents { return s.docs }

func (s *State) Contacts() model.ChatDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts
}

func (s *State) Directory() model.DirectoryDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory
}

func (s *State) Emails() model.EmailDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emails
}

func (s *State) CallLogs() model.CallLogDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callLogs
}

func (s *State) Browser() model.BrowserDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.browser
}

func (s *State) Forum() model.ForumDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forum
}

func (s *State) Live() model.LiveCenterDB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Moments 全联系人动态，时间倒序
func (s *State) Moments() []model.Moment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moments
}

func (s *State) PlayerNickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerNickname
}

func (s *State) SetPlayerNickname(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerNickname = name
}

func (s *State) ActiveContactID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeContactID
}

// SetActiveContact 记录当前打开的会话，空串表示离开会话界面
func (s *State) SetActiveContact(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeContactID = id
}

// ContactName 联系人显示名（镜像数据）
func (s *State) ContactName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts[id].DisplayName(id)
}

// SetPendingSearch 记录进行中的浏览器搜索词
func (s *State) SetPendingSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingSearchTerm = term
}

// TakePendingSearch 取走并清空搜索词
func (s *State) TakePendingSearch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	term := s.pendingSearchTerm
	s.pendingSearchTerm = ""
	return term
}

// ===== 世界时钟 =====

// UpdateClockFromText 从叙事文本刷新世界时钟
func (s *State) UpdateClockFromText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.UpdateFromText(text)
}

// Synthesize 把 "HH:MM" 合成完整时间戳
func (s *State) Synthesize(tod string, last time.Time) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock.Synthesize(tod, last)
}

// ClockNow 世界时钟当前时刻
func (s *State) ClockNow() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock.Now()
}

// NextPlayerTimestamp 暂存消息的占位时间戳：
// 当前会话（含已暂存消息）最后一条消息时间 + 1 分钟；无会话或无消息时取真实当前时间
func (s *State) NextPlayerTimestamp() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeContactID == "" {
		return time.Now()
	}
	c := s.contacts[s.activeContactID]
	var last time.Time
	if c != nil && c.AppData.WeChat != nil {
		for _, msg := range c.AppData.WeChat.Messages {
			if msg.Timestamp.After(last) {
				last = msg.Timestamp
			}
		}
	}
	for _, sm := range s.stagedMessages {
		if sm.ContactID == s.activeContactID && sm.Message.Timestamp.After(last) {
			last = sm.Message.Timestamp
		}
	}
	if last.IsZero() {
		return time.Now()
	}
	return last.Add(time.Minute)
}

// ===== 暂存列表 =====

func (s *State) StagedMessages() []model.StagedMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StagedMessage, len(s.stagedMessages))
	copy(out, s.stagedMessages)
	return out
}

func (s *State) StagedActions() []model.StagedAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StagedAction, len(s.stagedActions))
	copy(out, s.stagedActions)
	return out
}

func (s *State) AppendStagedMessage(m model.StagedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stagedMessages = append(s.stagedMessages, m)
}

func (s *State) AppendStagedAction(a model.StagedAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stagedActions = append(s.stagedActions, a)
}

// RemoveStagedMessage 按 uid 删除暂存消息，返回是否命中
func (s *State) RemoveStagedMessage(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sm := range s.stagedMessages {
		if sm.Message.UID == uid {
			s.stagedMessages = append(s.stagedMessages[:i], s.stagedMessages[i+1:]...)
			return true
		}
	}
	return false
}

// MutateStagedMessage 按 uid 原地修改暂存消息，返回是否命中
func (s *State) MutateStagedMessage(uid string, fn func(*model.StagedMessage)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stagedMessages {
		if s.stagedMessages[i].Message.UID == uid {
			fn(&s.stagedMessages[i])
			return true
		}
	}
	return false
}

// SnapshotAndClear 原子取走全部暂存项，提交流程入口
func (s *State) SnapshotAndClear() ([]model.StagedMessage, []model.StagedAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, acts := s.stagedMessages, s.stagedActions
	s.stagedMessages = nil
	s.stagedActions = nil
	return msgs, acts
}

// ClearStaged 丢弃全部暂存项（重置操作）
func (s *State) ClearStaged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stagedMessages = nil
	s.stagedActions = nil
}

// ===== 查找 =====

// FindMessageByUID 在全部会话中按 uid 查消息，返回所在联系人 ID 与消息副本
func (s *State) FindMessageByUID(uid string) (string, *model.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for contactID, c := range s.contacts {
		if c == nil || c.AppData.WeChat == nil {
			continue
		}
		for i := range c.AppData.WeChat.Messages {
			if c.AppData.WeChat.Messages[i].UID == uid {
				msg := c.AppData.WeChat.Messages[i]
				return contactID, &msg
			}
		}
	}
	return "", nil
}

// FindMomentByID 按 momentId 查动态，返回动态主联系人 ID 与动态副本
func (s *State) FindMomentByID(momentID string) (string, *model.Moment) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for contactID, c := range s.contacts {
		if c == nil {
			continue
		}
		for i := range c.Moments {
			if c.Moments[i].MomentID == momentID {
				m := c.Moments[i]
				return contactID, &m
			}
		}
	}
	return "", nil
}

// FindMomentCommentByUID 按评论 uid 查评论，返回所属动态 ID 与评论副本
func (s *State) FindMomentCommentByUID(uid string) (string, *model.MomentComment) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c == nil {
			continue
		}
		for i := range c.Moments {
			for j := range c.Moments[i].Comments {
				if c.Moments[i].Comments[j].UID == uid {
					cm := c.Moments[i].Comments[j]
					return c.Moments[i].MomentID, &cm
				}
			}
		}
	}
	return "", nil
}

// FindForumPostByID 按帖子 ID 查帖子（镜像数据）
func (s *State) FindForumPostByID(postID string) *model.ForumPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forum.FindPost(postID)
}

// FindForumReplyByID 按回复 ID 查回复，返回所属帖子 ID 与回复副本
func (s *State) FindForumReplyByID(replyID string) (string, *model.ForumReply) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, board := range s.forum {
		if board == nil {
			continue
		}
		for _, post := range board.Posts {
			if post == nil {
				continue
			}
			for i := range post.Replies {
				if post.Replies[i].ReplyID == replyID {
					r := post.Replies[i]
					return post.PostID, &r
				}
			}
		}
	}
	return "", nil
}

// FindLiveStream 按主播 ID 查目录条目，返回条目副本与所在板块 ID
func (s *State) FindLiveStream(streamerID string) (*model.LiveStream, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream, boardID := s.live.FindStream(streamerID)
	if stream == nil {
		return nil, ""
	}
	cp := *stream
	return &cp, boardID
}

// PendingFriendRequests 待处理好友请求（镜像数据）
func (s *State) PendingFriendRequests() []model.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.FriendRequest
	for _, fr := range s.directory.FriendRequests {
		if fr.Status == model.RequestPending {
			out = append(out, fr)
		}
	}
	return out
}
