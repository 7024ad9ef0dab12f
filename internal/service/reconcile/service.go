// Package reconcile 实现文档对账引擎：把一个回合的指令批次落入各命名文档
// 同一回合可被反复处理（上游编辑/重新生成），按来源标识先清理后写入保证幂等
package reconcile

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phone_sim_server/internal/dao/store"
	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/parser"
	"phone_sim_server/internal/service/appstate"
)

// Notifier 推送边界：横幅通知、来电、通话台词、界面刷新
// 由 websocket 网关实现，测试用桩替代
type Notifier interface {
	ShowNotification(contactID, displayName, preview, app string)
	IncomingCall(contactID, name string)
	CallUpdate(kind, contactID, name, content string)
	SignalRefresh(Refresh)
}

// Refresh 本回合改动到的区域，推给渲染层决定重绘范围
type Refresh struct {
	Chat       bool `json:"chat"`
	Email      bool `json:"email"`
	Moments    bool `json:"moments"`
	Profile    bool `json:"profile"`
	Browser    bool `json:"browser"`
	Forum      bool `json:"forum"`
	LiveCenter bool `json:"livecenter"`
}

func newUID() string { return uuid.NewString() }

func (r Refresh) any() bool {
	return r.Chat || r.Email || r.Moments || r.Profile || r.Browser || r.Forum || r.LiveCenter
}

// Service 对账引擎
type Service struct {
	// 回合锁：同一时刻只处理一个回合，文档级读改写不跨回合交错
	mu       sync.Mutex
	state    *appstate.State
	docs     *store.Documents
	notifier Notifier
}

func New(state *appstate.State, notifier Notifier) *Service {
	return &Service{state: state, docs: state.Docs(), notifier: notifier}
}

// batch 一个回合的指令，按种类分组
type batch struct {
	chats          []command.Chat
	friendRequests []command.FriendRequest
	moments        []command.Moment
	momentUpdates  []command.MomentUpdate
	profileUpdates []command.ProfileUpdate
	emails         []command.Email
	incomingCalls  []command.IncomingCall
	voiceCalls     []command.VoiceCall
	phoneCalls     []command.PhoneCall
	forumPosts     []command.ForumPost
	forumReplies   []command.ForumReply
	forumUpdates   []command.ForumUpdate
	liveDirs       []command.LiveDirectory
	liveStatuses   []command.LiveStatus
	searches       []command.BrowserSearch
	pages          []command.BrowserPage
}

func groupCommands(cmds []command.Command) *batch {
	b := &batch{}
	for _, c := range cmds {
		switch v := c.(type) {
		case command.Chat:
			b.chats = append(b.chats, v)
		case command.FriendRequest:
			b.friendRequests = append(b.friendRequests, v)
		case command.Moment:
			b.moments = append(b.moments, v)
		case command.MomentUpdate:
			b.momentUpdates = append(b.momentUpdates, v)
		case command.ProfileUpdate:
			b.profileUpdates = append(b.profileUpdates, v)
		case command.Email:
			b.emails = append(b.emails, v)
		case command.IncomingCall:
			b.incomingCalls = append(b.incomingCalls, v)
		case command.VoiceCall:
			b.voiceCalls = append(b.voiceCalls, v)
		case command.PhoneCall:
			b.phoneCalls = append(b.phoneCalls, v)
		case command.ForumPost:
			b.forumPosts = append(b.forumPosts, v)
		case command.ForumReply:
			b.forumReplies = append(b.forumReplies, v)
		case command.ForumUpdate:
			b.forumUpdates = append(b.forumUpdates, v)
		case command.LiveDirectory:
			b.liveDirs = append(b.liveDirs, v)
		case command.LiveStatus:
			b.liveStatuses = append(b.liveStatuses, v)
		case command.BrowserSearch:
			b.searches = append(b.searches, v)
		case command.BrowserPage:
			b.pages = append(b.pages, v)
		}
	}
	return b
}

// ProcessTurn 处理一个回合的原始文本
// 流程：刷新世界时钟 -> 逐行解析 -> 分组 -> 按区域落库（每个文档先清理同源旧数据）->
// 重建镜像 -> 推送刷新。单个文档写失败只记日志，不影响其余文档
func (s *Service) ProcessTurn(ctx context.Context, sourceID, rawText string) Refresh {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.UpdateClockFromText(rawText)

	var cmds []command.Command
	for _, line := range strings.Split(rawText, "\n") {
		if cmd := parser.ParseCommand(strings.TrimRight(line, "\r")); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	b := groupCommands(cmds)

	var refresh Refresh

	// 邮件与来电：来电只弹窗不落库
	if s.applyEmails(ctx, sourceID, b.emails) {
		refresh.Email = true
	}
	for _, c := range b.incomingCalls {
		s.notifier.IncomingCall(c.FromID, c.FromName)
	}

	if len(b.profileUpdates) > 0 && s.applyProfileUpdates(ctx, b.profileUpdates) {
		refresh.Profile = true
	}
	if len(b.searches) > 0 && s.applySearchResults(ctx, sourceID, b.searches) {
		refresh.Browser = true
	}
	if len(b.pages) > 0 && s.applyWebpages(ctx, sourceID, b.pages) {
		refresh.Browser = true
	}
	if len(b.friendRequests) > 0 && s.applyFriendRequests(ctx, b.friendRequests) {
		refresh.Chat = true
	}
	// 聊天/论坛/动态无论本回合有无对应指令都要过一遍：
	// 编辑后的回合可能删掉了原有指令，清理必须照常发生
	if s.applyChats(ctx, sourceID, b.chats) {
		refresh.Chat = true
	}
	if s.applyForum(ctx, sourceID, b.forumPosts, b.forumReplies, b.forumUpdates) {
		refresh.Forum = true
	}
	if len(b.liveDirs) > 0 || len(b.liveStatuses) > 0 {
		if s.applyLiveCenter(ctx, sourceID, b.liveDirs, b.liveStatuses) {
			refresh.LiveCenter = true
		}
	}
	if s.applyMoments(ctx, sourceID, b.moments, b.momentUpdates) {
		refresh.Moments = true
	}

	for _, c := range b.voiceCalls {
		s.notifier.CallUpdate("voice", c.ContactID, c.Name, c.Content)
	}
	for _, c := range b.phoneCalls {
		s.notifier.CallUpdate("phone", c.ContactID, c.Name, c.Content)
	}

	if refresh.any() {
		if err := s.state.RefreshAll(ctx); err != nil {
			zap.L().Error("重建内存镜像失败", zap.Error(err))
		}
		s.notifier.SignalRefresh(refresh)
	}
	return refresh
}

// DeleteBySource 整回合删除：把该来源写入的实体从所有文档移除，未读对称回退
func (s *Service) DeleteBySource(ctx context.Context, sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteChatBySource(ctx, sourceID)
	s.deleteEmailsBySource(ctx, sourceID)
	s.deleteBrowserBySource(ctx, sourceID)
	s.deleteForumBySource(ctx, sourceID)
	s.deleteLiveBySource(ctx, sourceID)

	if err := s.state.RefreshAll(ctx); err != nil {
		zap.L().Error("重建内存镜像失败", zap.Error(err))
	}
	s.notifier.SignalRefresh(Refresh{
		Chat: true, Email: true, Moments: true,
		Browser: true, Forum: true, LiveCenter: true,
	})
}
