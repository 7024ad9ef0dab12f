// Package command 定义解析边界产出的指令记录
// 每种指令一个结构体，Kind() 为判别字段，下游按种类分派
package command

import "phone_sim_server/internal/model"

// Kind 指令种类判别值
type Kind string

const (
	KindChat          Kind = "chat"
	KindFriendRequest Kind = "friend_request"
	KindMoment        Kind = "moment"
	KindMomentUpdate  Kind = "moment_update"
	KindProfileUpdate Kind = "profile_update"
	KindEmail         Kind = "email"
	KindIncomingCall  Kind = "incoming_call"
	KindVoiceCall     Kind = "voice_call"
	KindPhoneCall     Kind = "phone_call"
	KindForumPost     Kind = "forum_post"
	KindForumReply    Kind = "forum_reply"
	KindForumUpdate   Kind = "forum_update"
	KindLiveDirectory Kind = "live_directory"
	KindLiveStatus    Kind = "live_status"
	KindBrowserPage   Kind = "browser_page"
	KindBrowserSearch Kind = "browser_search"
)

// Command 解析后的一条指令
type Command interface {
	Kind() Kind
}

// Chat 私聊/群聊/系统提示消息
type Chat struct {
	ContactID     string         // 私聊联系人 ID；群聊时为空，使用 GroupID
	GroupID       string         // 群聊裸 ID（不含 group_ 前缀）
	GroupName     string
	SenderID      string
	Profile       *model.Profile // 私聊对端资料（昵称/备注）
	SenderProfile *model.Profile // 群聊发言人资料
	Content       model.Content
	Time          string // "HH:MM"，为空时采用世界时钟当前时刻
	IsGroup       bool
	IsSystem      bool // 系统提示消息，不计未读、不弹横幅
}

func (Chat) Kind() Kind { return KindChat }

// FriendRequest 好友请求
type FriendRequest struct {
	FromID   string
	FromName string
	Content  string
	Time     string
}

func (FriendRequest) Kind() Kind { return KindFriendRequest }

// Moment 新动态
type Moment struct {
	MomentID   string
	PosterID   string
	PosterName string
	Time       string
	Content    model.Content
	Images     []string
	Location   string
	Likes      []string
	Comments   []model.MomentComment
}

func (Moment) Kind() Kind { return KindMoment }

// MomentUpdate 动态更新（点赞/评论）
type MomentUpdate struct {
	MomentID string
	Action   string // "like" 或 "comment"
	ActorID  string
	Content  string
}

func (MomentUpdate) Kind() Kind { return KindMomentUpdate }

// ProfileUpdate 资料更新（签名/封面）
type ProfileUpdate struct {
	ProfileID  string
	Bio        string
	CoverImage string
}

func (ProfileUpdate) Kind() Kind { return KindProfileUpdate }

// Email 新邮件通知
type Email struct {
	FromID         string
	FromName       string
	Subject        string
	Content        string
	AttachmentName string
	AttachmentDesc string
}

func (Email) Kind() Kind { return KindEmail }

// IncomingCall 来电通知
type IncomingCall struct {
	FromID   string
	FromName string
}

func (IncomingCall) Kind() Kind { return KindIncomingCall }

// VoiceCall 微信语音通话台词
type VoiceCall struct {
	ContactID string
	Name      string
	Content   string
}

func (VoiceCall) Kind() Kind { return KindVoiceCall }

// PhoneCall 电话通话台词
type PhoneCall struct {
	ContactID string
	Name      string
	Content   string
}

func (PhoneCall) Kind() Kind { return KindPhoneCall }

// ForumPost 新帖子
type ForumPost struct {
	PostID     string
	BoardID    string
	BoardName  string
	AuthorID   string
	AuthorName string
	Title      string
	Content    model.Content
	Time       string
	Tags       []string
	Likes      []string
}

func (ForumPost) Kind() Kind { return KindForumPost }

// ForumReply 新回复
type ForumReply struct {
	PostID     string
	AuthorID   string
	AuthorName string
	Content    model.Content
	Time       string
}

func (ForumReply) Kind() Kind { return KindForumReply }

// ForumUpdate 帖子更新（点赞）
type ForumUpdate struct {
	PostID  string
	Action  string
	ActorID string
}

func (ForumUpdate) Kind() Kind { return KindForumUpdate }

// LiveDirectory 直播目录更新，整体替换板块直播列表
type LiveDirectory struct {
	BoardID   string
	BoardName string
	Streams   []model.LiveStream
}

func (LiveDirectory) Kind() Kind { return KindLiveDirectory }

// LiveStatus 当前直播间状态，整体覆盖
type LiveStatus struct {
	StreamerID   string
	StreamerName string
	Title        string
	Content      string
	Viewers      string
	Danmaku      []model.Danmaku
}

func (LiveStatus) Kind() Kind { return KindLiveStatus }

// BrowserPage 网页内容
type BrowserPage struct {
	URL     string
	Title   string
	Content []model.PageBlock
}

func (BrowserPage) Kind() Kind { return KindBrowserPage }

// BrowserSearch 一条搜索结果
type BrowserSearch struct {
	Title   string
	URL     string
	Snippet string
}

func (BrowserSearch) Kind() Kind { return KindBrowserSearch }
