// Package constants 定义全局常量
// 包括文档条目名称、玩家标识和指令 app/type 名称
package constants

// PlayerID 本地玩家在所有文档中的固定 ID
// 指令中的 {{user}} 占位符会被归一化为该 ID
const PlayerID = "PLAYER_USER"

// DefaultPlayerNickname 玩家默认昵称，用于提交摘要和论坛署名
const DefaultPlayerNickname = "我"

// 文档条目名称
// 与原手机模拟器插件的世界书条目一一对应，保证存量数据可以直接读取
const (
	DocChatDB     = "手机模拟器_聊天记录"   // 联系人/群聊 + 消息 + 动态
	DocDirectory  = "手机模拟器_联系人目录"  // 名称->ID 映射、群成员、好友请求
	DocAvatars    = "手机模拟器_头像存储"   // 自定义头像（base64），仅透传
	DocEmails     = "手机模拟器_邮件数据库"  // 数组型文档
	DocCallLogs   = "手机模拟器_通话记录"   // 数组型文档
	DocBrowser    = "手机模拟器_浏览器数据库" // 页面缓存、历史、书签、搜索目录
	DocForum      = "手机模拟器_论坛数据库"  // 板块 -> 帖子 -> 回复
	DocLiveCenter = "手机模拟器_直播数据"   // 直播目录 + 当前直播间
)

// 指令外层 app 名称
const (
	AppWeChat     = "WeChat"
	AppEmail      = "Email"
	AppPhone      = "Phone"
	AppForum      = "Forum"
	AppLiveCenter = "LiveCenter"
	AppBrowser    = "Browser"
)

// 指令 type 名称，按 app 分组
const (
	TypePrivateMessage  = "Private Message"
	TypeGroupChat       = "Group Chat"
	TypeVoice           = "Voice"
	TypeSystemPrompt    = "System Prompt"
	TypeFriendRequest   = "Friend Request"
	TypeNewMoment       = "New Moment"
	TypeUpdateProfile   = "Update Profile"
	TypeUpdateMoment    = "Update Moment"
	TypeEmailNew        = "New"
	TypeIncomingCall    = "IncomingCall"
	TypePhoneCall       = "Phone"
	TypeNewPost         = "New Post"
	TypeNewReply        = "New Reply"
	TypeUpdatePost      = "Update Post"
	TypeDirectoryUpdate = "Directory Update"
	TypeStreamStatus    = "Stream Status"
	TypeWebpage         = "Webpage"
	TypeSearchDirectory = "Search Directory"
)

// CallLogLimit 通话记录上限，超出后丢弃最旧的一条
const CallLogLimit = 100
