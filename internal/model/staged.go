// 本文件定义暂存项：玩家本地操作在提交前的易失形态
// 暂存项只存在内存中，提交或重置前不会写入任何文档
package model

// 暂存操作类型
const (
	ActionManualAddFriend       = "manual_add_friend"
	ActionAcceptTransaction     = "accept_transaction"
	ActionCreateGroup           = "create_group"
	ActionKickMember            = "kick_member"
	ActionInviteMembers         = "invite_members"
	ActionNewMoment             = "new_moment"
	ActionLike                  = "like"
	ActionComment               = "comment"
	ActionEditComment           = "edit_comment"
	ActionRecallComment         = "recall_comment"
	ActionDeleteComment         = "delete_comment"
	ActionEditMoment            = "edit_moment"
	ActionDeleteMoment          = "delete_moment"
	ActionFriendRequestResponse = "friend_request_response"
	ActionNewForumPost          = "new_forum_post"
	ActionNewForumReply         = "new_forum_reply"
	ActionLikeForumPost         = "like_forum_post"
	ActionEditForumPost         = "edit_forum_post"
	ActionDeleteForumPost       = "delete_forum_post"
	ActionEditForumReply        = "edit_forum_reply"
	ActionDeleteForumReply      = "delete_forum_reply"
	ActionNewLiveStream         = "new_live_stream"
	ActionNewDanmaku            = "new_danmaku"
)

// StagedMessage 暂存的玩家消息
// Message 携带占位时间戳与 staged uid，提交时原样落库（仅清掉来源标记）
type StagedMessage struct {
	ContactID        string  `json:"contactId"`
	DescriptionForAI string  `json:"descriptionForAI,omitempty"` // 富内容的自然语言描述，提交摘要用
	Message          Message `json:"message"`
}

// StagedAction 暂存的玩家结构化操作
// Type 为判别字段，其余字段按操作类型取子集
type StagedAction struct {
	Type string `json:"type"`

	// 联系人/群聊
	ID        string   `json:"id,omitempty"`
	Nickname  string   `json:"nickname,omitempty"`
	GroupID   string   `json:"groupId,omitempty"`
	GroupName string   `json:"groupName,omitempty"`
	MemberID  string   `json:"memberId,omitempty"`
	MemberIDs []string `json:"memberIds,omitempty"`

	// 消息/转账
	UID string `json:"uid,omitempty"`

	// 动态/评论
	MomentID  string   `json:"momentId,omitempty"`
	CommentID string   `json:"commentId,omitempty"`
	Images    []string `json:"images,omitempty"`

	// 论坛/直播
	PostID     string `json:"postId,omitempty"`
	ReplyID    string `json:"replyId,omitempty"`
	BoardID    string `json:"boardId,omitempty"`
	BoardName  string `json:"boardName,omitempty"`
	Title      string `json:"title,omitempty"`
	StreamerID string `json:"streamerId,omitempty"`

	// 好友请求
	Action   string `json:"action,omitempty"` // accept / ignore
	FromID   string `json:"from_id,omitempty"`
	FromName string `json:"from_name,omitempty"`

	Content string `json:"content,omitempty"`
}
