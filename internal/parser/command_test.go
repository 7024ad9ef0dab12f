package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/pkg/constants"
)

func TestParseCommandDirectedPrivateMessage(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Private Message, from_id: npc1, to_id: PLAYER_USER, from_name: "Ann (安)", content: "Hi"]`)
	require.NotNil(t, cmd)
	chat, ok := cmd.(command.Chat)
	require.True(t, ok)
	require.Equal(t, "npc1", chat.ContactID)
	require.Equal(t, "npc1", chat.SenderID)
	require.NotNil(t, chat.Profile)
	require.Equal(t, "Ann", chat.Profile.Nickname)
	require.Equal(t, "安", chat.Profile.Note)
	require.True(t, chat.Content.IsPlain())
	require.Equal(t, "Hi", chat.Content.Plain)
}

func TestParseCommandPlayerToNpc(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Private Message, from_id: {{user}}, to_id: npc1, content: 我马上到]`)
	chat, ok := cmd.(command.Chat)
	require.True(t, ok)
	require.Equal(t, "npc1", chat.ContactID)
	require.Equal(t, constants.PlayerID, chat.SenderID)
	require.Nil(t, chat.Profile)
}

func TestParseCommandRejectsNpcToNpc(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Private Message, from_id: npc1, to_id: npc2, content: 密谋]`)
	require.Nil(t, cmd)
}

func TestParseCommandLegacyPrivateMessage(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Private Message, id: npc2, name: 老王, content: 在吗, time: 21:05]`)
	chat, ok := cmd.(command.Chat)
	require.True(t, ok)
	require.Equal(t, "npc2", chat.ContactID)
	require.Equal(t, "npc2", chat.SenderID)
	require.Equal(t, "老王", chat.Profile.Nickname)
	require.Equal(t, "老王", chat.Profile.Note)
	require.Equal(t, "21:05", chat.Time)
}

func TestParseCommandValueWithComma(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 想你了, 快点回来]`)
	chat, ok := cmd.(command.Chat)
	require.True(t, ok)
	require.Equal(t, "想你了, 快点回来", chat.Content.Plain)
}

func TestParseCommandGroupChat(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Group Chat, group_id: 100, group_name: 同学群, sender_id: npc3, sender_name: 班长, content: 周六聚餐, time: 10:00]`)
	chat, ok := cmd.(command.Chat)
	require.True(t, ok)
	require.True(t, chat.IsGroup)
	require.Equal(t, "100", chat.GroupID)
	require.Equal(t, "同学群", chat.GroupName)
	require.Equal(t, "npc3", chat.SenderID)
	require.Equal(t, "班长", chat.SenderProfile.Nickname)
}

func TestParseCommandSystemPrompt(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: System Prompt, contact_id: npc1, content: 对方开启了朋友验证]`)
	chat, ok := cmd.(command.Chat)
	require.True(t, ok)
	require.True(t, chat.IsSystem)
	require.Equal(t, "npc1", chat.ContactID)
}

func TestParseCommandSystemPromptReclassifiedAsFriendRequest(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: System Prompt, contact_id: npc9, content: “Bob” requests to add you as a friend]`)
	fr, ok := cmd.(command.FriendRequest)
	require.True(t, ok)
	require.Equal(t, "npc9", fr.FromID)
	require.Equal(t, "Bob", fr.FromName)
	require.Equal(t, "requests to add you as a friend", fr.Content)
}

func TestParseCommandFriendRequestLegacyKeys(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Friend Request, id: npc7, content: 我是你的邻居]`)
	fr, ok := cmd.(command.FriendRequest)
	require.True(t, ok)
	require.Equal(t, "npc7", fr.FromID)
	require.Equal(t, "npc7", fr.FromName) // 无名字时回落到 ID
}

func TestParseCommandVoiceAndPhone(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Voice, id: npc1, name: 小李, content: 喂，听得到吗]`)
	vc, ok := cmd.(command.VoiceCall)
	require.True(t, ok)
	require.Equal(t, "npc1", vc.ContactID)

	cmd = ParseCommand(`[app:Phone, type: Phone, id: npc1, name: 小李, content: 你到哪了]`)
	pc, ok := cmd.(command.PhoneCall)
	require.True(t, ok)
	require.Equal(t, "npc1", pc.ContactID)

	cmd = ParseCommand(`[app:Phone, type: IncomingCall, from_id: npc1, from_name: 小李]`)
	ic, ok := cmd.(command.IncomingCall)
	require.True(t, ok)
	require.Equal(t, "npc1", ic.FromID)
}

func TestParseCommandEmail(t *testing.T) {
	cmd := ParseCommand(`[app:Email, type: New, from_id: hr, from_name: 人事部, subject: 面试通知, content: 请于周一上午到场, attachment_name: 路线图.pdf, attachment_desc: 公司位置]`)
	em, ok := cmd.(command.Email)
	require.True(t, ok)
	require.Equal(t, "hr", em.FromID)
	require.Equal(t, "面试通知", em.Subject)
	require.Equal(t, "路线图.pdf", em.AttachmentName)
}

func TestParseCommandNewMomentJSON(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: New Moment, data: {"moment_id":"m1","poster_id":"npc1","poster_nickname":"小李","time":"14:00","content":"天气真好","likes":["npc2"],"comments":[{"commenterId":"npc3","text":"同感"}]}]`)
	m, ok := cmd.(command.Moment)
	require.True(t, ok)
	require.Equal(t, "m1", m.MomentID)
	require.Equal(t, "npc1", m.PosterID)
	require.Equal(t, []string{"npc2"}, m.Likes)
	require.Len(t, m.Comments, 1)
	require.True(t, strings.HasPrefix(m.Comments[0].UID, "comment_"))
	require.Equal(t, "npc3", m.Comments[0].CommenterID)
}

func TestParseCommandMomentUpdateRequiresFields(t *testing.T) {
	cmd := ParseCommand(`[app:WeChat, type: Update Moment, data: {"moment_id":"m1","action":"like","actor_id":"npc2"}]`)
	mu, ok := cmd.(command.MomentUpdate)
	require.True(t, ok)
	require.Equal(t, "like", mu.Action)

	// 缺 actor_id，校验不过
	require.Nil(t, ParseCommand(`[app:WeChat, type: Update Moment, data: {"moment_id":"m1","action":"like"}]`))
	// 动作越界
	require.Nil(t, ParseCommand(`[app:WeChat, type: Update Moment, data: {"moment_id":"m1","action":"delete","actor_id":"npc2"}]`))
}

func TestParseCommandJSONCommandWithoutData(t *testing.T) {
	require.Nil(t, ParseCommand(`[app:WeChat, type: New Moment, moment_id: m1]`))
	require.Nil(t, ParseCommand(`[app:Forum, type: New Post, data: {这不是JSON}]`))
}

func TestParseCommandForumPost(t *testing.T) {
	cmd := ParseCommand(`[app:Forum, type: New Post, data: {"postId":"p1","boardId":"tech","boardName":"科技区","authorId":"npc1","authorName":"小李","title":"新手机开箱","content":"[Image:abc123.png] 手感不错","time":"13:30","tags":["数码"]}]`)
	p, ok := cmd.(command.ForumPost)
	require.True(t, ok)
	require.Equal(t, "tech", p.BoardID)
	require.Equal(t, "新手机开箱", p.Title)
	require.Len(t, p.Content.Parts, 2) // 富内容同样经过分词
}

func TestParseCommandForumReplyAndUpdate(t *testing.T) {
	cmd := ParseCommand(`[app:Forum, type: New Reply, data: {"postId":"p1","authorId":"npc2","content":"蹲一个真机图"}]`)
	r, ok := cmd.(command.ForumReply)
	require.True(t, ok)
	require.Equal(t, "p1", r.PostID)

	cmd = ParseCommand(`[app:Forum, type: Update Post, data: {"postId":"p1","action":"like","actor_id":"npc3"}]`)
	u, ok := cmd.(command.ForumUpdate)
	require.True(t, ok)
	require.Equal(t, "npc3", u.ActorID)
}

func TestParseCommandLiveCenter(t *testing.T) {
	cmd := ParseCommand(`[app:LiveCenter, type: Directory Update, data: {"boardId":"game","boardName":"游戏区","streams":[{"streamerId":"s1","streamerName":"大神","title":"上分之夜","viewers":"1.2万"}]}]`)
	d, ok := cmd.(command.LiveDirectory)
	require.True(t, ok)
	require.Equal(t, "game", d.BoardID)
	require.Len(t, d.Streams, 1)

	cmd = ParseCommand(`[app:LiveCenter, type: Stream Status, data: {"streamerId":"s1","title":"上分之夜","content":"正在打排位","danmaku":[{"sender":"路人甲","content":"666"}]}]`)
	s, ok := cmd.(command.LiveStatus)
	require.True(t, ok)
	require.Equal(t, "s1", s.StreamerID)
	require.Len(t, s.Danmaku, 1)
}

func TestParseCommandBrowser(t *testing.T) {
	cmd := ParseCommand(`[app:Browser, type: Webpage, url: www.news.com/1, title: 本地新闻, content: [{"type":"paragraph","text":"今日晴"}]]`)
	p, ok := cmd.(command.BrowserPage)
	require.True(t, ok)
	require.Equal(t, "www.news.com/1", p.URL)
	require.Len(t, p.Content, 1)
	require.Equal(t, "今日晴", p.Content[0].Text.Plain)

	cmd = ParseCommand(`[app:Browser, type: Search Directory, title: 本地新闻, url: www.news.com/1, snippet: 今日天气...]`)
	s, ok := cmd.(command.BrowserSearch)
	require.True(t, ok)
	require.Equal(t, "本地新闻", s.Title)
}

func TestParseCommandIgnoresNonCommandText(t *testing.T) {
	require.Nil(t, ParseCommand("这只是普通的叙事文本。"))
	require.Nil(t, ParseCommand("[app:WeChat]"))
	require.Nil(t, ParseCommand("[app:WeChat, foo: bar]")) // 缺 type
	require.Nil(t, ParseCommand("[app:UnknownApp, type: Whatever, id: 1]"))
}
