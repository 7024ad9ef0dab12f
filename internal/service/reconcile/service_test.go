package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"phone_sim_server/internal/dao/store"
	"phone_sim_server/internal/model"
	"phone_sim_server/internal/service/appstate"
	"phone_sim_server/pkg/constants"
)

type fakeNotifier struct {
	notifications []string // 横幅预览文本
	incomingCalls []string
	callUpdates   []string
	refreshes     []Refresh
}

func (f *fakeNotifier) ShowNotification(_, _, preview, _ string) {
	f.notifications = append(f.notifications, preview)
}
func (f *fakeNotifier) IncomingCall(_, name string)   { f.incomingCalls = append(f.incomingCalls, name) }
func (f *fakeNotifier) CallUpdate(kind, _, _, _ string) {
	f.callUpdates = append(f.callUpdates, kind)
}
func (f *fakeNotifier) SignalRefresh(r Refresh) { f.refreshes = append(f.refreshes, r) }

func newTestService(t *testing.T) (*Service, *appstate.State, *fakeNotifier) {
	t.Helper()
	docs := store.NewDocuments(store.NewMemory())
	require.NoError(t, docs.Ensure(context.Background()))
	state := appstate.New(docs)
	notifier := &fakeNotifier{}
	return New(state, notifier), state, notifier
}

const worldLine = "<WorldState>时间: 2024年5月1日 10:00</WorldState>\n"

func TestProcessTurnPersistsPrivateMessage(t *testing.T) {
	svc, state, notifier := newTestService(t)
	ctx := context.Background()

	refresh := svc.ProcessTurn(ctx, "turn-1", worldLine+
		`[app:WeChat, type: Private Message, from_id: npc1, to_id: PLAYER_USER, from_name: "Ann (安)", content: 你好, time: 10:05]`)
	require.True(t, refresh.Chat)

	db := state.Contacts()
	c := db["npc1"]
	require.NotNil(t, c)
	require.Equal(t, "Ann", c.Profile.Nickname)
	require.Equal(t, "安", c.Profile.Note)
	require.Len(t, c.AppData.WeChat.Messages, 1)
	msg := c.AppData.WeChat.Messages[0]
	require.Equal(t, "npc1", msg.SenderID)
	require.Equal(t, "turn-1", msg.SourceMsgID)
	require.Equal(t, 10, msg.Timestamp.Hour())
	require.Equal(t, 5, msg.Timestamp.Minute())

	// 非玩家消息进了未打开的会话：未读 +1，弹一次横幅
	require.Equal(t, 1, c.Unread)
	require.Len(t, notifier.notifications, 1)

	// 目录同步：备注 -> ID
	require.Equal(t, "npc1", state.Directory().Contacts["安"])
}

func TestProcessTurnIsIdempotent(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()
	turn := worldLine +
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 第一条, time: 10:00]\n" +
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 第二条, time: 10:01]"

	svc.ProcessTurn(ctx, "turn-7", turn)
	svc.ProcessTurn(ctx, "turn-7", turn)

	c := state.Contacts()["npc1"]
	require.NotNil(t, c)
	require.Len(t, c.AppData.WeChat.Messages, 2)
	require.Equal(t, 2, c.Unread)
}

func TestProcessTurnCleanupWithEmptyBatch(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "42", worldLine+
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 待撤回, time: 10:00]")
	require.Equal(t, 1, state.Contacts()["npc1"].Unread)

	// 同一来源重新处理为纯叙事文本：同源消息全部清理，未读对称回退
	svc.ProcessTurn(ctx, "42", "这回合被编辑成了没有任何指令的叙事。")

	c := state.Contacts()["npc1"]
	require.NotNil(t, c)
	require.Empty(t, c.AppData.WeChat.Messages)
	require.Equal(t, 0, c.Unread)
}

func TestProcessTurnActiveThreadSkipsUnread(t *testing.T) {
	svc, state, notifier := newTestService(t)
	ctx := context.Background()
	state.SetActiveContact("npc1")

	svc.ProcessTurn(ctx, "turn-2", worldLine+
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 在看着呢, time: 10:00]")

	require.Equal(t, 0, state.Contacts()["npc1"].Unread)
	require.Empty(t, notifier.notifications)
}

func TestProcessTurnSystemPromptNoUnreadNoBanner(t *testing.T) {
	svc, state, notifier := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-3", worldLine+
		"[app:WeChat, type: System Prompt, contact_id: npc1, content: 你们已经成为好友, time: 10:00]")

	c := state.Contacts()["npc1"]
	require.NotNil(t, c)
	require.Len(t, c.AppData.WeChat.Messages, 1)
	require.True(t, c.AppData.WeChat.Messages[0].IsSystemNotification)
	require.Equal(t, 0, c.Unread)
	require.Empty(t, notifier.notifications)
}

func TestProcessTurnGroupChat(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-4", worldLine+
		"[app:WeChat, type: Group Chat, group_id: 100, group_name: 同学群, sender_id: npc3, sender_name: 班长, content: 周六聚餐, time: 10:00]")

	db := state.Contacts()
	group := db["group_100"]
	require.NotNil(t, group)
	require.Equal(t, "同学群", group.Profile.GroupName)
	require.Contains(t, group.Profile.Members, "npc3")
	// 发言人作为联系人自动建档
	require.NotNil(t, db["npc3"])

	dir := state.Directory()
	require.Equal(t, "100", dir.Groups["同学群"].ID)
	require.Contains(t, dir.Groups["同学群"].Members, "班长")
}

func TestProcessTurnStampsTransferUnclaimed(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-5", worldLine+
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: [Transfer:52.00|请你喝奶茶], time: 10:00]")

	msg := state.Contacts()["npc1"].AppData.WeChat.Messages[0]
	part := msg.Content.Single()
	require.NotNil(t, part)
	require.Equal(t, "unclaimed", part.Status)
}

func TestProcessTurnSameBatchForumReply(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-6", worldLine+
		`[app:Forum, type: New Post, data: {"postId":"p1","boardId":"tech","boardName":"科技区","authorId":"npc1","title":"开箱","content":"手感不错","time":"10:00"}]`+"\n"+
		`[app:Forum, type: New Reply, data: {"postId":"p1","authorId":"npc2","content":"蹲真机图","time":"10:01"}]`)

	post := state.Forum().FindPost("p1")
	require.NotNil(t, post)
	require.Len(t, post.Replies, 1)
	require.Equal(t, "npc2", post.Replies[0].AuthorID)
}

func TestProcessTurnMomentWithSameBatchLike(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-8", worldLine+
		`[app:WeChat, type: New Moment, data: {"moment_id":"m1","poster_id":"npc1","poster_nickname":"小李","time":"09:30","content":"天气真好"}]`+"\n"+
		`[app:WeChat, type: Update Moment, data: {"moment_id":"m1","action":"like","actor_id":"npc2"}]`)

	moments := state.Moments()
	require.Len(t, moments, 1)
	require.Equal(t, []string{"npc2"}, moments[0].Likes)
	require.Equal(t, "turn-8", moments[0].SourceMsgID)
}

func TestProcessTurnEmailAndLiveAndBrowser(t *testing.T) {
	svc, state, notifier := newTestService(t)
	ctx := context.Background()
	state.SetPendingSearch("本地新闻")

	svc.ProcessTurn(ctx, "turn-9", worldLine+
		"[app:Email, type: New, from_id: hr, from_name: 人事部, subject: 面试通知, content: 周一上午]\n"+
		`[app:LiveCenter, type: Stream Status, data: {"streamerId":"s1","title":"上分之夜"}]`+"\n"+
		"[app:Browser, type: Search Directory, title: 本地新闻, url: www.news.com/1, snippet: 今日...]")

	emails := state.Emails()
	require.Len(t, emails, 1)
	require.False(t, emails[0].Read)
	require.Len(t, notifier.notifications, 1) // 邮件横幅

	require.NotNil(t, state.Live().ActiveStream)
	require.Equal(t, "s1", state.Live().ActiveStream.StreamerID)

	browser := state.Browser()
	require.NotNil(t, browser.Directory)
	require.Equal(t, "搜索: 本地新闻", browser.Directory.Title)
	require.NotNil(t, browser.Pages["www.news.com/1"])
}

func TestProcessTurnCallCommands(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-10", worldLine+
		"[app:Phone, type: IncomingCall, from_id: npc1, from_name: 小李]\n"+
		"[app:WeChat, type: Voice, id: npc1, name: 小李, content: 喂]\n"+
		"[app:Phone, type: Phone, id: npc1, name: 小李, content: 你到哪了]")

	require.Equal(t, []string{"小李"}, notifier.incomingCalls)
	require.Equal(t, []string{"voice", "phone"}, notifier.callUpdates)
}

func TestDeleteBySourceClearsEverything(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	svc.ProcessTurn(ctx, "turn-11", worldLine+
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 你好, time: 10:00]\n"+
		"[app:Email, type: New, from_id: hr, from_name: 人事部, subject: 通知]\n"+
		`[app:Forum, type: New Post, data: {"postId":"p1","boardId":"tech","boardName":"科技区","authorId":"npc1","title":"开箱","content":"好"}]`+"\n"+
		`[app:WeChat, type: New Moment, data: {"moment_id":"m1","poster_id":"npc1","content":"发个动态"}]`)

	svc.DeleteBySource(ctx, "turn-11")

	require.Empty(t, state.Contacts()["npc1"].AppData.WeChat.Messages)
	require.Equal(t, 0, state.Contacts()["npc1"].Unread)
	require.Empty(t, state.Emails())
	require.Nil(t, state.Forum().FindPost("p1"))
	require.Empty(t, state.Moments())
}

// hookStore 在聊天文档写入落地后执行一次回调，模拟交错到达的其他写者
type hookStore struct {
	store.Store
	afterChatWrite func()
}

func (s *hookStore) Write(ctx context.Context, name string, data []byte) error {
	if err := s.Store.Write(ctx, name, data); err != nil {
		return err
	}
	if name == constants.DocChatDB && s.afterChatWrite != nil {
		hook := s.afterChatWrite
		s.afterChatWrite = nil
		hook()
	}
	return nil
}

func TestProcessTurnKeepsInterleavedDirectoryWrite(t *testing.T) {
	backend := &hookStore{Store: store.NewMemory()}
	docs := store.NewDocuments(backend)
	require.NoError(t, docs.Ensure(context.Background()))
	state := appstate.New(docs)
	svc := New(state, &fakeNotifier{})
	ctx := context.Background()

	// 先落一条待处理好友请求
	svc.ProcessTurn(ctx, "turn-13", worldLine+
		"[app:WeChat, type: Friend Request, from_id: npc9, from_name: 小王, content: 加个好友吧]")
	dir, err := docs.Directory(ctx)
	require.NoError(t, err)
	require.Len(t, dir.FriendRequests, 1)
	require.Equal(t, model.RequestPending, dir.FriendRequests[0].Status)

	// 聊天文档落库与目录写回之间，另一个写者把请求置为已接受
	backend.afterChatWrite = func() {
		require.NoError(t, docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
			db.FriendRequests[0].Status = model.RequestAccepted
			return nil
		}))
	}
	svc.ProcessTurn(ctx, "turn-14", worldLine+
		`[app:WeChat, type: Private Message, from_id: npc1, to_id: PLAYER_USER, from_name: "Ann (安)", content: 你好, time: 10:05]`)

	// 中途落地的状态改动不能被目录写回覆盖
	dir, err = docs.Directory(ctx)
	require.NoError(t, err)
	require.Equal(t, model.RequestAccepted, dir.FriendRequests[0].Status)
	// 本回合自己的目录改动照常落地
	require.Equal(t, "npc1", dir.Contacts["安"])
}

func TestProcessTurnKeepsInterleavedGroupDirectoryWrite(t *testing.T) {
	backend := &hookStore{Store: store.NewMemory()}
	docs := store.NewDocuments(backend)
	require.NoError(t, docs.Ensure(context.Background()))
	state := appstate.New(docs)
	svc := New(state, &fakeNotifier{})
	ctx := context.Background()

	// 群消息落库时，另一个写者手动记了一条联系人映射
	backend.afterChatWrite = func() {
		require.NoError(t, docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
			db.SetContact("邻居", "npc8")
			return nil
		}))
	}
	svc.ProcessTurn(ctx, "turn-15", worldLine+
		"[app:WeChat, type: Group Chat, group_id: 100, group_name: 同学群, sender_id: npc3, sender_name: 班长, content: 周六聚餐, time: 10:00]")

	dir, err := docs.Directory(ctx)
	require.NoError(t, err)
	require.Equal(t, "npc8", dir.Contacts["邻居"])
	// 群目录项与成员名同步照常落地
	require.Equal(t, "100", dir.Groups["同学群"].ID)
	require.Contains(t, dir.Groups["同学群"].Members, "班长")
}

func TestProcessTurnWorldClockDrivesTimestamps(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	// 跨天：后一条时刻早于前一条，日期加一
	svc.ProcessTurn(ctx, "turn-12", worldLine+
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 晚安, time: 23:30]\n"+
		"[app:WeChat, type: Private Message, id: npc1, name: 小李, content: 早, time: 07:00]")

	msgs := state.Contacts()["npc1"].AppData.WeChat.Messages
	require.Len(t, msgs, 2)
	require.Equal(t, 23, msgs[0].Timestamp.Hour())
	require.Equal(t, 7, msgs[1].Timestamp.Hour())
	require.Equal(t, msgs[0].Timestamp.Day()+1, msgs[1].Timestamp.Day())
}
