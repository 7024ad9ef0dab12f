package staging

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"phone_sim_server/internal/dao/store"
	"phone_sim_server/internal/model"
	"phone_sim_server/internal/service/appstate"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/pkg/constants"
)

type fakeTrigger struct {
	prompts []string
}

func (f *fakeTrigger) Generate(_ context.Context, prompt string) error {
	f.prompts = append(f.prompts, prompt)
	return nil
}

type stubNotifier struct {
	refreshes []reconcile.Refresh
}

func (n *stubNotifier) ShowNotification(_, _, _, _ string) {}
func (n *stubNotifier) IncomingCall(_, _ string)           {}
func (n *stubNotifier) CallUpdate(_, _, _, _ string)       {}
func (n *stubNotifier) SignalRefresh(r reconcile.Refresh)  { n.refreshes = append(n.refreshes, r) }

func newTestService(t *testing.T) (*Service, *appstate.State, *fakeTrigger) {
	t.Helper()
	docs := store.NewDocuments(store.NewMemory())
	require.NoError(t, docs.Ensure(context.Background()))
	state := appstate.New(docs)
	trigger := &fakeTrigger{}
	return New(state, &stubNotifier{}, trigger), state, trigger
}

// seedContact 预置一个联系人并重建镜像
func seedContact(t *testing.T, state *appstate.State, id, note string, msgs ...model.Message) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, state.Docs().UpdateChat(ctx, func(db *model.ChatDB) error {
		c := &model.Contact{Profile: model.Profile{Nickname: note, Note: note}}
		c.Thread().Messages = append(c.Thread().Messages, msgs...)
		(*db)[id] = c
		return nil
	}))
	require.NoError(t, state.RefreshAll(ctx))
}

func TestCommitStagedMessage(t *testing.T) {
	svc, state, trigger := newTestService(t)
	ctx := context.Background()
	seedContact(t, state, "npc1", "小李")

	staged := svc.StageMessage("npc1", model.Text("你好"), "", "")
	require.True(t, strings.HasPrefix(staged.UID, "staged_"))
	require.Len(t, state.StagedMessages(), 1)

	require.NoError(t, svc.Commit(ctx))

	// 暂存区清空，消息落库
	require.Empty(t, state.StagedMessages())
	msgs := state.Contacts()["npc1"].AppData.WeChat.Messages
	require.Len(t, msgs, 1)
	require.Equal(t, constants.PlayerID, msgs[0].SenderID)
	require.Equal(t, "你好", msgs[0].Content.Plain)

	// 摘要一次性回推
	require.Len(t, trigger.prompts, 1)
	prompt := trigger.prompts[0]
	require.Contains(t, prompt, "{{user}}刚刚在手机上进行了如下操作")
	require.Contains(t, prompt, "在[私聊:小李]中发送消息：“你好”")
	require.Contains(t, prompt, "请根据以上操作，继续推演角色的反应和接下来的剧情。)")
}

func TestCommitEmptyIsNoOp(t *testing.T) {
	svc, _, trigger := newTestService(t)
	require.NoError(t, svc.Commit(context.Background()))
	require.Empty(t, trigger.prompts)
}

func TestCommitStampsTransactionUnclaimed(t *testing.T) {
	svc, state, _ := newTestService(t)
	seedContact(t, state, "npc1", "小李")

	svc.StageMessage("npc1", model.Rich(model.Part{Type: model.PartTransfer, Amount: "52.00"}), "", "给你转账")

	sm := state.StagedMessages()[0]
	part := sm.Message.Content.Single()
	require.NotNil(t, part)
	require.Equal(t, model.ClaimUnclaimed, part.Status)
}

func TestCommitDropsForeignDeleteMoment(t *testing.T) {
	svc, state, trigger := newTestService(t)
	ctx := context.Background()
	require.NoError(t, state.Docs().UpdateChat(ctx, func(db *model.ChatDB) error {
		(*db)["npc1"] = &model.Contact{
			Profile: model.Profile{Note: "小李"},
			Moments: []model.Moment{{MomentID: "m1", PosterID: "npc1", Content: model.Text("别人的动态")}},
		}
		return nil
	}))
	require.NoError(t, state.RefreshAll(ctx))

	svc.StageAction(model.StagedAction{Type: model.ActionDeleteMoment, MomentID: "m1"})
	require.NoError(t, svc.Commit(ctx))

	// 非玩家内容：不落库、不进摘要
	require.Len(t, state.Contacts()["npc1"].Moments, 1)
	require.Empty(t, trigger.prompts)
}

func TestCommitDeletesOwnMoment(t *testing.T) {
	svc, state, trigger := newTestService(t)
	ctx := context.Background()
	require.NoError(t, state.Docs().UpdateChat(ctx, func(db *model.ChatDB) error {
		(*db)[constants.PlayerID] = &model.Contact{
			Moments: []model.Moment{{MomentID: "m2", PosterID: constants.PlayerID, Content: model.Text("我的动态")}},
		}
		return nil
	}))
	require.NoError(t, state.RefreshAll(ctx))

	svc.StageAction(model.StagedAction{Type: model.ActionDeleteMoment, MomentID: "m2"})
	require.NoError(t, svc.Commit(ctx))

	require.Empty(t, state.Contacts()[constants.PlayerID].Moments)
	require.Len(t, trigger.prompts, 1)
	require.Contains(t, trigger.prompts[0], "删除了自己发布的一条动态")
}

func TestCommitAcceptTransactionClaims(t *testing.T) {
	svc, state, trigger := newTestService(t)
	ctx := context.Background()
	seedContact(t, state, "npc1", "小李", model.Message{
		UID:       "msg-1",
		Timestamp: time.Now(),
		SenderID:  "npc1",
		Content:   model.Rich(model.Part{Type: model.PartRedPacket, Amount: "8.88", Status: model.ClaimUnclaimed}),
	})

	svc.StageAction(model.StagedAction{Type: model.ActionAcceptTransaction, UID: "msg-1"})
	require.NoError(t, svc.Commit(ctx))

	part := state.Contacts()["npc1"].AppData.WeChat.Messages[0].Content.Single()
	require.NotNil(t, part)
	require.Equal(t, model.ClaimClaimed, part.Status)
	require.Contains(t, trigger.prompts[0], "接收了小李的红包。")
}

func TestCommitForumPostWithSameBatchReply(t *testing.T) {
	svc, state, trigger := newTestService(t)
	ctx := context.Background()

	svc.StageAction(model.StagedAction{
		Type: model.ActionNewForumPost, PostID: "p1", BoardName: "科技区",
		Title: "开箱", Content: "手感不错",
	})
	svc.StageAction(model.StagedAction{
		Type: model.ActionNewForumReply, PostID: "p1", ReplyID: "r1", Content: "补充一句",
	})
	require.NoError(t, svc.Commit(ctx))

	post := state.Forum().FindPost("p1")
	require.NotNil(t, post)
	require.Equal(t, constants.PlayerID, post.AuthorID)
	require.Len(t, post.Replies, 1)
	require.Equal(t, "r1", post.Replies[0].ReplyID)

	prompt := trigger.prompts[0]
	require.Contains(t, prompt, "在论坛“科技区”板块发表了新帖子（帖子ID: p1）")
	require.Contains(t, prompt, "回复了我的论坛帖子“开箱”：“补充一句”")
}

func TestRespondFriendRequest(t *testing.T) {
	svc, state, trigger := newTestService(t)
	ctx := context.Background()
	require.NoError(t, state.Docs().UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
		db.FriendRequests = append(db.FriendRequests, model.FriendRequest{
			UID: "req-1", FromID: "npc2", FromName: "小王", Status: model.RequestPending,
		})
		return nil
	}))
	require.NoError(t, state.RefreshAll(ctx))

	require.NoError(t, svc.RespondFriendRequest(ctx, "req-1", "accept", "npc2", "小王"))

	// 状态立即持久化，操作进入暂存区等待提交
	require.Equal(t, model.RequestAccepted, state.Directory().FriendRequests[0].Status)
	require.Len(t, state.StagedActions(), 1)

	require.NoError(t, svc.Commit(ctx))
	require.Contains(t, trigger.prompts[0], "接受了小王的好友请求")
}

func TestEditAndDeleteStagedMessage(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()
	seedContact(t, state, "npc1", "小李")

	staged := svc.StageMessage("npc1", model.Text("手滑发错"), "", "")
	require.NoError(t, svc.EditMessage(ctx, staged.UID, model.Text("改好了")))
	require.Equal(t, "改好了", state.StagedMessages()[0].Message.Content.Plain)

	require.NoError(t, svc.DeleteMessage(ctx, staged.UID))
	require.Empty(t, state.StagedMessages())

	require.ErrorContains(t, svc.DeleteMessage(ctx, staged.UID), "目标不存在")
}

func TestRecallPersistedMessage(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()
	seedContact(t, state, "npc1", "小李", model.Message{
		UID: "msg-2", Timestamp: time.Now(), SenderID: "npc1", Content: model.Text("当我没说"),
	})

	require.NoError(t, svc.RecallMessage(ctx, "msg-2"))

	msg := state.Contacts()["npc1"].AppData.WeChat.Messages[0]
	require.True(t, msg.Recalled)
	require.Equal(t, "小李撤回了一条消息", msg.Content.Plain)
}

func TestLogCallKeepsNewestFirst(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, svc.LogCall(ctx, model.CallRecord{ContactID: "npc1", Name: "小李", CallType: "voice", Timestamp: base}))
	require.NoError(t, svc.LogCall(ctx, model.CallRecord{ContactID: "npc2", Name: "小王", CallType: "phone", Timestamp: base.Add(time.Minute)}))

	logs := state.CallLogs()
	require.Len(t, logs, 2)
	require.Equal(t, "npc2", logs[0].ContactID)
	require.Equal(t, "npc1", logs[1].ContactID)
}

func TestResetUnreadAndClearHistory(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, state.Docs().UpdateChat(ctx, func(db *model.ChatDB) error {
		c := &model.Contact{Profile: model.Profile{Note: "小李"}, Unread: 3}
		c.Thread().Messages = []model.Message{{UID: "m", Timestamp: time.Now(), SenderID: "npc1", Content: model.Text("x")}}
		(*db)["npc1"] = c
		return nil
	}))
	require.NoError(t, state.RefreshAll(ctx))

	require.NoError(t, svc.ResetUnread(ctx, "npc1"))
	require.Equal(t, 0, state.Contacts()["npc1"].Unread)

	require.NoError(t, svc.ClearChatHistory(ctx, "npc1"))
	require.Empty(t, state.Contacts()["npc1"].AppData.WeChat.Messages)
}

func TestAddAndDeleteContact(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddContact(ctx, "13800001111", "新朋友"))
	require.NotNil(t, state.Contacts()["13800001111"])
	require.Equal(t, "13800001111", state.Directory().Contacts["新朋友"])
	// 添加动作会暂存，等提交时告知生成端
	require.Len(t, state.StagedActions(), 1)
	require.Equal(t, model.ActionManualAddFriend, state.StagedActions()[0].Type)

	require.NoError(t, svc.DeleteContact(ctx, "13800001111"))
	require.Nil(t, state.Contacts()["13800001111"])
	require.NotContains(t, state.Directory().Contacts, "新朋友")
}

func TestToggleBookmark(t *testing.T) {
	svc, state, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.ToggleBookmark(ctx, "www.news.com/1", "本地新闻")
	require.NoError(t, err)
	require.True(t, added)
	require.Len(t, state.Browser().Bookmarks, 1)

	added, err = svc.ToggleBookmark(ctx, "www.news.com/1", "本地新闻")
	require.NoError(t, err)
	require.False(t, added)
	require.Empty(t, state.Browser().Bookmarks)
}
